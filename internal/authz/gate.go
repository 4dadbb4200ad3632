package authz

import "github.com/thinksaga/recruitkart-sub003/internal/domain"

// verificationGate applies the trust-lifecycle check that outranks role
// access: a PENDING identity is confined to the holding page whatever its
// role, and a VERIFIED identity is bounced off the holding page to its
// dashboard. The holding page's own API (submitting review details,
// checking status) counts as part of the page, or a PENDING user could
// never leave it. Other statuses pass through this layer unchanged and
// are handled by role checks alone.
func verificationGate(role domain.Role, status domain.VerificationStatus, path string) Decision {
	onHolding := path == HoldingPath || prefixMatch(path, VerificationAPIPrefix)
	if status == domain.StatusPending && !onHolding {
		return Decision{Kind: DecisionRedirectHolding, Target: HoldingPath}
	}
	// Only the page itself bounces a verified user; the status API stays
	// readable after approval.
	if status == domain.StatusVerified && path == HoldingPath {
		return Decision{Kind: DecisionRedirectHome, Target: HomeRoute(role)}
	}
	return Decision{Kind: DecisionAllow}
}
