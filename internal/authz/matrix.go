package authz

import (
	"strings"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
)

// Well-known paths used by the decision engine.
const (
	LoginPath   = "/login"
	HoldingPath = "/verification-pending"
	APIPrefix   = "/api/"

	// VerificationAPIPrefix backs the holding page: a PENDING caller may
	// use it even though every other path is confined.
	VerificationAPIPrefix = "/api/verification"
)

// publicPrefixes lists path prefixes reachable without a session. The root
// path is public by exact match only, so "/" does not open everything up.
var publicPrefixes = []string{
	"/login",
	"/signup",
	"/forgot-password",
	"/reset-password",
	"/about",
	"/pricing",
	"/contact",
	"/api/auth",
	"/api/companies", // company directory is open for browsing
}

// routeEntry maps a path prefix to the roles allowed under it.
type routeEntry struct {
	prefix string
	roles  []domain.Role
}

// roleRoutes is the route matrix: defined once, read-only for the life of
// the process. When several prefixes match a path, access requires
// membership in every matched entry's set (most-restrictive-wins), so a
// broad prefix can never be widened by a narrower one.
var roleRoutes = []routeEntry{
	{"/admin", []domain.Role{domain.RoleAdmin}},
	{"/admin/audit", []domain.Role{domain.RoleAdmin, domain.RoleComplianceOfficer}},
	{"/dashboard/admin", []domain.Role{domain.RoleAdmin}},
	{"/dashboard/support", []domain.Role{domain.RoleAdmin, domain.RoleSupport}},
	{"/dashboard/operations", []domain.Role{domain.RoleAdmin, domain.RoleOperator}},
	{"/dashboard/company", []domain.Role{domain.RoleCompanyAdmin, domain.RoleCompanyMember, domain.RoleInterviewer, domain.RoleDecisionMaker}},
	{"/tas", []domain.Role{domain.RoleTAS}},
	{"/candidate", []domain.Role{domain.RoleCandidate}},
	{"/interviews", []domain.Role{domain.RoleInterviewer, domain.RoleDecisionMaker}},
	{"/decisions", []domain.Role{domain.RoleDecisionMaker}},
	{"/finance", []domain.Role{domain.RoleAdmin, domain.RoleFinancialController}},
	{"/compliance", []domain.Role{domain.RoleAdmin, domain.RoleComplianceOfficer}},

	{"/api/admin", []domain.Role{domain.RoleAdmin}},
	{"/api/review", []domain.Role{domain.RoleAdmin, domain.RoleOperator, domain.RoleComplianceOfficer}},
	{"/api/company", []domain.Role{domain.RoleCompanyAdmin, domain.RoleCompanyMember, domain.RoleInterviewer, domain.RoleDecisionMaker}},
	{"/api/tas", []domain.Role{domain.RoleTAS}},
	{"/api/candidate", []domain.Role{domain.RoleCandidate}},
	{"/api/finance", []domain.Role{domain.RoleAdmin, domain.RoleFinancialController}},
	{"/api/compliance", []domain.Role{domain.RoleAdmin, domain.RoleComplianceOfficer}},
}

// IsPublic reports whether the path needs no session at all: the root page
// by exact match, or any of the fixed public prefixes.
func IsPublic(path string) bool {
	if path == "/" {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// IsAPI reports whether the path belongs to the API namespace, which gets
// structured 403 responses instead of redirects on denial.
func IsAPI(path string) bool {
	return strings.HasPrefix(path, APIPrefix)
}

// AllowedRoles returns the set of roles allowed on the path, intersecting
// every matching matrix entry. nil means no entry matched: no restriction
// is recorded for the path.
func AllowedRoles(path string) []domain.Role {
	var allowed []domain.Role
	matched := false
	for _, entry := range roleRoutes {
		if !prefixMatch(path, entry.prefix) {
			continue
		}
		if !matched {
			matched = true
			allowed = append(allowed, entry.roles...)
			continue
		}
		allowed = intersect(allowed, entry.roles)
	}
	if !matched {
		return nil
	}
	return allowed
}

// prefixMatch matches whole path segments: "/tas" matches "/tas" and
// "/tas/credits" but not "/task".
func prefixMatch(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func intersect(a, b []domain.Role) []domain.Role {
	out := a[:0]
	for _, r := range a {
		for _, o := range b {
			if r == o {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func contains(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// HomeRoute is the canonical landing page per role, used as the redirect
// target whenever a caller with a valid session is denied a page. The
// switch is exhaustive over the closed role set.
func HomeRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/dashboard/admin"
	case domain.RoleSupport:
		return "/dashboard/support"
	case domain.RoleOperator:
		return "/dashboard/operations"
	case domain.RoleTAS:
		return "/tas"
	case domain.RoleCandidate:
		return "/candidate"
	case domain.RoleCompanyAdmin, domain.RoleCompanyMember:
		return "/dashboard/company"
	case domain.RoleInterviewer:
		return "/interviews"
	case domain.RoleDecisionMaker:
		return "/decisions"
	case domain.RoleFinancialController:
		return "/finance"
	case domain.RoleComplianceOfficer:
		return "/compliance"
	}
	return LoginPath
}
