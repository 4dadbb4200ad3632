// Package authz is the request-path authorization core: it resolves the
// caller from the session cookie, applies the verification gate, consults
// the role-route matrix and produces a terminal decision for every inbound
// request. It never lets an internal failure escape as an error - the
// engine fails closed to a login redirect.
package authz

import (
	"context"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/logger"
	"github.com/thinksaga/recruitkart-sub003/pkg/session"
	"github.com/thinksaga/recruitkart-sub003/pkg/token"
)

type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionRedirectLogin
	DecisionRedirectHolding
	DecisionRedirectHome
	DecisionForbidden
)

// Decision is the terminal outcome of evaluating one request. Target is
// the redirect destination for the redirect kinds.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Accessor resolves the current caller from a raw session cookie value:
// codec verification plus the per-subject revocation watermark.
type Accessor struct {
	codec *token.Codec
	cache *session.Cache
}

// NewAccessor builds an Accessor. cache may be nil, in which case logout
// revocation is not enforced and tokens live out their full TTL.
func NewAccessor(codec *token.Codec, cache *session.Cache) *Accessor {
	return &Accessor{codec: codec, cache: cache}
}

// Caller returns the verified claims for the cookie value, or nil when
// there is no usable session: missing cookie, bad signature, expiry, or a
// revocation watermark after the token's issue time. A cache outage fails
// closed to nil.
func (a *Accessor) Caller(ctx context.Context, rawCookie string) *token.Claims {
	claims := a.codec.Verify(rawCookie)
	if claims == nil {
		return nil
	}
	// Without Redis there are no watermarks to consult; revocation is
	// disabled rather than locking everyone out. A configured cache that
	// cannot answer fails closed.
	if a.cache.Enabled() && claims.IssuedAt != nil {
		revoked, err := a.cache.Revoked(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			logger.Log.Warn("session revocation check failed, treating as no session",
				"user_id", claims.UserID, "error", err)
			return nil
		}
		if revoked {
			return nil
		}
	}
	return claims
}

// Engine combines the accessor's claims, the verification gate and the
// role-route matrix into one decision per request.
type Engine struct {
	cache *session.Cache
}

// NewEngine builds an Engine. cache may be nil; without it decisions rest
// solely on the token snapshot.
func NewEngine(cache *session.Cache) *Engine {
	return &Engine{cache: cache}
}

// Evaluate produces the terminal decision for a request. claims is nil
// for an unauthenticated caller. Any panic during evaluation degrades to
// a login redirect.
func (e *Engine) Evaluate(ctx context.Context, claims *token.Claims, path string) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("authorization evaluation panicked, failing closed",
				"path", path, "panic", r)
			d = Decision{Kind: DecisionRedirectLogin, Target: LoginPath}
		}
	}()

	// Public paths terminate immediately, whatever the session state.
	if IsPublic(path) {
		return Decision{Kind: DecisionAllow}
	}

	if claims == nil {
		return Decision{Kind: DecisionRedirectLogin, Target: LoginPath}
	}

	role, status := e.freshClaims(ctx, claims)

	// The verification gate outranks role checks.
	if d := verificationGate(role, status, path); d.Kind != DecisionAllow {
		return d
	}

	allowed := AllowedRoles(path)
	if allowed == nil {
		// No restriction recorded for this path: default open for
		// authenticated callers (marketing pages outside the matrix).
		return Decision{Kind: DecisionAllow}
	}
	if !contains(allowed, role) {
		if IsAPI(path) {
			return Decision{Kind: DecisionForbidden}
		}
		return Decision{Kind: DecisionRedirectHome, Target: HomeRoute(role)}
	}
	return Decision{Kind: DecisionAllow}
}

// freshClaims prefers the short-TTL server-side snapshot over the token's
// login-time snapshot, so role and verification changes take effect before
// token expiry. A cache miss or outage falls back to the token claims,
// which are already signature-checked.
func (e *Engine) freshClaims(ctx context.Context, claims *token.Claims) (domain.Role, domain.VerificationStatus) {
	if e.cache == nil {
		return claims.Role, claims.Status
	}
	snap, err := e.cache.Get(ctx, claims.UserID)
	if err != nil || snap == nil {
		return claims.Role, claims.Status
	}
	if !snap.Role.Valid() || !snap.Status.Valid() {
		return claims.Role, claims.Status
	}
	return snap.Role, snap.Status
}
