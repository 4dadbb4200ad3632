package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
)

// TokenTTL is the session token lifetime. Claims are a snapshot taken at
// login; server-side role or verification changes become visible no later
// than this TTL (sooner via the session cache).
const TokenTTL = 24 * time.Hour

// Claims is the strongly-typed payload of a session token.
type Claims struct {
	UserID string                    `json:"uid"`
	Role   domain.Role               `json:"role"`
	OrgID  *string                   `json:"org_id,omitempty"`
	Status domain.VerificationStatus `json:"status"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a process-wide symmetric
// secret.
type Codec struct {
	secret []byte
}

// New builds a Codec. An empty secret is a configuration error and must be
// treated as a startup failure by the caller.
func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is not configured")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Issue signs the claims with HS256 and an expiry of TokenTTL from now.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(TokenTTL))
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify validates signature and expiry. It returns nil for any failure:
// malformed token, wrong signing method, bad signature, or expiry in the
// past. Failures never propagate as errors; an unverifiable token is
// simply no session.
func (c *Codec) Verify(tokenString string) *Claims {
	if tokenString == "" {
		return nil
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil
	}
	if !claims.Role.Valid() {
		return nil
	}
	return claims
}
