package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/token"
)

func TestNewRequiresSecret(t *testing.T) {
	_, err := token.New("")
	assert.Error(t, err)

	codec, err := token.New("test-secret")
	require.NoError(t, err)
	assert.NotNil(t, codec)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, err := token.New("test-secret")
	require.NoError(t, err)

	orgID := "org-1"
	claims := token.Claims{
		UserID: "user-1",
		Role:   domain.RoleCompanyAdmin,
		OrgID:  &orgID,
		Status: domain.StatusVerified,
	}

	signed, err := codec.Issue(claims)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	got := codec.Verify(signed)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, domain.RoleCompanyAdmin, got.Role)
	require.NotNil(t, got.OrgID)
	assert.Equal(t, "org-1", *got.OrgID)
	assert.Equal(t, domain.StatusVerified, got.Status)
	require.NotNil(t, got.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(token.TokenTTL), got.ExpiresAt.Time, time.Minute)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, err := token.New("secret-a")
	require.NoError(t, err)
	verifier, err := token.New("secret-b")
	require.NoError(t, err)

	signed, err := issuer.Issue(token.Claims{
		UserID: "user-1",
		Role:   domain.RoleTAS,
		Status: domain.StatusVerified,
	})
	require.NoError(t, err)

	assert.Nil(t, verifier.Verify(signed))
}

func TestVerifyTamperedToken(t *testing.T) {
	codec, err := token.New("test-secret")
	require.NoError(t, err)

	signed, err := codec.Issue(token.Claims{
		UserID: "user-1",
		Role:   domain.RoleTAS,
		Status: domain.StatusVerified,
	})
	require.NoError(t, err)

	// Flip one byte in the middle of the signed token.
	b := []byte(signed)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}
	assert.Nil(t, codec.Verify(string(b)))
}

func TestVerifyGarbage(t *testing.T) {
	codec, err := token.New("test-secret")
	require.NoError(t, err)

	assert.Nil(t, codec.Verify(""))
	assert.Nil(t, codec.Verify("not-a-token"))
	assert.Nil(t, codec.Verify("a.b.c"))
}

func TestVerifyExpired(t *testing.T) {
	codec, err := token.New("test-secret")
	require.NoError(t, err)

	// Sign an already-expired token with the same secret and method.
	claims := token.Claims{
		UserID: "user-1",
		Role:   domain.RoleTAS,
		Status: domain.StatusVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.Nil(t, codec.Verify(signed))
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	type looseClaims struct {
		UserID string `json:"uid"`
		Role   string `json:"role"`
		Status string `json:"status"`
		jwt.RegisteredClaims
	}
	claims := looseClaims{
		UserID: "user-1",
		Role:   "SUPER_DUPER_ADMIN",
		Status: "VERIFIED",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	codec, err := token.New("test-secret")
	require.NoError(t, err)
	assert.Nil(t, codec.Verify(signed))
}
