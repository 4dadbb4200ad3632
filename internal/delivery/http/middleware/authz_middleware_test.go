package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinksaga/recruitkart-sub003/internal/authz"
	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/middleware"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/session"
	"github.com/thinksaga/recruitkart-sub003/pkg/token"
)

type authzFixture struct {
	router *gin.Engine
	codec  *token.Codec
	cache  *session.Cache
}

func newAuthzFixture(t *testing.T) *authzFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := token.New("test-secret")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := session.NewCache(client, 24*time.Hour)

	r := gin.New()
	r.Use(middleware.Authz(authz.NewAccessor(codec, cache), authz.NewEngine(cache), nil))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/tas", ok)
	r.GET("/tas/credits", ok)
	r.GET("/admin/audit", ok)
	r.GET("/api/company/jobs", ok)
	r.GET("/verification-pending", ok)

	return &authzFixture{router: r, codec: codec, cache: cache}
}

func (f *authzFixture) request(t *testing.T, path, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *authzFixture) issue(t *testing.T, role domain.Role, status domain.VerificationStatus) string {
	t.Helper()
	signed, err := f.codec.Issue(token.Claims{UserID: "user-1", Role: role, Status: status})
	require.NoError(t, err)
	return signed
}

func TestAuthzAnonymousRedirectsToLogin(t *testing.T) {
	f := newAuthzFixture(t)

	w := f.request(t, "/admin/audit", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = f.request(t, "/tas", "tampered-cookie")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAuthzPublicPathAllowsAnonymous(t *testing.T) {
	f := newAuthzFixture(t)

	w := f.request(t, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthzWrongRolePageRedirectsHome(t *testing.T) {
	f := newAuthzFixture(t)
	cookie := f.issue(t, domain.RoleCompanyAdmin, domain.StatusVerified)

	w := f.request(t, "/tas/credits", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/company", w.Header().Get("Location"))
}

func TestAuthzWrongRoleAPIReturns403JSON(t *testing.T) {
	f := newAuthzFixture(t)
	cookie := f.issue(t, domain.RoleTAS, domain.StatusVerified)

	w := f.request(t, "/api/company/jobs", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, w.Body.String())
}

func TestAuthzPendingConfinedToHoldingPage(t *testing.T) {
	f := newAuthzFixture(t)
	cookie := f.issue(t, domain.RoleTAS, domain.StatusPending)

	w := f.request(t, "/tas", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/verification-pending", w.Header().Get("Location"))

	w = f.request(t, "/verification-pending", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthzVerifiedBouncedOffHoldingPage(t *testing.T) {
	f := newAuthzFixture(t)
	cookie := f.issue(t, domain.RoleTAS, domain.StatusVerified)

	w := f.request(t, "/verification-pending", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/tas", w.Header().Get("Location"))
}

func TestAuthzAllowedRolePasses(t *testing.T) {
	f := newAuthzFixture(t)
	cookie := f.issue(t, domain.RoleTAS, domain.StatusVerified)

	w := f.request(t, "/tas/credits", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthzLogoutRevokesSession(t *testing.T) {
	f := newAuthzFixture(t)
	cookie := f.issue(t, domain.RoleTAS, domain.StatusVerified)

	w := f.request(t, "/tas", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, f.cache.Revoke(t.Context(), "user-1", time.Now().Add(time.Second)))

	w = f.request(t, "/tas", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
