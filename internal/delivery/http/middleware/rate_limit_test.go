package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/middleware"
)

func rateLimitRouter(t *testing.T, cfg middleware.RateLimitConfig, client *goredis.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RateLimit(cfg, client))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func hit(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := rateLimitRouter(t, middleware.GlobalRateLimitConfig(2, time.Minute), client)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, hit(r).Code)
	}
	w := hit(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitFailClosedOnBackendError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := middleware.LoginRateLimitConfig(5, time.Minute)
	r := rateLimitRouter(t, cfg, client)

	// Poison the counter so INCR errors inside the script. Any failure
	// to get a usable count must reject, not wave the login through.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, mr.Set(cfg.KeyPrefix+"192.0.2.1", "not-a-number"))
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimitFailOpenFallsBackToMemory(t *testing.T) {
	// No Redis at all: general traffic degrades to the in-process
	// counter instead of being refused.
	cfg := middleware.GlobalRateLimitConfig(1, time.Minute)
	key := t.Name() + strconv.FormatInt(time.Now().UnixNano(), 10)
	cfg.KeyFunc = func(*gin.Context) string { return key }
	r := rateLimitRouter(t, cfg, nil)

	assert.Equal(t, http.StatusOK, hit(r).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
}
