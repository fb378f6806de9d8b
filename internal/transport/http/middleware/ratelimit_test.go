package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/redis"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/response"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newLimiterForTest(t *testing.T) *redis.FixedWindowLimiter {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c := redis.New(s.Addr(), "", 0)
	t.Cleanup(func() { c.Close() })

	return redis.NewFixedWindowLimiter(c)
}

func TestRateLimit_NilLimiter_PassesThrough(t *testing.T) {
	t.Parallel()

	h := RateLimitFixedWindow(nil, FixedWindowConfig{RouteKey: "login", Limit: 1}, response.WriteError)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	t.Parallel()

	limiter := newLimiterForTest(t)
	h := RateLimitFixedWindow(limiter, FixedWindowConfig{
		RouteKey: "login",
		Limit:    2,
		Window:   time.Minute,
	}, response.WriteError)(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "1.2.3.4:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusOK, send().Code)
	require.Equal(t, http.StatusOK, send().Code)

	rr := send()
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestRateLimit_SeparateIdentities(t *testing.T) {
	t.Parallel()

	limiter := newLimiterForTest(t)
	h := RateLimitFixedWindow(limiter, FixedWindowConfig{
		RouteKey: "login",
		Limit:    1,
		Window:   time.Minute,
	}, response.WriteError)(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, send("1.2.3.4:1"))
	require.Equal(t, http.StatusTooManyRequests, send("1.2.3.4:2"))
	require.Equal(t, http.StatusOK, send("5.6.7.8:1"), "other client has its own window")
}

func TestClientIP_XForwardedFor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Fatalf("expected first XFF hop, got %q", ip)
	}

	req.Header.Del("X-Forwarded-For")
	if ip := clientIP(req); ip != "10.0.0.1" {
		t.Fatalf("expected remote addr host, got %q", ip)
	}
}
