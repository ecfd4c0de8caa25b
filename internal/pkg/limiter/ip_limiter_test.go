package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestGetLimiterReusesPerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	if l.GetLimiter("1.2.3.4") != l.GetLimiter("1.2.3.4") {
		t.Fatal("same IP should share one limiter")
	}
	if l.GetLimiter("1.2.3.4") == l.GetLimiter("5.6.7.8") {
		t.Fatal("distinct IPs should get distinct limiters")
	}
}

func TestBurstThenDeny(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)
	lim := l.GetLimiter("1.2.3.4")

	if !lim.Allow() || !lim.Allow() {
		t.Fatal("burst requests should be allowed")
	}
	if lim.Allow() {
		t.Fatal("request beyond burst should be denied")
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 1)

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
}
