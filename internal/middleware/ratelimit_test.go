package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_BurstThenLimit(t *testing.T) {
	rl := NewRateLimiter(60, 3) // 1/s sustained, burst of 3
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("over-burst status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("429 without Retry-After header")
	}
}

func TestRateLimiter_PerIPIsolation(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if send("10.0.0.1:1") != http.StatusOK {
		t.Fatal("first request from first IP should pass")
	}
	if send("10.0.0.1:2") != http.StatusTooManyRequests {
		t.Fatal("second request from same IP should be limited")
	}
	if send("10.0.0.2:1") != http.StatusOK {
		t.Fatal("another IP must have its own bucket")
	}
	if rl.Len() != 2 {
		t.Errorf("tracked IPs = %d, want 2", rl.Len())
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	time.Sleep(20 * time.Millisecond)
	rl.cleanup(10 * time.Millisecond)

	if rl.Len() != 0 {
		t.Errorf("tracked IPs after cleanup = %d, want 0", rl.Len())
	}
}
