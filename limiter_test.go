package inkwell

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewRateLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first request to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second request to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third request to be blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first request to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second request to be blocked")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Allow(ip) {
		t.Fatalf("expected request after window to be allowed")
	}
}

func TestRateLimiterIsPerIP(t *testing.T) {
	limiter := NewRateLimiter(1, 200*time.Millisecond)
	defer limiter.Stop()

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestRateLimiterSweepForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)
	defer limiter.Stop()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("203.0.113.40")
	limiter.Allow("203.0.113.41")
	if got := limiter.clients(); got != 2 {
		t.Fatalf("clients = %d, want 2", got)
	}

	now = now.Add(2 * time.Minute)
	limiter.sweep()
	if got := limiter.clients(); got != 0 {
		t.Fatalf("clients after sweep = %d, want 0", got)
	}
}

func TestRateLimiterUnlimited(t *testing.T) {
	limiter := NewRateLimiter(0, time.Minute)
	defer limiter.Stop()
	for i := 0; i < 10; i++ {
		if !limiter.Allow("203.0.113.50") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
	limiter.Stop()
}

func TestRateLimiterNonPositiveWindow(t *testing.T) {
	for _, window := range []time.Duration{0, -time.Minute} {
		limiter := NewRateLimiter(1, window)
		for i := 0; i < 3; i++ {
			if !limiter.Allow("203.0.113.60") {
				t.Fatalf("window %s: expected request %d to be allowed", window, i)
			}
		}
		limiter.Stop()
	}
}
