package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	if l := NewLimiter(10, 5); l.burst != 5 {
		t.Errorf("expected burst 5, got %d", l.burst)
	}
	if l := NewLimiter(10, -1); l.burst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.burst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://api.snopes.com/fact-check?q=x"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "not a url"); err == nil {
		t.Error("expected error for url without host")
	}
}

func TestLimiter_PerHostBudget(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "http://example.com/a"

	if !limiter.Allow(url) {
		t.Fatal("first request should pass")
	}
	if limiter.Allow("http://EXAMPLE.com/b") {
		t.Error("second request to the same host should be throttled")
	}
	if !limiter.Allow("http://other.com") {
		t.Error("other host should have its own budget")
	}
}

func TestLimiter_DisabledWhenRateNotPositive(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("http://example.com") {
			t.Fatalf("request %d throttled with rate limiting disabled", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("slow.com", 0.1, 1)

	if !limiter.Allow("http://slow.com") {
		t.Error("first request should pass")
	}
	if limiter.Allow("http://slow.com") {
		t.Error("second request should be throttled")
	}
	if !limiter.Allow("http://fast.com") {
		t.Error("other host should pass")
	}
}
