package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 2)

	if !limiter.Allow("https://example.com/a") {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow("https://example.com/b") {
		t.Error("second request within burst should be allowed")
	}
	if limiter.Allow("https://example.com/c") {
		t.Error("third request should exceed the burst")
	}
}

func TestLimiterIsPerDomain(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://one.example/page") {
		t.Error("first domain should be allowed")
	}
	if !limiter.Allow("https://two.example/page") {
		t.Error("a different domain has its own budget")
	}
	if limiter.Allow("https://one.example/again") {
		t.Error("first domain should be throttled")
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)

	// Drain the burst.
	if !limiter.Allow("https://slow.example") {
		t.Fatal("burst should be available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "https://slow.example"); err == nil {
		t.Error("expected Wait to fail when the context expires first")
	}
}

func TestLimiterBadURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	if limiter.Allow("://not a url") {
		t.Error("unparseable URLs should not be allowed")
	}
}
