package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, maxAttempts int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return NewLimiter(client, 10*time.Minute, maxAttempts, 15*time.Minute, nil), mr
}

func TestLimiter_AllowsUntilBudgetSpent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := limiter.Check(ctx, "owner@example.com", "10.0.0.1")
		if err != nil {
			t.Fatalf("Check() failed: %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("attempt %d: Check() blocked, want allowed", i+1)
		}
		if decision.Remaining != 3-i {
			t.Errorf("attempt %d: Remaining = %d, want %d", i+1, decision.Remaining, 3-i)
		}
		if err := limiter.RecordFailure(ctx, "owner@example.com", "10.0.0.1"); err != nil {
			t.Fatalf("RecordFailure() failed: %v", err)
		}
	}

	decision, err := limiter.Check(ctx, "owner@example.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("Check() allowed after budget spent")
	}
	if decision.LockoutRemaining != 15*time.Minute {
		t.Errorf("LockoutRemaining = %v, want 15m", decision.LockoutRemaining)
	}

	// Other clients are unaffected
	decision, err = limiter.Check(ctx, "owner@example.com", "10.0.0.2")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if !decision.Allowed {
		t.Error("Check() blocked a different IP")
	}
}

func TestLimiter_LockoutExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := limiter.RecordFailure(ctx, "owner@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("RecordFailure() failed: %v", err)
	}
	if decision, _ := limiter.Check(ctx, "owner@example.com", "10.0.0.1"); decision.Allowed {
		t.Fatal("Check() should start a lockout")
	}

	mr.FastForward(16 * time.Minute)

	decision, err := limiter.Check(ctx, "owner@example.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if !decision.Allowed {
		t.Error("Check() still blocked after lockout expired")
	}
}

func TestLimiter_WindowExpiresCounter(t *testing.T) {
	limiter, mr := newTestLimiter(t, 5)
	ctx := context.Background()

	_ = limiter.RecordFailure(ctx, "owner@example.com", "10.0.0.1")
	_ = limiter.RecordFailure(ctx, "owner@example.com", "10.0.0.1")

	count, err := limiter.Attempts(ctx, "owner@example.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("Attempts() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Attempts() = %d, want 2", count)
	}

	mr.FastForward(11 * time.Minute)

	count, err = limiter.Attempts(ctx, "owner@example.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("Attempts() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Attempts() after window = %d, want 0", count)
	}
}

func TestLimiter_RecordSuccessClearsCounter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 5)
	ctx := context.Background()

	_ = limiter.RecordFailure(ctx, "owner@example.com", "10.0.0.1")
	if err := limiter.RecordSuccess(ctx, "owner@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("RecordSuccess() failed: %v", err)
	}

	count, _ := limiter.Attempts(ctx, "owner@example.com", "10.0.0.1")
	if count != 0 {
		t.Errorf("Attempts() = %d, want 0", count)
	}
}

func TestLimiter_ClearLockout(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	_ = limiter.RecordFailure(ctx, "owner@example.com", "10.0.0.1")
	_, _ = limiter.Check(ctx, "owner@example.com", "10.0.0.1")

	if err := limiter.ClearLockout(ctx, "owner@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("ClearLockout() failed: %v", err)
	}

	decision, err := limiter.Check(ctx, "owner@example.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if !decision.Allowed {
		t.Error("Check() blocked after ClearLockout")
	}
}
