package resilience

import (
	"errors"
	"testing"
	"time"
)

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Threshold:         3,
		ResetTimeout:      10 * time.Millisecond,
		HalfOpenSuccesses: 2,
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := NewBreaker(testBreakerConfig())

	for i := 0; i < 2; i++ {
		b.Failure()
		if b.State() != Closed {
			t.Fatalf("opened after %d failures, threshold is 3", i+1)
		}
	}
	b.Failure()
	if b.State() != Open {
		t.Errorf("state = %v, want open at threshold", b.State())
	}
	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Errorf("Allow = %v, want ErrOpen", err)
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(testBreakerConfig())

	b.Failure()
	b.Failure()
	b.Success()
	b.Failure()
	b.Failure()
	if b.State() != Closed {
		t.Error("success in closed state must reset the failure count")
	}
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	b := NewBreaker(testBreakerConfig())

	for i := 0; i < 3; i++ {
		b.Failure()
	}
	time.Sleep(15 * time.Millisecond)

	if err := b.Allow(); err != nil {
		t.Fatalf("Allow after reset timeout = %v, want nil (half-open probe)", err)
	}
	if b.State() != HalfOpen {
		t.Fatalf("state = %v, want half-open", b.State())
	}

	b.Success()
	if b.State() != HalfOpen {
		t.Error("one success should not close yet")
	}
	b.Success()
	if b.State() != Closed {
		t.Error("enough half-open successes must close the breaker")
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(testBreakerConfig())

	for i := 0; i < 3; i++ {
		b.Failure()
	}
	time.Sleep(15 * time.Millisecond)
	_ = b.Allow()

	b.Failure()
	if b.State() != Open {
		t.Errorf("state = %v, want open after half-open failure", b.State())
	}
}

func TestBreakerExecute(t *testing.T) {
	b := NewBreaker(testBreakerConfig())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("Execute = %v, want boom", err)
		}
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrOpen) {
		t.Errorf("Execute while open = %v, want ErrOpen", err)
	}
}

func TestBreakerHook(t *testing.T) {
	var transitions []State
	b := NewBreaker(testBreakerConfig()).WithHook(func(_, to State) {
		transitions = append(transitions, to)
	})

	for i := 0; i < 3; i++ {
		b.Failure()
	}
	b.Reset()

	if len(transitions) != 2 || transitions[0] != Open || transitions[1] != Closed {
		t.Errorf("transitions = %v, want [open closed]", transitions)
	}
}
