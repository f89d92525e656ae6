package syncx

import (
	"sync"
	"testing"
)

func TestGuardGetSet(t *testing.T) {
	g := NewGuard(42)
	if got := g.Get(); got != 42 {
		t.Fatalf("Get() = %d, want 42", got)
	}
	g.Set(7)
	if got := g.Get(); got != 7 {
		t.Fatalf("after Set, Get() = %d, want 7", got)
	}
}

func TestGuardConcurrent(t *testing.T) {
	g := NewGuard(0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			g.Set(n)
			_ = g.Get()
		}(i)
	}
	wg.Wait()
	if got := g.Get(); got < 0 || got > 99 {
		t.Fatalf("Get() = %d, want a value written by some goroutine", got)
	}
}
