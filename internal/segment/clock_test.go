package segment

import (
	"testing"
	"time"
)

func TestRefreshClockStoppedNeverDue(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewRefreshClock(func() time.Time { return now })

	now = now.Add(time.Hour)
	if c.Due(MinRefreshInterval) {
		t.Error("stopped clock must never be due")
	}
	if c.Running() {
		t.Error("clock should not be running before Start")
	}
}

func TestRefreshClockDueAfterInterval(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewRefreshClock(func() time.Time { return now })

	c.Start()
	if c.Due(MinRefreshInterval) {
		t.Error("clock due immediately after Start")
	}

	now = now.Add(MinRefreshInterval)
	if c.Due(MinRefreshInterval) {
		t.Error("clock due at exactly the interval; gate is strictly greater")
	}

	now = now.Add(time.Millisecond)
	if !c.Due(MinRefreshInterval) {
		t.Error("clock not due past the interval")
	}
}

func TestRefreshClockMarkRestartsWindow(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewRefreshClock(func() time.Time { return now })

	c.Start()
	now = now.Add(200 * time.Millisecond)
	if !c.Due(MinRefreshInterval) {
		t.Fatal("expected due before mark")
	}

	c.Mark()
	if c.Due(MinRefreshInterval) {
		t.Error("mark must restart the refresh window")
	}
	now = now.Add(101 * time.Millisecond)
	if !c.Due(MinRefreshInterval) {
		t.Error("clock not due after a full window past the mark")
	}
}

func TestRefreshClockStop(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewRefreshClock(func() time.Time { return now })

	c.Start()
	if !c.Running() {
		t.Error("clock should run after Start")
	}
	c.Stop()
	if c.Running() {
		t.Error("clock should stop after Stop")
	}
	now = now.Add(time.Hour)
	if c.Due(MinRefreshInterval) {
		t.Error("stopped clock became due")
	}
}
