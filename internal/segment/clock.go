package segment

import "time"

// RefreshClock tracks the wall-time anchor that gates interim emission: set
// at recording start, moved forward on every interim emission, cleared when
// the utterance ends. The refresh window restarts from each emission rather
// than running on a fixed cadence.
type RefreshClock struct {
	now    func() time.Time
	anchor time.Time
}

// NewRefreshClock creates a stopped clock reading time through now.
func NewRefreshClock(now func() time.Time) *RefreshClock {
	return &RefreshClock{now: now}
}

// Start anchors the clock at the current time (recording onset).
func (c *RefreshClock) Start() { c.anchor = c.now() }

// Mark re-anchors at the current time (interim emission).
func (c *RefreshClock) Mark() { c.anchor = c.now() }

// Due reports whether more than min wall time has elapsed since the anchor.
// A stopped clock is never due.
func (c *RefreshClock) Due(min time.Duration) bool {
	if c.anchor.IsZero() {
		return false
	}
	return c.now().Sub(c.anchor) > min
}

// Stop clears the anchor (utterance end or pause).
func (c *RefreshClock) Stop() { c.anchor = time.Time{} }

// Running reports whether the clock is anchored.
func (c *RefreshClock) Running() bool { return !c.anchor.IsZero() }
