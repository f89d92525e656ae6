package segment

// EventKind distinguishes interim refreshes from utterance-final windows.
type EventKind int

const (
	// EventInterim carries an in-progress window; its transcript may change.
	EventInterim EventKind = iota
	// EventFinal carries the complete window for a finished utterance.
	EventFinal
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventInterim:
		return "interim"
	case EventFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Event is emitted by the engine when a window should be decoded. Window is a
// copy; the caller owns it and may hand it to another goroutine.
type Event struct {
	Kind      EventKind
	Utterance string // ID of the utterance, assigned at onset
	Window    []float32
}
