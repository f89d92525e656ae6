package segment

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperr "github.com/openlisten/captiond/internal/errors"
	"github.com/openlisten/captiond/internal/vad"
)

// State is the recording state of the engine.
type State int

const (
	StateIdle State = iota
	StateRecording
)

// String returns a readable state name.
func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Engine is the segmentation state machine. It consumes fixed-size chunks in
// stream order, drives the lookback ring and segment buffer, and emits
// interim/final window events.
//
// Engine exclusively owns the ring, the segment buffer, and the recording
// state. ProcessChunk is driven by the audio-delivery goroutine; Pause and
// Resume may be called from any goroutine and serialize against it.
type Engine struct {
	det   vad.Detector
	dedup *InterimDeduper
	now   func() time.Time

	mu        sync.Mutex
	state     State
	paused    bool
	ring      *LookbackRing
	seg       *SegmentBuffer
	refresh   *RefreshClock
	utterance string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an idle engine driving the given detector.
func NewEngine(det vad.Detector, opts ...Option) *Engine {
	e := &Engine{
		det:   det,
		dedup: &InterimDeduper{},
		now:   time.Now,
		ring:  NewLookbackRing(LookbackSamples),
		seg:   NewSegmentBuffer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.refresh = NewRefreshClock(func() time.Time { return e.now() })
	return e
}

// Deduper returns the interim deduper shared with the decode pipeline.
func (e *Engine) Deduper() *InterimDeduper { return e.dedup }

// State returns the current recording state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ProcessChunk runs the per-chunk segmentation algorithm on one chunk of
// exactly ChunkSize samples. The returned events, if any, carry window copies
// in emission order. The only error source is the detector; segmentation
// state is left intact when it fails. Between Pause and Resume chunks are
// refused outright, so a chunk racing a pause cannot reopen a segment.
func (e *Engine) ProcessChunk(chunk []float32) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil, nil
	}

	if err := e.det.AcceptWaveform(chunk); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeVADFailed, "vad rejected waveform")
	}
	speaking := e.det.IsSpeechDetected()

	wasRecording := e.state == StateRecording

	// Onset: seed the segment from lookback so word starts are not clipped.
	if !wasRecording && speaking {
		e.state = StateRecording
		e.utterance = uuid.NewString()
		e.seg.Seed(e.ring.Snapshot())
		e.refresh.Start()
		slog.Debug("utterance onset", "utterance", e.utterance, "lookback_samples", e.seg.Len())
	}

	if e.state == StateRecording {
		e.seg.Append(chunk)

		// Forced cutoff wins over natural offset for the same chunk, and is
		// the one path that must nudge the VAD back to idle.
		if float64(e.seg.Len())/SampleRate > MaxSpeechSecs {
			events := e.finalizeLocked(nil, "cutoff")
			e.det.Reset()
			return events, nil
		}

		var events []Event
		if e.refresh.Due(MinRefreshInterval) && e.seg.Len() >= MinWindowSamples {
			events = append(events, Event{
				Kind:      EventInterim,
				Utterance: e.utterance,
				Window:    e.seg.Window(),
			})
			e.refresh.Mark()
		}

		// Natural offset: only from a state that was recording before this
		// chunk. The VAD already reflects idle here, so no reset.
		if wasRecording && !speaking {
			events = e.finalizeLocked(events, "offset")
		}
		return events, nil
	}

	// Idle with no transition: accumulate lookback, no decode activity.
	e.ring.Push(chunk)
	return nil, nil
}

// finalizeLocked ends the current utterance, emitting a final window when the
// segment clears the decode floor and discarding it as noise otherwise.
func (e *Engine) finalizeLocked(events []Event, reason string) []Event {
	if e.seg.Len() >= MinWindowSamples {
		events = append(events, Event{
			Kind:      EventFinal,
			Utterance: e.utterance,
			Window:    e.seg.Window(),
		})
	} else {
		slog.Debug("discarding sub-floor segment", "utterance", e.utterance, "samples", e.seg.Len())
	}
	slog.Debug("utterance end", "utterance", e.utterance, "reason", reason, "samples", e.seg.Len())

	e.seg.Reset()
	e.refresh.Stop()
	e.dedup.Reset()
	e.state = StateIdle
	e.utterance = ""
	return events
}

// Pause forces the engine to idle, discarding the in-progress segment without
// decoding it, and truncates the lookback ring to a small overlap window.
// The engine stays closed to chunk intake until Resume. Safe to call at any
// time; no decode obligation remains for the discarded segment.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRecording {
		slog.Debug("pause discarding segment", "utterance", e.utterance, "samples", e.seg.Len())
	}
	e.state = StateIdle
	e.paused = true
	e.utterance = ""
	e.seg.Reset()
	e.refresh.Stop()
	e.ring.TruncateTo(PauseCarrySamples)
}

// Resume reopens chunk intake and clears the interim deduper; onset is
// re-detected naturally on the next speaking chunk.
func (e *Engine) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
	e.dedup.Reset()
}
