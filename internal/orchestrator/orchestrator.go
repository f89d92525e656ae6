// Package orchestrator wires capture, segmentation, decode, and transcript
// storage into the live caption pipeline.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/openlisten/captiond/internal/decode"
	apperr "github.com/openlisten/captiond/internal/errors"
	"github.com/openlisten/captiond/internal/metrics"
	"github.com/openlisten/captiond/internal/orchestrator/transcript"
	"github.com/openlisten/captiond/internal/segment"
	"github.com/openlisten/captiond/internal/syncx"
)

// Source produces captured audio buffers. Buffer lengths must be multiples
// of the segmentation chunk size.
type Source interface {
	Start(ctx context.Context) error
	Output() <-chan []float32
	Stop()
}

// Orchestrator runs the pipeline: audio buffers are framed into chunks, fed
// to the segmentation engine, and emitted windows go to the decode worker.
// Decoded transcripts land in the store and fan out to subscribers.
type Orchestrator struct {
	engine *segment.Engine
	worker *decode.Worker
	store  *transcript.MemoryStore
	source Source
	mets   *metrics.Metrics

	latest *syncx.RWGuard[string]
	paused *syncx.RWGuard[bool]

	errCh  chan error
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New assembles the pipeline around an already-constructed engine and worker.
func New(engine *segment.Engine, worker *decode.Worker, store *transcript.MemoryStore, source Source, mets *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		engine: engine,
		worker: worker,
		store:  store,
		source: source,
		mets:   mets,
		latest: syncx.NewGuard(""),
		paused: syncx.NewGuard(false),
		errCh:  make(chan error, 1),
		stopCh: make(chan struct{}),
	}
}

// Start launches capture and the pipeline goroutines.
func (o *Orchestrator) Start(ctx context.Context) error {
	if err := o.source.Start(ctx); err != nil {
		return err
	}
	o.worker.Start()

	o.wg.Add(2)
	go o.audioLoop(ctx)
	go o.resultLoop()
	return nil
}

// Stop tears the pipeline down in order: capture first so no new buffers
// arrive, then the decode worker drains.
func (o *Orchestrator) Stop() {
	o.source.Stop()
	close(o.stopCh)
	o.wg.Wait()
}

// Errors reports fatal pipeline failures. A voice activity detector that
// rejects waveforms cannot segment safely, so its errors surface here.
func (o *Orchestrator) Errors() <-chan error {
	return o.errCh
}

// Pause discards the active segment and stops feeding audio. A bounded tail
// of lookback survives so speech right after Resume keeps some context.
func (o *Orchestrator) Pause() {
	o.paused.Set(true)
	o.engine.Pause()
	slog.Info("pipeline paused")
}

// Resume re-enables audio processing.
func (o *Orchestrator) Resume() {
	o.engine.Resume()
	o.paused.Set(false)
	slog.Info("pipeline resumed")
}

// Paused reports whether audio is currently ignored.
func (o *Orchestrator) Paused() bool {
	return o.paused.Get()
}

// LatestCaption returns the most recent decoded text, interim or final.
func (o *Orchestrator) LatestCaption() string {
	return o.latest.Get()
}

// GetRecentTranscript returns finals from the last N seconds plus the live
// interim line.
func (o *Orchestrator) GetRecentTranscript(seconds int) string {
	if seconds <= 0 {
		seconds = DefaultRecentSeconds
	}
	return o.store.GetRecent(seconds)
}

// Events exposes caption events for the websocket layer.
func (o *Orchestrator) Events() <-chan transcript.Event {
	return o.store.Events()
}

func (o *Orchestrator) audioLoop(ctx context.Context) {
	defer o.wg.Done()
	defer o.worker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stopCh:
			return
		case buf, ok := <-o.source.Output():
			if !ok {
				return
			}
			if o.paused.Get() {
				continue
			}
			if err := o.processBuffer(ctx, buf); err != nil {
				select {
				case o.errCh <- err:
				default:
				}
				return
			}
		}
	}
}

func (o *Orchestrator) processBuffer(ctx context.Context, buf []float32) error {
	for chunk := range segment.Frames(buf) {
		if o.paused.Get() {
			return nil
		}
		prev := o.engine.State()
		events, err := o.engine.ProcessChunk(chunk)
		if err != nil {
			o.mets.VADErrors.Inc()
			return apperr.Wrap(err, apperr.CodeVADFailed, "segmentation failed")
		}

		o.mets.ChunksProcessed.Inc()
		o.mets.VADChunksProcessed.Inc()
		state := o.engine.State()
		if state == segment.StateRecording {
			o.mets.VADVoiceDetected.Inc()
		}
		if prev == segment.StateIdle && state == segment.StateRecording {
			o.mets.SegmentsStarted.Inc()
		}

		sawFinal := false
		for _, ev := range events {
			switch ev.Kind {
			case segment.EventInterim:
				o.mets.InterimsEmitted.Inc()
				o.worker.Submit(decode.Job{
					Kind:        segment.EventInterim,
					UtteranceID: ev.Utterance,
					Window:      ev.Window,
				})
			case segment.EventFinal:
				sawFinal = true
				o.recordFinal(ev)
				if err := o.worker.SubmitFinal(ctx, decode.Job{
					Kind:        segment.EventFinal,
					UtteranceID: ev.Utterance,
					Window:      ev.Window,
				}); err != nil {
					return apperr.Wrap(err, apperr.CodeCancelled, "submit final window")
				}
			}
		}
		if prev == segment.StateRecording && state == segment.StateIdle && !sawFinal {
			o.mets.SegmentsDiscarded.Inc()
		}
	}
	return nil
}

func (o *Orchestrator) recordFinal(ev segment.Event) {
	secs := float64(len(ev.Window)) / segment.SampleRate
	o.mets.SegmentsFinalized.Inc()
	o.mets.SegmentDuration.Observe(secs)
	if secs > segment.MaxSpeechSecs {
		o.mets.ForcedCutoffs.Inc()
	}
	slog.Debug("segment finalized", "utterance_id", ev.Utterance, "duration_secs", secs)
}

func (o *Orchestrator) resultLoop() {
	defer o.wg.Done()
	for res := range o.worker.Results() {
		kind := transcript.KindInterim
		if res.Kind == segment.EventFinal {
			kind = transcript.KindFinal
		}

		if res.Text == "" && kind == transcript.KindInterim {
			continue
		}
		o.latest.Set(res.Text)
		o.store.Apply(transcript.Event{
			Kind:        kind,
			UtteranceID: res.UtteranceID,
			Text:        res.Text,
		})
		if kind == transcript.KindFinal {
			slog.Info("transcribed", "utterance_id", res.UtteranceID, "text", res.Text)
		}
	}
}
