// Package decode runs speech-to-text requests off the audio path.
//
// The segmentation engine hands windows to a bounded queue and a single
// worker goroutine owns the decoder. Interim windows are droppable when the
// queue is full; final windows are never dropped. Queue order is preserved,
// so an interim for an utterance can never arrive after its final.
package decode

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openlisten/captiond/internal/metrics"
	"github.com/openlisten/captiond/internal/segment"
	"github.com/openlisten/captiond/internal/trace"
)

// Decoder converts an audio window into text.
type Decoder interface {
	Decode(ctx context.Context, samples []float32, sampleRate int) (string, error)
}

// Job is one window awaiting decode.
type Job struct {
	Kind        segment.EventKind
	UtteranceID string
	Window      []float32
}

// Result is a decoded transcript ready for delivery.
type Result struct {
	Kind        segment.EventKind
	UtteranceID string
	Text        string
}

// Worker owns the decoder goroutine and the bounded job queue.
type Worker struct {
	decoder Decoder
	dedup   *segment.InterimDeduper
	mets    *metrics.Metrics
	timeout time.Duration

	jobs    chan Job
	results chan Result

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewWorker builds a worker with a queue of queueSize pending jobs. The
// deduper is shared with the segmentation engine so pause and finalize can
// reset interim history.
func NewWorker(decoder Decoder, dedup *segment.InterimDeduper, mets *metrics.Metrics, queueSize int, timeout time.Duration) *Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultDecodeTimeout
	}
	return &Worker{
		decoder: decoder,
		dedup:   dedup,
		mets:    mets,
		timeout: timeout,
		jobs:    make(chan Job, queueSize),
		results: make(chan Result, queueSize),
	}
}

// Start launches the decode goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Results delivers decoded transcripts in submission order. The channel is
// closed after Stop once all queued jobs drain.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Submit queues an interim window without blocking. Returns false when the
// queue is full and the window was dropped.
func (w *Worker) Submit(job Job) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return false
	}
	select {
	case w.jobs <- job:
		w.mets.DecodeQueueDepth.Set(float64(len(w.jobs)))
		return true
	default:
		w.mets.DecodeQueueDrops.Inc()
		slog.Warn("decode queue full, dropping interim window",
			"utterance_id", job.UtteranceID, "queue_size", cap(w.jobs))
		return false
	}
}

// SubmitFinal queues a final window, blocking until space frees or ctx is
// done. Finals carry the complete utterance and must not be lost.
func (w *Worker) SubmitFinal(ctx context.Context, job Job) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return context.Canceled
	}
	select {
	case w.jobs <- job:
		w.mets.DecodeQueueDepth.Set(float64(len(w.jobs)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queue, waits for in-flight decodes, and closes Results.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.jobs)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.results)
}

func (w *Worker) run() {
	defer w.wg.Done()
	for job := range w.jobs {
		w.mets.DecodeQueueDepth.Set(float64(len(w.jobs)))
		w.process(job)
	}
}

func (w *Worker) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	ctx, span := trace.StartSpan(ctx, "decode_window")
	defer span.End()
	span.SetAttr("kind", job.Kind.String())
	span.SetAttr("utterance_id", job.UtteranceID)

	log := trace.Logger(ctx)
	start := time.Now()
	text, err := w.decoder.Decode(ctx, job.Window, segment.SampleRate)
	w.mets.DecodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		w.mets.DecodeFailures.Inc()
		span.SetAttr("error", err.Error())
		log.Warn("decode failed", "kind", job.Kind, "utterance_id", job.UtteranceID, "error", err)
		return
	}
	w.mets.DecodeSuccesses.Inc()

	if job.Kind == segment.EventInterim {
		deduped, changed := w.dedup.Offer(job.UtteranceID, text)
		if !changed {
			w.mets.InterimsDeduped.Inc()
			return
		}
		text = deduped
	}

	w.results <- Result{Kind: job.Kind, UtteranceID: job.UtteranceID, Text: text}
}
