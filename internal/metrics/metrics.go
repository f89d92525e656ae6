// Package metrics exposes Prometheus instrumentation for the capture,
// segmentation, and decode pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the pipeline records to.
type Metrics struct {
	// Capture and framing
	ChunksProcessed prometheus.Counter
	CaptureDrops    prometheus.Counter

	// VAD
	VADChunksProcessed prometheus.Counter
	VADVoiceDetected   prometheus.Counter
	VADErrors          prometheus.Counter

	// Segmentation
	SegmentsStarted   prometheus.Counter
	SegmentsFinalized prometheus.Counter
	SegmentsDiscarded prometheus.Counter
	ForcedCutoffs     prometheus.Counter
	InterimsEmitted   prometheus.Counter
	InterimsDeduped   prometheus.Counter
	SegmentDuration   prometheus.Histogram

	// Decode
	DecodeQueueDepth prometheus.Gauge
	DecodeQueueDrops prometheus.Counter
	DecodeSuccesses  prometheus.Counter
	DecodeFailures   prometheus.Counter
	DecodeDuration   prometheus.Histogram

	// Server
	WSClients           prometheus.Gauge
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer in
// production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ChunksProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_chunks_processed_total",
			Help: "Total number of audio chunks fed to the segmentation engine",
		}),
		CaptureDrops: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_capture_drops_total",
			Help: "Total number of capture buffers dropped because the pipeline was behind",
		}),

		VADChunksProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_vad_chunks_processed_total",
			Help: "Total number of chunks run through voice activity detection",
		}),
		VADVoiceDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_vad_voice_detected_total",
			Help: "Total number of chunks classified as speech",
		}),
		VADErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_vad_errors_total",
			Help: "Total number of voice activity detection failures",
		}),

		SegmentsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_segments_started_total",
			Help: "Total number of utterance segments opened on speech onset",
		}),
		SegmentsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_segments_finalized_total",
			Help: "Total number of utterance segments emitted as final",
		}),
		SegmentsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_segments_discarded_total",
			Help: "Total number of segments discarded below the minimum decode window",
		}),
		ForcedCutoffs: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_forced_cutoffs_total",
			Help: "Total number of segments finalized by the maximum duration cutoff",
		}),
		InterimsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_interims_emitted_total",
			Help: "Total number of interim windows sent to the decoder",
		}),
		InterimsDeduped: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_interims_deduped_total",
			Help: "Total number of interim transcripts suppressed as duplicates",
		}),
		SegmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "captiond_segment_duration_seconds",
			Help:    "Duration of finalized utterance segments",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 7),
		}),

		DecodeQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "captiond_decode_queue_depth",
			Help: "Current number of windows waiting for the decode worker",
		}),
		DecodeQueueDrops: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_decode_queue_drops_total",
			Help: "Total number of interim windows dropped because the decode queue was full",
		}),
		DecodeSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_decode_successes_total",
			Help: "Total number of successful decode requests",
		}),
		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "captiond_decode_failures_total",
			Help: "Total number of failed decode requests",
		}),
		DecodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "captiond_decode_duration_seconds",
			Help:    "Latency of decode requests",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),

		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "captiond_websocket_clients",
			Help: "Current number of connected websocket clients",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "captiond_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "captiond_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}
