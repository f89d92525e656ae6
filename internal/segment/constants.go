// Package segment converts a chunked audio stream plus a voice-activity
// signal into utterance boundaries and interim refresh events.
package segment

import "time"

// Stream geometry and segmentation thresholds. Fixed by the capture contract
// (16kHz mono float32), not runtime-negotiated.
const (
	// SampleRate is the fixed capture rate in Hz.
	SampleRate = 16000

	// ChunkSize is the fundamental unit of VAD evaluation and buffer growth
	// (~32ms at 16kHz).
	ChunkSize = 512

	// LookbackChunks bounds the pre-speech context ring (~1.28s).
	LookbackChunks  = 40
	LookbackSamples = LookbackChunks * ChunkSize

	// MaxSpeechSecs forces a cutoff for pathologically long utterances,
	// bounding worst-case decoder latency and buffer growth.
	MaxSpeechSecs = 15.0

	// MinRefreshInterval gates interim emission by wall time since recording
	// start or the previous interim.
	MinRefreshInterval = 100 * time.Millisecond

	// MinWindowSamples is the floor (1s of audio) below which a window is not
	// worth decoding; shorter finalized segments are discarded as noise.
	MinWindowSamples = 16000

	// PauseCarrySamples is the lookback overlap (~62.5ms) kept across a pause
	// so a quick resume does not lose all pre-roll context.
	PauseCarrySamples = 1000
)
