// Package vad defines the voice activity detection contract and provides a
// pure-Go energy detector for deployments without a model-backed VAD.
package vad

// Detector reports whether the audio stream currently contains speech.
//
// AcceptWaveform must be called before IsSpeechDetected for the same chunk.
// Reset clears internal hysteresis; the segmentation engine calls it after a
// forced cutoff so the detector does not stay primed with a stale speech
// hypothesis.
type Detector interface {
	AcceptWaveform(chunk []float32) error
	IsSpeechDetected() bool
	Reset()
}
