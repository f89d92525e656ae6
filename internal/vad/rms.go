package vad

import "math"

// RMSConfig tunes the energy detector thresholds and hysteresis.
type RMSConfig struct {
	SpeechThreshold  float64 // RMS level to start speech
	SilenceThreshold float64 // RMS level to end speech
	SpeechChunks     int     // consecutive speech chunks needed to trigger
	SilenceChunks    int     // consecutive silence chunks needed to end
}

// DefaultRMSConfig returns thresholds suitable for 16kHz 32ms chunks.
func DefaultRMSConfig() RMSConfig {
	return RMSConfig{
		SpeechThreshold:  0.015,
		SilenceThreshold: 0.008,
		SpeechChunks:     2,  // ~64ms to start
		SilenceChunks:    20, // ~640ms to end
	}
}

// RMSDetector is a voice activity detector based on RMS energy levels.
// Uses hysteresis to avoid flickering between speech and silence states.
// It never fails; the error return exists to satisfy the Detector contract
// shared with model-backed detectors.
type RMSDetector struct {
	cfg          RMSConfig
	inSpeech     bool
	speechCount  int
	silenceCount int
}

// NewRMSDetector creates an energy detector with the given config.
func NewRMSDetector(cfg RMSConfig) *RMSDetector {
	if cfg.SpeechThreshold <= 0 {
		cfg.SpeechThreshold = DefaultRMSConfig().SpeechThreshold
	}
	if cfg.SilenceThreshold <= 0 {
		cfg.SilenceThreshold = DefaultRMSConfig().SilenceThreshold
	}
	if cfg.SpeechChunks <= 0 {
		cfg.SpeechChunks = DefaultRMSConfig().SpeechChunks
	}
	if cfg.SilenceChunks <= 0 {
		cfg.SilenceChunks = DefaultRMSConfig().SilenceChunks
	}
	return &RMSDetector{cfg: cfg}
}

// AcceptWaveform updates the speech state from one chunk of samples.
func (d *RMSDetector) AcceptWaveform(chunk []float32) error {
	level := rms(chunk)

	if d.inSpeech {
		if level < d.cfg.SilenceThreshold {
			d.silenceCount++
			d.speechCount = 0
			if d.silenceCount >= d.cfg.SilenceChunks {
				d.inSpeech = false
				d.silenceCount = 0
			}
		} else {
			d.silenceCount = 0
		}
	} else {
		if level >= d.cfg.SpeechThreshold {
			d.speechCount++
			d.silenceCount = 0
			if d.speechCount >= d.cfg.SpeechChunks {
				d.inSpeech = true
				d.speechCount = 0
			}
		} else {
			d.speechCount = 0
		}
	}

	return nil
}

// IsSpeechDetected reports the state after the last AcceptWaveform call.
func (d *RMSDetector) IsSpeechDetected() bool { return d.inSpeech }

// Reset clears internal hysteresis state.
func (d *RMSDetector) Reset() {
	d.inSpeech = false
	d.speechCount = 0
	d.silenceCount = 0
}

func rms(chunk []float32) float64 {
	if len(chunk) == 0 {
		return 0
	}
	var sum float64
	for _, s := range chunk {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(chunk)))
}
