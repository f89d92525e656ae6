package segment

// SegmentBuffer accumulates the samples of the utterance currently being
// recorded. Empty while idle; seeded from the lookback snapshot at onset;
// cleared on every utterance end and on pause. Engine-owned.
type SegmentBuffer struct {
	samples []float32
}

// NewSegmentBuffer creates a buffer with room for a typical utterance.
func NewSegmentBuffer() *SegmentBuffer {
	return &SegmentBuffer{samples: make([]float32, 0, LookbackSamples+SampleRate)}
}

// Seed replaces the contents with the given pre-speech context.
func (b *SegmentBuffer) Seed(context []float32) {
	b.samples = append(b.samples[:0], context...)
}

// Append adds one chunk of samples.
func (b *SegmentBuffer) Append(chunk []float32) {
	b.samples = append(b.samples, chunk...)
}

// Len returns the number of buffered samples.
func (b *SegmentBuffer) Len() int { return len(b.samples) }

// Window returns a copy of the buffered samples for handoff to the decoder.
func (b *SegmentBuffer) Window() []float32 {
	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Reset empties the buffer, keeping capacity for the next utterance.
func (b *SegmentBuffer) Reset() {
	b.samples = b.samples[:0]
}
