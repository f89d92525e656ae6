package segment

import "iter"

// Frames splits an arbitrary-length sample buffer into consecutive chunks of
// exactly ChunkSize samples. The final chunk, if short, is right-padded with
// zeros. An empty input yields no chunks.
//
// Full chunks alias the input slice to stay allocation-free on the capture
// path; only a padded tail is copied. Downstream buffers copy on push, so the
// aliasing never outlives the call.
func Frames(samples []float32) iter.Seq[[]float32] {
	return func(yield func([]float32) bool) {
		for start := 0; start < len(samples); start += ChunkSize {
			end := start + ChunkSize
			if end <= len(samples) {
				if !yield(samples[start:end]) {
					return
				}
				continue
			}
			padded := make([]float32, ChunkSize)
			copy(padded, samples[start:])
			if !yield(padded) {
				return
			}
		}
	}
}
