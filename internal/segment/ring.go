package segment

// LookbackRing is a bounded circular buffer of the most recent raw samples,
// used to seed pre-speech context when an utterance starts. When full, the
// oldest samples are overwritten; the audio path must never block on it.
//
// The ring is owned and synchronized by the engine; it carries no lock of
// its own.
type LookbackRing struct {
	buf  []float32
	head int // index of next write position
	n    int // number of valid samples
}

// NewLookbackRing creates a ring bounded to capacity samples.
func NewLookbackRing(capacity int) *LookbackRing {
	return &LookbackRing{buf: make([]float32, capacity)}
}

// Push appends chunk samples, dropping the oldest when the bound is exceeded.
func (r *LookbackRing) Push(chunk []float32) {
	if len(chunk) >= len(r.buf) {
		// Chunk alone fills the ring; only its tail survives.
		copy(r.buf, chunk[len(chunk)-len(r.buf):])
		r.head = 0
		r.n = len(r.buf)
		return
	}
	for _, s := range chunk {
		r.buf[r.head] = s
		r.head = (r.head + 1) % len(r.buf)
		if r.n < len(r.buf) {
			r.n++
		}
	}
}

// Snapshot returns a copy of the current contents, oldest first. The ring is
// not mutated; recording onset reads lookback exclusively through this.
func (r *LookbackRing) Snapshot() []float32 {
	if r.n == 0 {
		return nil
	}
	out := make([]float32, r.n)
	start := (r.head - r.n + len(r.buf)) % len(r.buf)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// TruncateTo keeps only the newest n samples. Used on pause to retain a small
// pre-roll overlap instead of clearing outright.
func (r *LookbackRing) TruncateTo(n int) {
	if n < 0 {
		n = 0
	}
	if n < r.n {
		r.n = n
	}
}

// Clear empties the ring.
func (r *LookbackRing) Clear() {
	r.head = 0
	r.n = 0
}

// Len returns the number of samples currently held.
func (r *LookbackRing) Len() int { return r.n }
