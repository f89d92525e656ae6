package segment

import "sync"

// InterimDeduper suppresses repeated identical interim transcripts so an
// unchanged hypothesis is not re-emitted downstream. History is scoped to a
// single utterance: an offer for a new utterance ID starts fresh, so a decode
// that completes after its utterance already ended cannot leak suppression
// state into the next utterance. Offered from the decode worker while the
// engine resets it on utterance boundaries, hence the lock.
type InterimDeduper struct {
	mu        sync.Mutex
	utterance string
	last      string
}

// Offer returns the text and true only if it differs from the last text
// returned for the given utterance. The first offer for a new utterance
// discards any prior utterance's history.
func (d *InterimDeduper) Offer(utterance, text string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if utterance != d.utterance {
		d.utterance = utterance
		d.last = ""
	}
	if text == d.last {
		return "", false
	}
	d.last = text
	return text, true
}

// Reset clears the utterance scope and last-seen text. Called when an
// utterance ends and when the engine is resumed after a pause.
func (d *InterimDeduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.utterance = ""
	d.last = ""
}
