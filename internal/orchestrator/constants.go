package orchestrator

const (
	// DefaultTranscriptEntries bounds stored final transcripts.
	DefaultTranscriptEntries = 100

	// DefaultEventBuffer sizes the caption event channel.
	DefaultEventBuffer = 100

	// DefaultRecentSeconds is the transcript window returned by the API
	// when the caller does not specify one.
	DefaultRecentSeconds = 300
)
