package transcribe

import "time"

const (
	// DefaultTimeout bounds a single decode request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxConcurrent bounds in-flight requests to the decoder service.
	DefaultMaxConcurrent = 4

	// userAgent identifies this service to the decoder endpoint.
	userAgent = "captiond/1.0"
)
