// Package server provides HTTP and WebSocket handlers
package server

import "time"

const (
	// Inbound websocket message rate limiting per connection
	RateLimitMessages = 10
	RateLimitWindow   = time.Second

	// MaxTranscriptSeconds caps the window a transcript query may request.
	MaxTranscriptSeconds = 3600
)
