package decode

import "time"

const (
	// DefaultQueueSize bounds pending windows. At one interim per refresh
	// interval this covers several seconds of backlog.
	DefaultQueueSize = 16

	// DefaultDecodeTimeout bounds a single decode request.
	DefaultDecodeTimeout = 30 * time.Second
)
