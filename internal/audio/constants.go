package audio

const (
	// FramesPerBuffer is the device read size in samples. A multiple of the
	// segmentation chunk size so captured buffers frame without padding.
	FramesPerBuffer = 2048 // 128ms at 16kHz

	// DefaultBufferDepth is the output channel capacity in buffers.
	DefaultBufferDepth = 32
)
