// Package audio captures microphone input with backpressure.
package audio

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"

	apperr "github.com/openlisten/captiond/internal/errors"
	"github.com/openlisten/captiond/internal/metrics"
	"github.com/openlisten/captiond/internal/segment"
)

// Capturer reads mono float32 buffers from a single input device. Buffers
// are sent non-blocking; a slow consumer drops buffers rather than stalling
// the device callback.
type Capturer struct {
	outCh      chan []float32
	mets       *metrics.Metrics
	deviceName string
	excluded   []string

	mu      sync.Mutex
	stream  *portaudio.Stream
	cancel  context.CancelFunc
	running bool
}

// Config selects and filters input devices.
type Config struct {
	// DeviceName, when set, must match (case-insensitive substring) the
	// device to capture from. Empty picks the best available microphone.
	DeviceName string
	// ExcludedDevices are skipped during device selection.
	ExcludedDevices []string
	// BufferDepth is the output channel capacity in buffers.
	BufferDepth int
}

// NewCapturer initializes portaudio and prepares a capturer.
func NewCapturer(cfg Config, mets *metrics.Metrics) (*Capturer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeAudioCapture, "initialize portaudio")
	}
	depth := cfg.BufferDepth
	if depth <= 0 {
		depth = DefaultBufferDepth
	}
	return &Capturer{
		outCh:      make(chan []float32, depth),
		mets:       mets,
		deviceName: cfg.DeviceName,
		excluded:   cfg.ExcludedDevices,
	}, nil
}

// Output returns the channel of captured buffers. Each buffer holds
// FramesPerBuffer samples at the segmentation sample rate.
func (c *Capturer) Output() <-chan []float32 { return c.outCh }

// Start opens the selected device and begins the read loop.
func (c *Capturer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}

	dev, err := c.selectDevice()
	if err != nil {
		return err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(segment.SampleRate),
		FramesPerBuffer: FramesPerBuffer,
	}

	buf := make([]float32, FramesPerBuffer)
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		return apperr.Wrapf(err, apperr.CodeAudioCapture, "open stream on %s", dev.Name)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return apperr.Wrapf(err, apperr.CodeAudioCapture, "start stream on %s", dev.Name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.stream = stream
	c.cancel = cancel
	c.running = true
	slog.Info("started audio capture", "device", dev.Name, "sample_rate", segment.SampleRate)

	go c.readLoop(runCtx, stream, buf, dev.Name)
	return nil
}

func (c *Capturer) readLoop(ctx context.Context, stream *portaudio.Stream, buf []float32, device string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := stream.Read(); err != nil {
			slog.Debug("audio read error", "device", device, "error", err)
			return
		}

		out := append([]float32(nil), buf...)
		select {
		case c.outCh <- out:
		default:
			c.mets.CaptureDrops.Inc()
			slog.Debug("capture buffer full, dropping", "device", device)
		}
	}
}

func (c *Capturer) selectDevice() (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeAudioCapture, "enumerate devices")
	}

	var best *portaudio.DeviceInfo
	for _, dev := range devices {
		if dev.MaxInputChannels < 1 || isExcluded(dev.Name, c.excluded) {
			continue
		}
		if c.deviceName != "" {
			if containsFold(dev.Name, c.deviceName) {
				return dev, nil
			}
			continue
		}
		if best == nil || preferDevice(dev.Name, best.Name) {
			best = dev
		}
	}

	if best == nil {
		if c.deviceName != "" {
			return nil, apperr.Newf(apperr.CodeAudioCapture, "no input device matching %q", c.deviceName)
		}
		return nil, apperr.New(apperr.CodeAudioCapture, "no usable input device")
	}
	return best, nil
}

// preferDevice ranks built-in microphones above external or virtual inputs.
func preferDevice(name, current string) bool {
	for _, p := range []string{"built-in", "macbook", "default"} {
		if containsFold(name, p) && !containsFold(current, p) {
			return true
		}
	}
	return false
}

func isExcluded(name string, excluded []string) bool {
	for _, ex := range excluded {
		if containsFold(name, ex) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Stop halts the read loop and releases the device.
func (c *Capturer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.cancel()
	_ = c.stream.Stop()
	_ = c.stream.Close()
	c.stream = nil
	c.running = false
	_ = portaudio.Terminate()
}
