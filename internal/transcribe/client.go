// Package transcribe talks to an external speech-to-text service over HTTP.
//
// Audio windows are posted as 16-bit PCM WAV files in multipart form bodies.
// Requests run behind a concurrency semaphore, a retry loop with exponential
// backoff, and a circuit breaker so a degraded decoder service cannot pile up
// in-flight work.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	apperr "github.com/openlisten/captiond/internal/errors"
	"github.com/openlisten/captiond/internal/resilience"
	"github.com/openlisten/captiond/internal/trace"
)

// Config holds decoder service connection settings.
type Config struct {
	Endpoint      string
	APIKey        string
	Model         string
	Language      string
	Timeout       time.Duration
	MaxConcurrent int
}

// response is the decoder service reply shape.
type response struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Client posts audio windows to the decoder service and returns transcripts.
type Client struct {
	cfg        Config
	httpClient *http.Client
	semaphore  chan struct{}
	breaker    *resilience.Breaker
	retryCfg   resilience.RetryConfig
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, apperr.New(apperr.CodeConfigMissing, "decoder endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: cfg.MaxConcurrent,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		semaphore: make(chan struct{}, cfg.MaxConcurrent),
		breaker:   resilience.NewBreaker(resilience.DefaultBreakerConfig()),
		retryCfg:  resilience.DefaultRetryConfig(),
	}, nil
}

// Decode posts a window of mono float32 samples and returns the transcript.
// It blocks until a concurrency slot is available or ctx is done.
func (c *Client) Decode(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-ctx.Done():
		return "", apperr.Wrap(ctx.Err(), apperr.CodeCancelled, "waiting for decode slot")
	}

	wav, err := encodeWAV(samples, sampleRate)
	if err != nil {
		return "", err
	}

	ctx, span := trace.StartSpan(ctx, "transcribe.decode")
	defer span.End()
	span.SetAttr("window_samples", len(samples))

	var text string
	err = resilience.Retry(ctx, c.retryCfg, func() error {
		return c.breaker.Execute(func() error {
			var reqErr error
			text, reqErr = c.doRequest(ctx, wav)
			return reqErr
		})
	})
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeDecodeFailed, "decode request failed")
	}
	return text, nil
}

func (c *Client) doRequest(ctx context.Context, wav []byte) (string, error) {
	body, contentType, err := c.buildForm(wav)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, body)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "build decode request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	if tc, ok := trace.FromContext(ctx); ok {
		req.Header.Set("X-Trace-Id", tc.TraceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeUnavailable, "decoder request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeUnavailable, "read decoder response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Newf(apperr.FromHTTPStatus(resp.StatusCode),
			"decoder returned %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var out response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "parse decoder response")
	}
	return out.Text, nil
}

func (c *Client) buildForm(wav []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fw, err := writer.CreateFormFile("file", "window.wav")
	if err != nil {
		return nil, "", apperr.Wrap(err, apperr.CodeInternal, "create form file")
	}
	if _, err := fw.Write(wav); err != nil {
		return nil, "", apperr.Wrap(err, apperr.CodeInternal, "write form file")
	}

	fields := map[string]string{"response_format": "json"}
	if c.cfg.Model != "" {
		fields["model"] = c.cfg.Model
	}
	if c.cfg.Language != "" {
		fields["language"] = c.cfg.Language
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", apperr.Wrapf(err, apperr.CodeInternal, "write field %s", key)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", apperr.Wrap(err, apperr.CodeInternal, "close multipart writer")
	}
	return &buf, writer.FormDataContentType(), nil
}

// BreakerState exposes the circuit state for health reporting.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
