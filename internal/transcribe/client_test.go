package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperr "github.com/openlisten/captiond/internal/errors"
	"github.com/openlisten/captiond/internal/resilience"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(Config{Endpoint: endpoint, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	// Keep tests fast. Retries still happen, just without long sleeps.
	c.retryCfg = resilience.RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
	return c
}

func TestDecodeSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			file.Close()
			if header.Filename != "window.wav" {
				t.Errorf("filename = %q", header.Filename)
			}
		}
		json.NewEncoder(w).Encode(response{Text: "hello world"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.Decode(context.Background(), make([]float32, 16000), 16000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("text = %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotContentType == "" {
		t.Fatal("missing content type")
	}
}

func TestDecodeRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(response{Text: "recovered"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.Decode(context.Background(), make([]float32, 512), 16000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "recovered" {
		t.Fatalf("text = %q", text)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("server calls = %d, want 3", got)
	}
}

func TestDecodeDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad audio", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Decode(context.Background(), make([]float32, 512), 16000)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsCode(err, apperr.CodeDecodeFailed) {
		t.Fatalf("error code: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("server calls = %d, want 1", got)
	}
}

func TestDecodeCancelledContext(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Fill the semaphore so acquisition blocks and the cancel path fires.
	for i := 0; i < cap(c.semaphore); i++ {
		c.semaphore <- struct{}{}
	}
	_, err := c.Decode(ctx, make([]float32, 512), 16000)
	if !apperr.IsCode(err, apperr.CodeCancelled) {
		t.Fatalf("error code: %v", err)
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient(Config{}); !apperr.IsCode(err, apperr.CodeConfigMissing) {
		t.Fatalf("error: %v", err)
	}
}
