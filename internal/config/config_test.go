package config

import (
	"os"
	"path/filepath"
	"testing"

	apperr "github.com/openlisten/captiond/internal/errors"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
http:
  addr: ":9090"
vad:
  speech_threshold: 0.02
decoder:
  endpoint: "http://decoder:9000/transcribe"
  api_key: "secret"
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.VAD.SpeechThreshold != 0.02 {
		t.Fatalf("speech threshold = %v", cfg.VAD.SpeechThreshold)
	}
	// Fields the file omits keep defaults.
	if cfg.VAD.SilenceChunks != 20 {
		t.Fatalf("silence chunks = %d", cfg.VAD.SilenceChunks)
	}
	if cfg.Decoder.APIKey != "secret" {
		t.Fatalf("api key = %q", cfg.Decoder.APIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if !apperr.IsCode(err, apperr.CodeConfigMissing) {
		t.Fatalf("error = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7777")
	t.Setenv("DECODER_API_KEY", "from-env")
	t.Setenv("VAD_SPEECH_CHUNKS", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":7777" {
		t.Fatalf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Decoder.APIKey != "from-env" {
		t.Fatalf("api key = %q", cfg.Decoder.APIKey)
	}
	if cfg.VAD.SpeechChunks != 5 {
		t.Fatalf("speech chunks = %d", cfg.VAD.SpeechChunks)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }},
		{"zero speech threshold", func(c *Config) { c.VAD.SpeechThreshold = 0 }},
		{"silence above speech", func(c *Config) { c.VAD.SilenceThreshold = 0.5 }},
		{"empty endpoint", func(c *Config) { c.Decoder.Endpoint = "" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
