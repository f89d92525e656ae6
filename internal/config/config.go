// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	apperr "github.com/openlisten/captiond/internal/errors"
)

// Config is the complete service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Audio   AudioConfig   `yaml:"audio"`
	VAD     VADConfig     `yaml:"vad"`
	Decoder DecoderConfig `yaml:"decoder"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// AudioConfig holds capture settings.
type AudioConfig struct {
	DeviceName      string   `yaml:"device_name"`
	ExcludedDevices []string `yaml:"excluded_devices"`
}

// VADConfig holds voice activity detection thresholds.
type VADConfig struct {
	SpeechThreshold  float64 `yaml:"speech_threshold"`
	SilenceThreshold float64 `yaml:"silence_threshold"`
	SpeechChunks     int     `yaml:"speech_chunks"`
	SilenceChunks    int     `yaml:"silence_chunks"`
}

// DecoderConfig holds speech-to-text service settings.
type DecoderConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	Language       string  `yaml:"language"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	MaxConcurrent  int     `yaml:"max_concurrent"`
	QueueSize      int     `yaml:"queue_size"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Timeout returns the decoder request timeout as a duration.
func (c DecoderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":8000"},
		VAD: VADConfig{
			SpeechThreshold:  0.015,
			SilenceThreshold: 0.008,
			SpeechChunks:     2,
			SilenceChunks:    20,
		},
		Decoder: DecoderConfig{
			Endpoint:       "http://localhost:9000/v1/audio/transcriptions",
			Model:          "whisper-1",
			TimeoutSeconds: 30,
			MaxConcurrent:  4,
			QueueSize:      16,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds the config from defaults, then the YAML file at path if it is
// non-empty, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperr.Wrapf(err, apperr.CodeConfigMissing, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperr.Wrapf(err, apperr.CodeConfigInvalid, "parse config file %s", path)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.Audio.DeviceName = getEnv("AUDIO_DEVICE", c.Audio.DeviceName)
	c.VAD.SpeechThreshold = getEnvFloat("VAD_SPEECH_THRESHOLD", c.VAD.SpeechThreshold)
	c.VAD.SilenceThreshold = getEnvFloat("VAD_SILENCE_THRESHOLD", c.VAD.SilenceThreshold)
	c.VAD.SpeechChunks = getEnvInt("VAD_SPEECH_CHUNKS", c.VAD.SpeechChunks)
	c.VAD.SilenceChunks = getEnvInt("VAD_SILENCE_CHUNKS", c.VAD.SilenceChunks)
	c.Decoder.Endpoint = getEnv("DECODER_ENDPOINT", c.Decoder.Endpoint)
	c.Decoder.APIKey = getEnv("DECODER_API_KEY", c.Decoder.APIKey)
	c.Decoder.Model = getEnv("DECODER_MODEL", c.Decoder.Model)
	c.Decoder.Language = getEnv("DECODER_LANGUAGE", c.Decoder.Language)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return apperr.New(apperr.CodeConfigInvalid, "http addr cannot be empty")
	}
	if c.VAD.SpeechThreshold <= 0 {
		return apperr.New(apperr.CodeConfigInvalid, "vad speech threshold must be positive")
	}
	if c.VAD.SilenceThreshold <= 0 || c.VAD.SilenceThreshold > c.VAD.SpeechThreshold {
		return apperr.New(apperr.CodeConfigInvalid, "vad silence threshold must be positive and not above the speech threshold")
	}
	if c.VAD.SpeechChunks <= 0 || c.VAD.SilenceChunks <= 0 {
		return apperr.New(apperr.CodeConfigInvalid, "vad chunk counts must be positive")
	}
	if c.Decoder.Endpoint == "" {
		return apperr.New(apperr.CodeConfigMissing, "decoder endpoint is required")
	}
	if c.Decoder.TimeoutSeconds <= 0 {
		return apperr.New(apperr.CodeConfigInvalid, "decoder timeout must be positive")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return apperr.Newf(apperr.CodeConfigInvalid, "unknown log format %q", c.Logging.Format)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
