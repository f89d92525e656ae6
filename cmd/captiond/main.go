// captiond captures microphone audio, segments speech, and serves live
// captions over WebSocket.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openlisten/captiond/internal/audio"
	"github.com/openlisten/captiond/internal/config"
	"github.com/openlisten/captiond/internal/decode"
	"github.com/openlisten/captiond/internal/metrics"
	"github.com/openlisten/captiond/internal/orchestrator"
	"github.com/openlisten/captiond/internal/orchestrator/transcript"
	"github.com/openlisten/captiond/internal/segment"
	"github.com/openlisten/captiond/internal/server"
	"github.com/openlisten/captiond/internal/transcribe"
	"github.com/openlisten/captiond/internal/vad"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.Logging)

	mets := metrics.New(prometheus.DefaultRegisterer)

	decoder, err := transcribe.NewClient(transcribe.Config{
		Endpoint:      cfg.Decoder.Endpoint,
		APIKey:        cfg.Decoder.APIKey,
		Model:         cfg.Decoder.Model,
		Language:      cfg.Decoder.Language,
		Timeout:       cfg.Decoder.Timeout(),
		MaxConcurrent: cfg.Decoder.MaxConcurrent,
	})
	if err != nil {
		slog.Error("failed to create decoder client", "error", err)
		os.Exit(1)
	}

	capturer, err := audio.NewCapturer(audio.Config{
		DeviceName:      cfg.Audio.DeviceName,
		ExcludedDevices: cfg.Audio.ExcludedDevices,
	}, mets)
	if err != nil {
		slog.Error("failed to initialize audio capture", "error", err)
		os.Exit(1)
	}

	detector := vad.NewRMSDetector(vad.RMSConfig{
		SpeechThreshold:  cfg.VAD.SpeechThreshold,
		SilenceThreshold: cfg.VAD.SilenceThreshold,
		SpeechChunks:     cfg.VAD.SpeechChunks,
		SilenceChunks:    cfg.VAD.SilenceChunks,
	})
	engine := segment.NewEngine(detector)
	worker := decode.NewWorker(decoder, engine.Deduper(), mets, cfg.Decoder.QueueSize, cfg.Decoder.Timeout())
	store := transcript.NewStore(orchestrator.DefaultTranscriptEntries, orchestrator.DefaultEventBuffer)
	orch := orchestrator.New(engine, worker, store, capturer, mets)
	srv := server.New(orch, mets)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := orch.Start(ctx); err != nil {
		slog.Error("failed to start pipeline", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("captiond starting", "http", cfg.HTTP.Addr, "decoder", cfg.Decoder.Endpoint)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received signal", "signal", sig)
	case err := <-orch.Errors():
		slog.Error("pipeline failed", "error", err)
	}

	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}

	orch.Stop()
	slog.Info("shutdown complete")
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
