package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/droidscout/internal/adb"
	"codeberg.org/mutker/droidscout/internal/config"
	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/logger"
	"codeberg.org/mutker/droidscout/internal/pid"
	"codeberg.org/mutker/droidscout/internal/report"
	"codeberg.org/mutker/droidscout/internal/server"
	"codeberg.org/mutker/droidscout/internal/session"
	"codeberg.org/mutker/droidscout/internal/snapshot"
	"codeberg.org/mutker/droidscout/internal/store"
)

var (
	cfg    *config.Config
	runner adb.Runner
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	applyLogLevel()
	logger.Debug().Msg("Config loaded")

	runner, err = adb.NewRunner()
	if err != nil {
		fatal("adb is required", err)
	}
}

// fatal logs with the domain error code when one is carried, then exits.
func fatal(msg string, err error) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.FatalWithCode(appErr).Msg(msg)
	}
	logger.Fatal().Err(err).Msg(msg)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	device, err := resolveDevice(ctx)
	if err != nil {
		fatal("failed to resolve device", err)
	}
	logger.Info().Str("device", device).Msg("Using device")

	builder, err := snapshot.NewBuilder(runner, snapshot.Config{
		TotalMemMb:     cfg.TotalMemMB,
		Target:         cfg.Target,
		SystemPrefixes: cfg.SystemPrefixes,
	})
	if err != nil {
		fatal("failed to initialize snapshot builder", err)
	}

	switch {
	case cfg.Serve:
		err = serve(ctx, builder, device)
	case cfg.Monitor:
		err = monitor(ctx, builder, device)
	default:
		err = diagnose(ctx, builder, device)
	}
	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("error in main loop")
		} else {
			logger.Error().Err(err).Msg("error in main loop")
		}
		os.Exit(1)
	}
	logger.Info().Msg("Exiting...")
}

// resolveDevice uses the configured serial, falling back to auto-detection.
func resolveDevice(ctx context.Context) (string, error) {
	if cfg.Device != "" {
		return cfg.Device, nil
	}

	return adb.DetectDevice(ctx, runner)
}

// diagnose runs one full snapshot and writes the report files.
func diagnose(ctx context.Context, builder *snapshot.Builder, device string) error {
	snap := builder.Build(ctx, device)
	logSnapshot(snap)

	dir, err := report.RunDir(cfg.OutputDir, snap.CapturedAt)
	if err != nil {
		return err
	}

	writer := report.NewWriter(builder.Classifier(), cfg.Target)
	if err := writer.WriteAll(dir, snap); err != nil {
		return err
	}

	logger.Info().Str("dir", dir).Msg("Reports written")

	return nil
}

// monitor samples the device on the configured interval until interrupted.
// The first sample is taken right away, before the first interval elapses.
func monitor(ctx context.Context, builder *snapshot.Builder, device string) error {
	logger.Info().Msg("Monitor mode activated. Logging device status...")

	return session.Monitor(ctx, builder, device, cfg.SampleInterval(), logSnapshot)
}

// serve runs the dashboard HTTP server until interrupted.
func serve(ctx context.Context, builder *snapshot.Builder, device string) error {
	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	repo, err := store.NewRepository(store.Config{
		DBPath:  cfg.SessionDB,
		Enabled: cfg.SessionDB != "",
	}, logger.Default())
	if err != nil {
		return err
	}
	defer repo.Close()

	agg, err := session.NewAggregator(builder, device, cfg.SampleInterval())
	if err != nil {
		return err
	}
	defer agg.Stop()

	srv, err := server.New(builder, agg, runner, repo, server.Config{
		Listen:    cfg.Listen,
		Device:    device,
		OutputDir: cfg.OutputDir,
	})
	if err != nil {
		return err
	}
	srv.Routes()

	return srv.Run(ctx)
}

func logSnapshot(snap snapshot.Snapshot) {
	event := logger.Info().
		Str("memory_health", string(snap.MemoryHealth)).
		Float64("free_mem_mb", snap.FreeMemMb).
		Int("processes", len(snap.Processes)).
		Int("heavy_cpu", len(snap.HeavyCPU)).
		Int("heavy_ram", len(snap.HeavyRAM)).
		Int("services", len(snap.Services))

	if snap.Frame != nil {
		event = event.
			Float64("avg_frame_ms", snap.Frame.AvgFrameTimeMs).
			Int("jank_frames", snap.Frame.JankFrameCount)
	}

	event.Msg("Snapshot")
}

func applyLogLevel() {
	if cfg.Debug || cfg.Verbose {
		return
	}

	switch config.LogLevel(cfg.LogLevel) {
	case config.LogLevelDebug:
		logger.SetLogLevel(logger.DebugLevel)
	case config.LogLevelInfo:
		logger.SetLogLevel(logger.InfoLevel)
	case config.LogLevelWarning:
		logger.SetLogLevel(logger.WarnLevel)
	case config.LogLevelError:
		logger.SetLogLevel(logger.ErrorLevel)
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
