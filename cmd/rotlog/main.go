package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/iamNilotpal/rotlog/config"
	"github.com/iamNilotpal/rotlog/internal/core/services/engine"
	"github.com/iamNilotpal/rotlog/internal/core/services/stream"
	"github.com/iamNilotpal/rotlog/pkg/errors"
	"github.com/iamNilotpal/rotlog/pkg/logger"
	"github.com/iamNilotpal/rotlog/pkg/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	log := logger.New("rotlog")
	defer log.Sync()

	cfg := config.DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := config.LoadConfig(os.Args[1])
		if err != nil {
			if ve := errors.AsValidationError(err); ve != nil {
				log.Infow("load config error", "field", ve.Field, "value", ve.Value, "error", ve.Err)
			} else {
				log.Infow("load config error", "error", err)
			}
			os.Exit(1)
		}
		cfg = loaded
	}

	stages, release, err := cfg.Stream.Transformers()
	if err != nil {
		log.Infow("build transforms error", "error", err)
		os.Exit(1)
	}

	file, err := stream.Open(
		cfg.Stream.Path,
		stream.WithOptions(cfg.Stream.StreamOptions()),
		stream.WithFormatter(cfg.Format.Formatter()),
		stream.WithTransformers(stages...),
		stream.WithLogger(log),
		stream.WithErrorHandler(func(err error) {
			log.Warnw("stream error", "error", err)
		}),
	)
	if err != nil {
		if ve := errors.AsValidationError(err); ve != nil {
			log.Infow("open stream error", "field", ve.Field, "value", ve.Value, "error", ve.Err)
		} else {
			log.Infow("open stream error", "error", err)
		}
		os.Exit(1)
	}

	// Structured entries go to a second, plain stream next to the main one.
	audit, err := stream.OpenWithLimits(
		filepath.Join(filepath.Dir(cfg.Stream.Path), "audit.json"),
		cfg.Stream.MaxSize,
		cfg.Stream.MaxBackups,
		stream.WithLogger(log),
	)
	if err != nil {
		log.Infow("open audit stream error", "error", err)
		os.Exit(1)
	}

	auditLog := logger.NewFileLogger("rotlog", audit, zapcore.InfoLevel).With(zap.String("run", uuid.NewString()))

	engines := []engine.Engine{engine.NewStreamed(cfg.Stream.Category, file)}
	if cfg.Console.Enable {
		console := logger.NewConsole("rotlog", cfg.Console.ConsoleLevel())
		engines = append(engines, engine.NewConsole(cfg.Stream.Category, console, nil))
	}

	app := engine.NewLogger(engine.NewCombined(engines...), "")
	app.Info("rotlog started, writing to", cfg.Stream.Path)
	auditLog.Info("stream opened")

	for i := 0; i < 100; i++ {
		app.With("demo").Debug("record", i, "of", 100)
	}
	app.Error("simulated failure", "code", 42)

	log.Infow("demo finished", "activeSize", file.Size(), "droppedErrors", file.Dropped())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := system.Shutdown(ctx, app.Flush, auditLog.Sync, audit.Close, file.Close, release); err != nil {
		log.Infow("shutdown error", "error", err)
	}
}
