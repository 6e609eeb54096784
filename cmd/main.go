// Command marketpulse scores market volume, flags stock-level risks and
// prints an entry plan for every stock in a snapshot file.
//
// Usage:
//
//	marketpulse -input snapshot.yaml [-config config.yaml] [-journal dir] [-format text|json] [-watch 30s]
//	marketpulse -init -config config.yaml (interactive config wizard)
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/marketpulse/config"
	"github.com/vadiminshakov/marketpulse/internal"
	"github.com/vadiminshakov/marketpulse/internal/setup"
	"github.com/vadiminshakov/marketpulse/internal/storage/reports"
	"go.uber.org/zap"
)

func main() {
	opts, conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if opts.Init {
		if err := setup.RunTUI(opts.ConfigPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := newLogger(opts.Debug)
	if err != nil {
		log.Fatal(err)
	}

	err = run(opts, conf, logger)
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(opts config.Options, conf config.Config, logger *zap.Logger) error {
	var journal internal.Journal
	if conf.JournalDir != "" {
		store, err := reports.NewWALStore(conf.JournalDir)
		if err != nil {
			logger.Error("failed to open report journal", zap.String("dir", conf.JournalDir), zap.Error(err))
			return err
		}
		journal = store
	}

	pulse := internal.NewMarketPulse(conf, opts.Input, journal, os.Stdout, logger)
	defer func() {
		if err := pulse.Close(); err != nil {
			logger.Error("failed to close report journal", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pulse.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("marketpulse failed", zap.Error(err))
		return err
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
