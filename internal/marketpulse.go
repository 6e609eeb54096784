package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/marketpulse/config"
	"github.com/vadiminshakov/marketpulse/internal/domain"
	"github.com/vadiminshakov/marketpulse/internal/report"
	"github.com/vadiminshakov/marketpulse/internal/services/market/analysis"
	"github.com/vadiminshakov/marketpulse/internal/snapshot"
	"github.com/vadiminshakov/marketpulse/pkg/retrier"
	"go.uber.org/zap"
)

// Journal stores produced reports.
type Journal interface {
	SaveMarket(report domain.MarketReport) (uuid.UUID, error)
	SaveStock(report domain.StockReport) (uuid.UUID, error)
	Close() error
}

// Result reports produced from one snapshot.
type Result struct {
	Market domain.MarketReport  `json:"market"`
	Stocks []domain.StockReport `json:"stocks"`
}

// MarketPulse analyzes a snapshot file once or on every watch tick.
type MarketPulse struct {
	Config   config.Config
	input    string
	analyzer *analysis.MarketAnalyzer
	journal  Journal
	retrier  *retrier.Retrier
	out      io.Writer
	logger   *zap.Logger
}

// NewMarketPulse creates a runner reading input and writing reports to out.
// journal may be nil.
func NewMarketPulse(conf config.Config, input string, journal Journal, out io.Writer, logger *zap.Logger) *MarketPulse {
	return &MarketPulse{
		Config:   conf,
		input:    input,
		analyzer: analysis.NewMarketAnalyzer(logger, conf.Analysis),
		journal:  journal,
		retrier: retrier.New(
			retrier.WithMaxRetries(3),
			retrier.WithInitialInterval(200*time.Millisecond),
			// the upstream writer may be replacing the file
			retrier.WithRetryIf(func(err error) bool { return !errors.Is(err, snapshot.ErrInvalidSnapshot) }),
			retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
				logger.Warn("snapshot not readable, retrying",
					zap.String("input", input), zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
			}),
		),
		out:    out,
		logger: logger,
	}
}

// Close closes the journal.
func (p *MarketPulse) Close() error {
	if p.journal == nil {
		return nil
	}
	return p.journal.Close()
}

// Run analyzes the snapshot, then again on every watch tick until ctx is done.
// Without a watch interval it returns after the first pass.
func (p *MarketPulse) Run(ctx context.Context) error {
	if _, err := p.RunOnce(ctx); err != nil {
		return err
	}
	if p.Config.Watch <= 0 {
		return nil
	}

	ticker := time.NewTicker(p.Config.Watch)
	defer ticker.Stop()

	p.logger.Info("Starting watch loop", zap.String("input", p.input), zap.Duration("interval", p.Config.Watch))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Context done, stopping watch loop.", zap.String("input", p.input))
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.RunOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.Error("Analysis pass failed", zap.String("input", p.input), zap.Error(err))
			}
		}
	}
}

// RunOnce loads the snapshot, analyzes it, journals and prints the reports.
func (p *MarketPulse) RunOnce(ctx context.Context) (Result, error) {
	snap, err := retrier.DoWithData(p.retrier, ctx, func(ctx context.Context) (snapshot.Snapshot, error) {
		return snapshot.Load(p.input)
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to load snapshot")
	}

	res := Result{
		Market: p.analyzer.AnalyzeMarket(snap.Market),
		Stocks: make([]domain.StockReport, 0, len(snap.Stocks)),
	}
	for _, stock := range snap.Stocks {
		res.Stocks = append(res.Stocks, p.analyzer.AnalyzeStock(stock, domain.Some(res.Market)))
	}

	if err := p.record(res); err != nil {
		return Result{}, err
	}
	if err := p.print(res); err != nil {
		return Result{}, errors.Wrap(err, "failed to write reports")
	}
	return res, nil
}

func (p *MarketPulse) record(res Result) error {
	if p.journal == nil {
		return nil
	}

	id, err := p.journal.SaveMarket(res.Market)
	if err != nil {
		return errors.Wrap(err, "failed to journal market report")
	}
	p.logger.Debug("market report journaled", zap.String("id", id.String()))

	for _, s := range res.Stocks {
		if _, err := p.journal.SaveStock(s); err != nil {
			return errors.Wrapf(err, "failed to journal report for %s", s.Symbol)
		}
	}
	return nil
}

func (p *MarketPulse) print(res Result) error {
	if p.Config.Format == config.FormatJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if _, err := fmt.Fprintln(p.out, report.Market(res.Market)); err != nil {
		return err
	}
	for _, s := range res.Stocks {
		if _, err := fmt.Fprintln(p.out, report.Stock(s)); err != nil {
			return err
		}
	}
	return nil
}
