// Package analysis composes the volume, level, insight, diagnostic and
// entry-plan engines into market and per-stock reports.
package analysis

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
	"github.com/vadiminshakov/marketpulse/internal/services/diagnostic"
	"github.com/vadiminshakov/marketpulse/internal/services/entryplan"
	"github.com/vadiminshakov/marketpulse/internal/services/market/insight"
	"github.com/vadiminshakov/marketpulse/internal/services/market/levels"
	"github.com/vadiminshakov/marketpulse/internal/services/market/trend"
	"github.com/vadiminshakov/marketpulse/internal/services/market/volume"
	"github.com/vadiminshakov/marketpulse/pkg/indicators"
	"go.uber.org/zap"
)

var (
	// ErrNoDecision means the stock carries no BUY/HOLD/PASS decision.
	ErrNoDecision = errors.New("no decision")
	// ErrNoTargetEstimate means the stock carries no target price estimate.
	ErrNoTargetEstimate = errors.New("no target estimate")
	// ErrNoPriceHistory means the stock has no candles to price a plan from.
	ErrNoPriceHistory = errors.New("no price history")
)

// Config parameters of every engine the analyzer composes.
type Config struct {
	Trend      trend.Config      `yaml:"trend"`
	Volume     volume.Config     `yaml:"volume"`
	Levels     levels.Config     `yaml:"levels"`
	Insight    insight.Config    `yaml:"insight"`
	Diagnostic diagnostic.Config `yaml:"diagnostic"`
	EntryPlan  entryplan.Config  `yaml:"entry_plan"`
}

// DefaultConfig returns the documented defaults of every engine.
func DefaultConfig() Config {
	return Config{
		Trend:      trend.DefaultConfig(),
		Volume:     volume.DefaultConfig(),
		Levels:     levels.DefaultConfig(),
		Insight:    insight.DefaultConfig(),
		Diagnostic: diagnostic.DefaultConfig(),
		EntryPlan:  entryplan.DefaultConfig(),
	}
}

// MarketAnalyzer analyzes market structure and single stocks.
type MarketAnalyzer struct {
	logger     *zap.Logger
	trend      trend.Detector
	volume     volume.Calculator
	levels     levels.Engine
	insight    insight.Generator
	diagnostic diagnostic.Engine
	entryPlan  entryplan.Calculator
}

// NewMarketAnalyzer creates a new MarketAnalyzer instance
func NewMarketAnalyzer(logger *zap.Logger, cfg Config) *MarketAnalyzer {
	return &MarketAnalyzer{
		logger:     logger,
		trend:      trend.NewDetector(cfg.Trend),
		volume:     volume.NewCalculator(cfg.Volume),
		levels:     levels.NewEngine(cfg.Levels),
		insight:    insight.NewGenerator(cfg.Insight),
		diagnostic: diagnostic.NewEngine(cfg.Diagnostic),
		entryPlan:  entryplan.NewCalculator(cfg.EntryPlan),
	}
}

// AnalyzeMarket computes market health, conviction, concentration, leaders,
// insights and the weighted recommendation.
func (m *MarketAnalyzer) AnalyzeMarket(snap domain.MarketSnapshot) domain.MarketReport {
	health := m.volume.MarketHealth(snap.CurrentVolume, snap.AverageVolume, snap.PreviousVolume)
	if health.Baseline != domain.BaselineObserved {
		m.logger.Warn("market average volume not observed",
			zap.String("baseline", string(health.Baseline)),
			zap.Float64("average", health.AverageVolume))
	}

	in := insight.Input{
		Health:        health,
		VWAD:          m.volume.VWAD(snap.Stocks),
		Concentration: m.volume.Concentration(snap.Stocks),
		Leaders:       m.volume.Leaders(snap.Stocks),
	}

	report := domain.MarketReport{
		Health:         health,
		VolumeTrend:    m.trend.Detect(snap.VolumeHistory),
		VWAD:           in.VWAD,
		Concentration:  in.Concentration,
		Leaders:        in.Leaders,
		Insights:       m.insight.Insights(in),
		Recommendation: m.insight.Recommend(in),
	}

	m.logger.Info("market analyzed",
		zap.Int("stocks", len(snap.Stocks)),
		zap.Int("health_score", report.Health.HealthScore),
		zap.Float64("vwad", report.VWAD.VWAD),
		zap.Float64("concentration", report.Concentration.Concentration),
		zap.String("recommendation", string(report.Recommendation.Action)))

	return report
}

// AnalyzeStock computes levels, stops, volume metrics, diagnostics and, when
// the stock carries a decision and a target estimate, an entry plan.
// Market-wide conviction and concentration come from market when present.
func (m *MarketAnalyzer) AnalyzeStock(stock domain.StockSnapshot, market domain.Optional[domain.MarketReport]) domain.StockReport {
	report := domain.StockReport{
		Symbol:    stock.Symbol,
		Health:    m.volume.StockHealth(stock.Volume, stock.AverageVolume),
		Technical: stock.Technical.Merge(indicators.Technical(stock.Candles)),
	}

	rv, baseline := m.volume.RelativeVolume(stock.Volume, stock.AverageVolume)
	report.RelativeVolume = rv

	nearestSupport := domain.None[decimal.Decimal]()
	if closePrice, ok := domain.LastClose(stock.Candles); ok {
		report.Close = closePrice
		report.Support, report.Resistance = m.levels.Levels(stock.Candles)
		if len(report.Support) > 0 {
			nearestSupport = domain.Some(report.Support[0].Price)
		}
		report.ATR = m.levels.ATR(stock.Candles)
		report.ATRStop = m.levels.ATRStop(closePrice, report.ATR)
		report.HybridStop = m.levels.HybridStop(closePrice, report.ATR, nearestSupport)
		report.TakeProfits = m.levels.TakeProfits(closePrice, report.HybridStop)
	}

	in := diagnostic.Input{
		SmartMoney: stock.SmartMoney,
		Sector:     stock.Sector,
		Technical:  report.Technical,
		Valuation:  stock.Valuation,
	}
	if report.Health.Baseline != domain.BaselineMissing {
		in.HealthScore = domain.Some(float64(report.Health.HealthScore))
	}
	if baseline != domain.BaselineMissing {
		in.RelativeVolume = domain.Some(rv)
	}
	if mr, ok := market.Get(); ok {
		in.VWAD = domain.Some(mr.VWAD.VWAD)
		in.Concentration = domain.Some(mr.Concentration.Concentration)
	}
	report.Diagnostics = m.diagnostic.Evaluate(in)

	plan, err := m.planEntry(stock, report, nearestSupport)
	switch {
	case err == nil:
		report.EntryPlan = domain.Some(plan)
	case errors.Is(err, entryplan.ErrInvalidInput):
		m.logger.Warn("entry plan rejected", zap.String("symbol", stock.Symbol), zap.Error(err))
		report.EntryPlanError = err.Error()
	default:
		m.logger.Debug("entry plan skipped", zap.String("symbol", stock.Symbol), zap.Error(err))
		report.EntryPlanError = err.Error()
	}

	m.logger.Info("stock analyzed",
		zap.String("symbol", stock.Symbol),
		zap.String("action", string(report.Diagnostics.OverallAction)),
		zap.Int("risk_level", report.Diagnostics.RiskLevel),
		zap.Bool("entry_plan", report.EntryPlan.IsSome()))

	return report
}

// planEntry prices an entry plan off the nearest support, falling back to the
// hybrid stop when no support level was found.
func (m *MarketAnalyzer) planEntry(stock domain.StockSnapshot, report domain.StockReport, support domain.Optional[decimal.Decimal]) (domain.EntryPlan, error) {
	decision, ok := stock.Decision.Get()
	if !ok {
		return domain.EntryPlan{}, ErrNoDecision
	}
	target, ok := stock.TargetEstimate.Get()
	if !ok {
		return domain.EntryPlan{}, ErrNoTargetEstimate
	}
	if len(stock.Candles) == 0 {
		return domain.EntryPlan{}, ErrNoPriceHistory
	}

	return m.entryPlan.Calculate(entryplan.Input{
		CurrentPrice:   report.Close,
		SupportLevel:   support.OrElse(report.HybridStop),
		TargetEstimate: target,
		Decision:       decision,
	})
}
