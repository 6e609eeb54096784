package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/services/market/analysis"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidConfig marks a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid config")

// Config engine parameters plus CLI behaviour.
type Config struct {
	Analysis analysis.Config `yaml:"analysis"`
	// JournalDir enables the report journal when set
	JournalDir string `yaml:"journal_dir"`
	// Watch re-runs the analysis at this interval; 0 runs once
	Watch  time.Duration `yaml:"watch"`
	Format string        `yaml:"format"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Analysis: analysis.DefaultConfig(),
		Format:   FormatText,
	}
}

// Options command-line flags.
type Options struct {
	ConfigPath string
	Input      string
	JournalDir string
	Format     string
	Watch      time.Duration
	Debug      bool
	Init       bool
}

// ParseFlags parses command-line arguments (without the program name).
func ParseFlags(args []string) (Options, error) {
	fs := flag.NewFlagSet("marketpulse", flag.ContinueOnError)

	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "path to yaml config")
	fs.StringVar(&opts.Input, "input", "", "path to the market snapshot (yaml or json)")
	fs.StringVar(&opts.JournalDir, "journal", "", "directory of the report journal, empty disables journaling")
	fs.StringVar(&opts.Format, "format", "", "output format: text or json")
	fs.DurationVar(&opts.Watch, "watch", 0, "re-run the analysis at this interval, example: 30s")
	fs.BoolVar(&opts.Debug, "debug", false, "development logging")
	fs.BoolVar(&opts.Init, "init", false, "write a config file interactively to the -config path")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	if opts.Init {
		if opts.ConfigPath == "" {
			return Options{}, errors.New("-init requires -config")
		}
		return opts, nil
	}
	if opts.Input == "" {
		return Options{}, errors.New("-input is required")
	}
	return opts, nil
}

// Get parses os.Args and loads the configuration they point to.
func Get() (Options, Config, error) {
	opts, err := ParseFlags(os.Args[1:])
	if err != nil {
		return Options{}, Config{}, err
	}
	if opts.Init {
		return opts, Default(), nil
	}

	cfg := Default()
	if opts.ConfigPath != "" {
		if cfg, err = Load(opts.ConfigPath); err != nil {
			return Options{}, Config{}, err
		}
	}

	cfg = cfg.WithOptions(opts)
	if err := cfg.Validate(); err != nil {
		return Options{}, Config{}, err
	}
	return opts, cfg, nil
}

// Load reads a yaml file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	return Parse(data)
}

// Parse decodes yaml over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithOptions applies flags that were set over file values.
func (c Config) WithOptions(opts Options) Config {
	if opts.JournalDir != "" {
		c.JournalDir = opts.JournalDir
	}
	if opts.Format != "" {
		c.Format = opts.Format
	}
	if opts.Watch != 0 {
		c.Watch = opts.Watch
	}
	return c
}

// Validate checks ranges and orderings the engines rely on.
func (c Config) Validate() error {
	a := c.Analysis
	one := decimal.NewFromInt(1)

	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Format == FormatText || c.Format == FormatJSON, "format must be text or json, got " + c.Format},
		{c.Watch >= 0, "watch interval must not be negative"},

		{a.Trend.ThresholdPercent > 0, "trend.threshold_percent must be positive"},

		{a.Volume.HealthExplosive >= a.Volume.HealthStrong && a.Volume.HealthStrong >= a.Volume.HealthNormal && a.Volume.HealthNormal >= 0,
			"volume health bands must satisfy explosive >= strong >= normal >= 0"},
		{a.Volume.TrendChangePercent >= 0, "volume.trend_change_percent must not be negative"},
		{a.Volume.BullishVWAD > a.Volume.BearishVWAD, "volume.bullish_vwad must exceed volume.bearish_vwad"},
		{a.Volume.ConcentrationTopN > 0 && a.Volume.ConcentrationUniverse >= a.Volume.ConcentrationTopN,
			"volume.concentration_universe must be at least concentration_top_n > 0"},
		{a.Volume.ConcentrationRisky >= a.Volume.ConcentrationNormal, "volume.concentration_risky must be at least concentration_normal"},
		{a.Volume.LeaderCount >= 0, "volume.leader_count must not be negative"},
		{a.Volume.MarketFallbackAverageVolume >= 0, "volume.market_fallback_average_volume must not be negative"},
		{a.Volume.StockFallbackAverageVolume >= 0, "volume.stock_fallback_average_volume must not be negative"},

		{a.Levels.Lookback >= 1, "levels.lookback must be at least 1"},
		{a.Levels.GroupThreshold.IsPositive(), "levels.group_threshold must be positive"},
		{a.Levels.MaxLevels >= 1, "levels.max_levels must be at least 1"},
		{a.Levels.ATRPeriod >= 1, "levels.atr_period must be at least 1"},
		{!a.Levels.ATRMultiplier.IsNegative(), "levels.atr_multiplier must not be negative"},
		{a.Levels.RiskPct.IsPositive() && a.Levels.RiskPct.LessThan(one), "levels.risk_pct must be in (0, 1)"},
		{a.Levels.SupportBuffer.IsPositive() && a.Levels.SupportBuffer.LessThanOrEqual(one), "levels.support_buffer must be in (0, 1]"},

		{a.Insight.RatioHigh > a.Insight.RatioLow, "insight.ratio_high must exceed insight.ratio_low"},
		{a.Insight.BuyStrongScore >= a.Insight.BuyModerateScore && a.Insight.BuyModerateScore >= a.Insight.HoldScore,
			"insight score thresholds must satisfy buy_strong >= buy_moderate >= hold"},

		{a.Diagnostic.RedWeight >= 0 && a.Diagnostic.YellowWeight >= 0, "diagnostic weights must not be negative"},
		{a.Diagnostic.ImmediateSellRed >= 1, "diagnostic.immediate_sell_red must be at least 1"},
		{a.Diagnostic.WatchYellow >= 0, "diagnostic.watch_yellow must not be negative"},

		{!a.EntryPlan.BuyProximity.IsNegative() && a.EntryPlan.BuyProximity.LessThan(one), "entry_plan.buy_proximity must be in [0, 1)"},
		{a.EntryPlan.StopLossPct.IsPositive() && a.EntryPlan.StopLossPct.LessThan(one), "entry_plan.stop_loss_pct must be in (0, 1)"},
		{a.EntryPlan.SupportBuffer.IsPositive() && a.EntryPlan.SupportBuffer.LessThanOrEqual(one), "entry_plan.support_buffer must be in (0, 1]"},
		{a.EntryPlan.TargetPctMin.IsPositive() && a.EntryPlan.TargetPctMin.LessThanOrEqual(a.EntryPlan.TargetPctMax),
			"entry_plan target range must satisfy 0 < target_pct_min <= target_pct_max"},
	}

	var problems []string
	for _, check := range checks {
		if !check.ok {
			problems = append(problems, check.msg)
		}
	}
	if len(problems) > 0 {
		return errors.Wrap(ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
