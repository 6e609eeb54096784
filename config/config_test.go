package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_Example(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Watch)
	assert.Equal(t, "./wal/reports", cfg.JournalDir)
	assert.Equal(t, 10, cfg.Analysis.Volume.LeaderCount)
	require.Len(t, cfg.Analysis.Levels.TakeProfitMultiples, 3)
	assert.True(t, cfg.Analysis.Levels.TakeProfitMultiples[0].Equal(decimal.RequireFromString("1.5")))
	assert.True(t, cfg.Analysis.EntryPlan.StopLossPct.Equal(decimal.RequireFromString("0.12")))
	assert.Equal(t, "3-6 months", cfg.Analysis.EntryPlan.TimeHorizon)
}

func TestParse_OverlayKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
analysis:
  volume:
    market_fallback_average_volume: 2500000
    stock_fallback_average_volume: 40000
  entry_plan:
    buy_proximity: 0.06
  diagnostic:
    thresholds:
      overbought_rsi: 80
`))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, 2_500_000.0, cfg.Analysis.Volume.MarketFallbackAverageVolume)
	assert.Equal(t, 40_000.0, cfg.Analysis.Volume.StockFallbackAverageVolume)
	assert.True(t, cfg.Analysis.EntryPlan.BuyProximity.Equal(decimal.RequireFromString("0.06")))
	assert.Equal(t, 80.0, cfg.Analysis.Diagnostic.Thresholds.OverboughtRSI)

	// untouched siblings keep their defaults
	assert.Equal(t, def.Analysis.Volume.HealthStrong, cfg.Analysis.Volume.HealthStrong)
	assert.True(t, def.Analysis.EntryPlan.StopLossPct.Equal(cfg.Analysis.EntryPlan.StopLossPct))
	assert.Equal(t, def.Analysis.Diagnostic.Thresholds.LowSmartMoneyScore, cfg.Analysis.Diagnostic.Thresholds.LowSmartMoneyScore)
	assert.Equal(t, def.Analysis.Diagnostic.RedWeight, cfg.Analysis.Diagnostic.RedWeight)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "format", doc: "format: xml"},
		{name: "health bands", doc: "analysis: {volume: {health_strong: 95}}"},
		{name: "risk pct", doc: `analysis: {levels: {risk_pct: "1.5"}}`},
		{name: "target range", doc: `analysis: {entry_plan: {target_pct_min: "0.3"}}`},
		{name: "lookback", doc: "analysis: {levels: {lookback: 0}}"},
		{name: "trend threshold", doc: "analysis: {trend: {threshold_percent: 0}}"},
		{name: "market fallback", doc: "analysis: {volume: {market_fallback_average_volume: -1}}"},
		{name: "stock fallback", doc: "analysis: {volume: {stock_fallback_average_volume: -1}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_BadDecimal(t *testing.T) {
	_, err := Parse([]byte(`analysis: {levels: {risk_pct: "abc"}}`))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFlags(t *testing.T) {
	opts, err := ParseFlags([]string{"-input", "snap.yaml", "-format", "json", "-watch", "1m", "-journal", "/tmp/j", "-debug"})
	require.NoError(t, err)
	assert.Equal(t, "snap.yaml", opts.Input)
	assert.Equal(t, "json", opts.Format)
	assert.Equal(t, time.Minute, opts.Watch)
	assert.Equal(t, "/tmp/j", opts.JournalDir)
	assert.True(t, opts.Debug)

	_, err = ParseFlags(nil)
	require.Error(t, err, "input is required")

	_, err = ParseFlags([]string{"-init"})
	require.Error(t, err, "init needs a config path")

	opts, err = ParseFlags([]string{"-init", "-config", "cfg.yaml"})
	require.NoError(t, err)
	assert.True(t, opts.Init)
}

func TestWithOptions(t *testing.T) {
	cfg := Default()
	cfg.JournalDir = "/from/file"
	cfg.Watch = time.Minute

	merged := cfg.WithOptions(Options{Format: FormatJSON})
	assert.Equal(t, "/from/file", merged.JournalDir)
	assert.Equal(t, time.Minute, merged.Watch)
	assert.Equal(t, FormatJSON, merged.Format)

	merged = cfg.WithOptions(Options{JournalDir: "/from/flag", Watch: 5 * time.Second})
	assert.Equal(t, "/from/flag", merged.JournalDir)
	assert.Equal(t, 5*time.Second, merged.Watch)
}
