// Package volume computes market volume metrics: health score, VWAD,
// concentration, relative volume and volume leaders.
package volume

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

const (
	healthScale        = 50
	neutralHealthScore = 50
	neutralRelative    = 1
	percentMultiplier  = 100
)

// Config bands and window sizes for the volume metrics.
type Config struct {
	HealthExplosive float64 `yaml:"health_explosive"`
	HealthStrong    float64 `yaml:"health_strong"`
	HealthNormal    float64 `yaml:"health_normal"`

	// TrendChangePercent is the change vs the previous period that counts as a trend
	TrendChangePercent float64 `yaml:"trend_change_percent"`

	BullishVWAD float64 `yaml:"bullish_vwad"`
	BearishVWAD float64 `yaml:"bearish_vwad"`

	ConcentrationTopN     int     `yaml:"concentration_top_n"`
	ConcentrationUniverse int     `yaml:"concentration_universe"`
	ConcentrationRisky    float64 `yaml:"concentration_risky"`
	ConcentrationNormal   float64 `yaml:"concentration_normal"`

	LeaderCount int `yaml:"leader_count"`

	// MarketFallbackAverageVolume replaces a missing market-wide average; 0 disables it
	MarketFallbackAverageVolume float64 `yaml:"market_fallback_average_volume"`
	// StockFallbackAverageVolume replaces a missing per-stock average; 0 disables it
	StockFallbackAverageVolume float64 `yaml:"stock_fallback_average_volume"`
}

// DefaultConfig returns the documented default bands.
func DefaultConfig() Config {
	return Config{
		HealthExplosive:       90,
		HealthStrong:          70,
		HealthNormal:          30,
		TrendChangePercent:    10,
		BullishVWAD:           30,
		BearishVWAD:           -30,
		ConcentrationTopN:     5,
		ConcentrationUniverse: 30,
		ConcentrationRisky:    40,
		ConcentrationNormal:   25,
		LeaderCount:           10,
	}
}

// Calculator computes volume metrics. It holds no state besides its configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator.
func NewCalculator(cfg Config) Calculator {
	return Calculator{cfg: cfg}
}

// MarketHealth scores total market volume against its average.
// A missing average is replaced by the market fallback; without either the score is neutral.
func (c Calculator) MarketHealth(current float64, average, previous domain.Optional[float64]) domain.VolumeHealthData {
	return c.health(current, average, previous, c.cfg.MarketFallbackAverageVolume)
}

// StockHealth scores a single stock's volume against its own average or the stock fallback.
func (c Calculator) StockHealth(current float64, average domain.Optional[float64]) domain.VolumeHealthData {
	return c.health(current, average, domain.None[float64](), c.cfg.StockFallbackAverageVolume)
}

func (c Calculator) health(current float64, average, previous domain.Optional[float64], fallback float64) domain.VolumeHealthData {
	current = nonNegative(current)
	avg, baseline := resolveBaseline(average, fallback)

	score := neutralHealthScore
	if baseline != domain.BaselineMissing {
		score = HealthScore(current, avg)
	}

	return domain.VolumeHealthData{
		CurrentVolume: current,
		AverageVolume: avg,
		HealthScore:   score,
		HealthStatus:  c.HealthStatus(score),
		Trend:         c.TrendVsPrevious(current, previous),
		Baseline:      baseline,
	}
}

// HealthScore returns round(current/average*50) clamped to [0,100], 50 when average <= 0.
func HealthScore(current, average float64) int {
	if average <= 0 {
		return neutralHealthScore
	}
	score := math.Round(nonNegative(current) / average * healthScale)
	return int(math.Max(0, math.Min(percentMultiplier, score)))
}

// HealthStatus maps a score to its band.
func (c Calculator) HealthStatus(score int) domain.HealthStatus {
	s := float64(score)
	switch {
	case s >= c.cfg.HealthExplosive:
		return domain.HealthExplosive
	case s >= c.cfg.HealthStrong:
		return domain.HealthStrong
	case s >= c.cfg.HealthNormal:
		return domain.HealthNormal
	default:
		return domain.HealthAnemic
	}
}

// TrendVsPrevious compares current volume to the previous period.
func (c Calculator) TrendVsPrevious(current float64, previous domain.Optional[float64]) domain.Trend {
	prev, ok := previous.Get()
	if !ok || prev <= 0 {
		return domain.TrendNeutral
	}

	change := (current - prev) / prev * percentMultiplier
	switch {
	case change > c.cfg.TrendChangePercent:
		return domain.TrendUp
	case change < -c.cfg.TrendChangePercent:
		return domain.TrendDown
	default:
		return domain.TrendNeutral
	}
}

// VWAD computes volume-weighted advance/decline. Unchanged stocks count toward the total only.
func (c Calculator) VWAD(obs []domain.StockObservation) domain.VWADData {
	var up, down, total float64
	for _, o := range obs {
		v := nonNegative(o.Volume)
		switch {
		case o.Change > 0:
			up += v
		case o.Change < 0:
			down += v
		}
		total += v
	}

	vwad := 0.0
	if total > 0 {
		vwad = Round2((up - down) / total * percentMultiplier)
	}

	return domain.VWADData{
		VWAD:        vwad,
		Conviction:  c.Conviction(vwad),
		UpVolume:    up,
		DownVolume:  down,
		TotalVolume: total,
	}
}

// Conviction maps a VWAD score to its direction.
func (c Calculator) Conviction(vwad float64) domain.Conviction {
	switch {
	case vwad >= c.cfg.BullishVWAD:
		return domain.ConvictionBullish
	case vwad <= c.cfg.BearishVWAD:
		return domain.ConvictionBearish
	default:
		return domain.ConvictionNeutral
	}
}

// Concentration computes the share of the top stocks' volume within the most active universe.
func (c Calculator) Concentration(obs []domain.StockObservation) domain.ConcentrationData {
	sorted := sortByVolume(obs)

	var top, total float64
	for i, o := range sorted {
		if i >= c.cfg.ConcentrationUniverse {
			break
		}
		v := nonNegative(o.Volume)
		if i < c.cfg.ConcentrationTopN {
			top += v
		}
		total += v
	}

	concentration := 0.0
	if total > 0 {
		concentration = Round2(top / total * percentMultiplier)
	}

	return domain.ConcentrationData{
		Top5Volume:         top,
		TotalVolume:        total,
		Concentration:      concentration,
		ConcentrationLevel: c.ConcentrationLevel(concentration),
	}
}

// ConcentrationLevel maps a concentration percentage to its band.
func (c Calculator) ConcentrationLevel(concentration float64) domain.ConcentrationLevel {
	switch {
	case concentration >= c.cfg.ConcentrationRisky:
		return domain.ConcentrationRisky
	case concentration >= c.cfg.ConcentrationNormal:
		return domain.ConcentrationNormal
	default:
		return domain.ConcentrationHealthy
	}
}

// RelativeVolume returns volume/average rounded to 2 decimals, 1 when average <= 0.
func RelativeVolume(volume, average float64) float64 {
	if average <= 0 {
		return neutralRelative
	}
	return Round2(nonNegative(volume) / average)
}

// RelativeVolume measures a stock's volume against its average, falling back to the stock baseline.
func (c Calculator) RelativeVolume(volume float64, average domain.Optional[float64]) (float64, domain.BaselineSource) {
	avg, baseline := resolveBaseline(average, c.cfg.StockFallbackAverageVolume)
	if baseline == domain.BaselineMissing {
		return neutralRelative, baseline
	}
	return RelativeVolume(volume, avg), baseline
}

// Leaders returns the most traded stocks, highest volume first.
func (c Calculator) Leaders(obs []domain.StockObservation) []domain.VolumeLeader {
	sorted := sortByVolume(obs)
	if len(sorted) > c.cfg.LeaderCount {
		sorted = sorted[:c.cfg.LeaderCount]
	}

	leaders := make([]domain.VolumeLeader, 0, len(sorted))
	for _, o := range sorted {
		rel, baseline := c.RelativeVolume(o.Volume, o.AverageVolume)
		leaders = append(leaders, domain.VolumeLeader{
			Symbol:         o.Symbol,
			Volume:         nonNegative(o.Volume),
			RelativeVolume: rel,
			PriceChange:    o.Change,
			Baseline:       baseline,
		})
	}
	return leaders
}

func resolveBaseline(average domain.Optional[float64], fallback float64) (float64, domain.BaselineSource) {
	if avg, ok := average.Get(); ok && avg > 0 {
		return avg, domain.BaselineObserved
	}
	if fallback > 0 {
		return fallback, domain.BaselineFallback
	}
	return 0, domain.BaselineMissing
}

// sortByVolume returns a copy ordered by volume desc, ties by symbol.
func sortByVolume(obs []domain.StockObservation) []domain.StockObservation {
	sorted := make([]domain.StockObservation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := nonNegative(sorted[i].Volume), nonNegative(sorted[j].Volume)
		if vi != vj {
			return vi > vj
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})
	return sorted
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
