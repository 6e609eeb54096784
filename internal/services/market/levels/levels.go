// Package levels detects support and resistance from pivot points and
// derives ATR-based stop-loss and take-profit prices.
package levels

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

const (
	strongTouches   = 3
	moderateTouches = 2
)

// Config parameters for level detection and stop derivation.
type Config struct {
	// Lookback bars on each side of a pivot
	Lookback int `yaml:"lookback"`
	// GroupThreshold relative distance within which pivots merge into one level
	GroupThreshold decimal.Decimal `yaml:"group_threshold"`
	MaxLevels      int             `yaml:"max_levels"`

	ATRPeriod     int             `yaml:"atr_period"`
	ATRMultiplier decimal.Decimal `yaml:"atr_multiplier"`
	// RiskPct caps the stop distance when no support level is known
	RiskPct decimal.Decimal `yaml:"risk_pct"`
	// SupportBuffer places the stop just under support
	SupportBuffer       decimal.Decimal   `yaml:"support_buffer"`
	TakeProfitMultiples []decimal.Decimal `yaml:"take_profit_multiples"`
}

// DefaultConfig returns the default level parameters.
func DefaultConfig() Config {
	return Config{
		Lookback:       5,
		GroupThreshold: decimal.NewFromFloat(0.02),
		MaxLevels:      5,
		ATRPeriod:      14,
		ATRMultiplier:  decimal.NewFromInt(2),
		RiskPct:        decimal.NewFromFloat(0.08),
		SupportBuffer:  decimal.NewFromFloat(0.98),
		TakeProfitMultiples: []decimal.Decimal{
			decimal.NewFromFloat(1.5),
			decimal.NewFromInt(3),
			decimal.NewFromInt(5),
		},
	}
}

// Pivot local extreme of a price series.
type Pivot struct {
	Price decimal.Decimal
	Date  time.Time
	Index int
}

// Engine finds price levels. Grouping costs O(n*g) for n pivots and g groups.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) Engine {
	return Engine{cfg: cfg}
}

// Pivots returns local highs and lows. A bar is a local high when no bar within
// lookback on either side has a higher high; bars without a full window are skipped.
func (e Engine) Pivots(candles []domain.MarketCandle) (highs, lows []Pivot) {
	lb := e.cfg.Lookback
	if lb < 1 {
		lb = 1
	}

	for i := lb; i < len(candles)-lb; i++ {
		isHigh, isLow := true, true
		for j := i - lb; j <= i+lb && (isHigh || isLow); j++ {
			if j == i {
				continue
			}
			if candles[j].High.GreaterThan(candles[i].High) {
				isHigh = false
			}
			if candles[j].Low.LessThan(candles[i].Low) {
				isLow = false
			}
		}

		if isHigh {
			highs = append(highs, Pivot{Price: candles[i].High, Date: candles[i].OpenTime, Index: i})
		}
		if isLow {
			lows = append(lows, Pivot{Price: candles[i].Low, Date: candles[i].OpenTime, Index: i})
		}
	}

	return highs, lows
}

// Group merges pivots into levels. Pivots are ordered by date first so the
// first-seen price that keys each group does not depend on input order.
func (e Engine) Group(pivots []Pivot, levelType domain.LevelType) []domain.SupportResistanceLevel {
	ordered := make([]Pivot, len(pivots))
	copy(ordered, pivots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Index < ordered[j].Index
	})

	var groups []domain.SupportResistanceLevel
	for _, p := range ordered {
		idx := -1
		for gi, g := range groups {
			if e.within(p.Price, g.Price) {
				idx = gi
				break
			}
		}

		if idx < 0 {
			groups = append(groups, domain.SupportResistanceLevel{
				Price:         p.Price,
				Type:          levelType,
				Touches:       1,
				LastTouchDate: p.Date,
			})
			continue
		}

		groups[idx].Touches++
		if p.Date.After(groups[idx].LastTouchDate) {
			groups[idx].LastTouchDate = p.Date
		}
	}

	for i := range groups {
		groups[i].Strength = Strength(groups[i].Touches)
	}
	return groups
}

// Strength tiers a level by touch count.
func Strength(touches int) domain.LevelStrength {
	switch {
	case touches >= strongTouches:
		return domain.StrengthStrong
	case touches >= moderateTouches:
		return domain.StrengthModerate
	default:
		return domain.StrengthWeak
	}
}

// Levels returns support below and resistance above the last close.
// Resistance is nearest first ascending, support nearest first descending.
func (e Engine) Levels(candles []domain.MarketCandle) (support, resistance []domain.SupportResistanceLevel) {
	closePrice, ok := domain.LastClose(candles)
	if !ok {
		return nil, nil
	}

	highs, lows := e.Pivots(candles)

	for _, lvl := range e.Group(highs, domain.LevelResistance) {
		if lvl.Price.GreaterThan(closePrice) {
			resistance = append(resistance, lvl)
		}
	}
	sort.SliceStable(resistance, func(i, j int) bool {
		return resistance[i].Price.LessThan(resistance[j].Price)
	})

	for _, lvl := range e.Group(lows, domain.LevelSupport) {
		if lvl.Price.LessThan(closePrice) {
			support = append(support, lvl)
		}
	}
	sort.SliceStable(support, func(i, j int) bool {
		return support[i].Price.GreaterThan(support[j].Price)
	})

	return capLevels(support, e.cfg.MaxLevels), capLevels(resistance, e.cfg.MaxLevels)
}

// within reports whether price lies inside the relative threshold of key.
func (e Engine) within(price, key decimal.Decimal) bool {
	if !key.IsPositive() {
		return price.Equal(key)
	}
	return price.Sub(key).Abs().Div(key).LessThanOrEqual(e.cfg.GroupThreshold)
}

func capLevels(lvls []domain.SupportResistanceLevel, limit int) []domain.SupportResistanceLevel {
	if limit >= 0 && len(lvls) > limit {
		return lvls[:limit]
	}
	return lvls
}
