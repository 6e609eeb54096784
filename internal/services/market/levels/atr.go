package levels

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

// ATR averages the true range over the most recent period bars.
// Returns zero when fewer than period+1 bars are available.
func (e Engine) ATR(candles []domain.MarketCandle) decimal.Decimal {
	return ATR(candles, e.cfg.ATRPeriod)
}

// ATR averages the true range over the most recent period bars.
func ATR(candles []domain.MarketCandle, period int) decimal.Decimal {
	if period <= 0 || len(candles) < period+1 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for i := len(candles) - period; i < len(candles); i++ {
		sum = sum.Add(TrueRange(candles[i], candles[i-1].Close))
	}
	return sum.Div(decimal.NewFromInt(int64(period)))
}

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(c domain.MarketCandle, prevClose decimal.Decimal) decimal.Decimal {
	return decimal.Max(
		c.High.Sub(c.Low),
		c.High.Sub(prevClose).Abs(),
		c.Low.Sub(prevClose).Abs(),
	)
}

// ATRStop returns entry - atr*multiplier.
func (e Engine) ATRStop(entry, atr decimal.Decimal) decimal.Decimal {
	return entry.Sub(atr.Mul(e.cfg.ATRMultiplier))
}

// HybridStop takes the tighter of the ATR stop and a structural stop: just under
// support when known, else entry*(1-riskPct). A zero ATR leaves only the structural stop.
// The result always sits below entry.
func (e Engine) HybridStop(entry, atr decimal.Decimal, support domain.Optional[decimal.Decimal]) decimal.Decimal {
	pctStop := entry.Mul(decimal.NewFromInt(1).Sub(e.cfg.RiskPct))

	structural := pctStop
	if s, ok := support.Get(); ok && s.IsPositive() {
		structural = s.Mul(e.cfg.SupportBuffer)
	}

	stop := structural
	if atr.IsPositive() {
		stop = decimal.Max(e.ATRStop(entry, atr), structural)
	}

	if stop.GreaterThanOrEqual(entry) {
		return pctStop
	}
	return stop
}

// TakeProfits returns targets at the configured multiples of the risk entry-stop.
// Returns nil when stop is not below entry.
func (e Engine) TakeProfits(entry, stop decimal.Decimal) []decimal.Decimal {
	risk := entry.Sub(stop)
	if !risk.IsPositive() {
		return nil
	}

	targets := make([]decimal.Decimal, 0, len(e.cfg.TakeProfitMultiples))
	for _, m := range e.cfg.TakeProfitMultiples {
		targets = append(targets, entry.Add(risk.Mul(m)))
	}
	return targets
}
