// Package indicators provides technical analysis indicators (EMA, RSI) and
// the per-stock technical snapshot derived from daily candles.
package indicators

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

// TradingDaysPerYear bounds the 52-week window.
const TradingDaysPerYear = 252

var hundred = decimal.NewFromInt(100)

// CalculateEMA calculates the Exponential Moving Average for the given period.
func CalculateEMA(closes []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 || len(closes) < period {
		return nil, errors.Errorf("not enough data points: need %d, got %d", period, len(closes))
	}

	ema := trend.NewEmaWithPeriod[float64](period)
	inputChan := helper.SliceToChan(decimalsToFloat64(closes))
	outputChan := ema.Compute(inputChan)

	return float64ToDecimals(helper.ChanToSlice(outputChan))
}

// CalculateRSI calculates the Relative Strength Index for the given period.
func CalculateRSI(closes []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 || len(closes) < period+1 {
		return nil, errors.Errorf("not enough data points for RSI: need %d, got %d", period+1, len(closes))
	}

	rsi := momentum.NewRsiWithPeriod[float64](period)
	inputChan := helper.SliceToChan(decimalsToFloat64(closes))
	outputChan := rsi.Compute(inputChan)

	return float64ToDecimals(helper.ChanToSlice(outputChan))
}

// Return computes the percent change of the last close against the close
// lookback bars earlier, rounded to 2 decimals.
func Return(closes []decimal.Decimal, lookback int) (float64, bool) {
	if lookback <= 0 || len(closes) <= lookback {
		return 0, false
	}
	base := closes[len(closes)-1-lookback]
	if !base.IsPositive() {
		return 0, false
	}
	pct := closes[len(closes)-1].Sub(base).Div(base).Mul(hundred).Round(2)
	f, _ := pct.Float64()
	return f, true
}

// Position52W places the last close inside the high/low range of the last
// year of candles: 0 at the low, 100 at the high.
func Position52W(candles []domain.MarketCandle) (float64, bool) {
	if len(candles) == 0 {
		return 0, false
	}
	window := candles
	if len(window) > TradingDaysPerYear {
		window = window[len(window)-TradingDaysPerYear:]
	}

	low, high := window[0].Low, window[0].High
	for _, c := range window[1:] {
		low = decimal.Min(low, c.Low)
		high = decimal.Max(high, c.High)
	}
	span := high.Sub(low)
	if !span.IsPositive() {
		return 0, false
	}

	last := window[len(window)-1].Close
	pos := last.Sub(low).Div(span).Mul(hundred)
	pos = decimal.Max(decimal.Zero, decimal.Min(hundred, pos)).Round(2)
	f, _ := pos.Float64()
	return f, true
}

// Technical builds the technical snapshot of a stock from its daily candles.
// Indicators without enough history stay absent.
func Technical(candles []domain.MarketCandle) domain.TechnicalSummary {
	var summary domain.TechnicalSummary
	closes := domain.Closes(candles)

	if r, ok := Return(closes, 5); ok {
		summary.Return5D = domain.Some(r)
	}
	if r, ok := Return(closes, 20); ok {
		summary.Return20D = domain.Some(r)
	}
	if p, ok := Position52W(candles); ok {
		summary.Position52W = domain.Some(p)
	}
	if v, ok := lastValue(CalculateRSI(closes, 14)); ok {
		f, _ := v.Round(2).Float64()
		summary.RSI14 = domain.Some(f)
	}
	if v, ok := lastValue(CalculateEMA(closes, 20)); ok {
		summary.EMA20 = domain.Some(v.Round(4))
	}
	if v, ok := lastValue(CalculateEMA(closes, 50)); ok {
		summary.EMA50 = domain.Some(v.Round(4))
	}

	return summary
}

func lastValue(values []decimal.Decimal, err error) (decimal.Decimal, bool) {
	if err != nil || len(values) == 0 {
		return decimal.Zero, false
	}
	return values[len(values)-1], true
}

// decimalsToFloat64 converts a slice of decimal.Decimal to []float64.
func decimalsToFloat64(decimals []decimal.Decimal) []float64 {
	result := make([]float64, len(decimals))
	for i, d := range decimals {
		result[i], _ = d.Float64()
	}
	return result
}

// float64ToDecimals converts a slice of float64 to []decimal.Decimal.
// A flat series yields NaN from ratio-based indicators, reported as an error.
func float64ToDecimals(floats []float64) ([]decimal.Decimal, error) {
	result := make([]decimal.Decimal, len(floats))
	for i, f := range floats {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.Errorf("non-finite indicator value at %d", i)
		}
		result[i] = decimal.NewFromFloat(f)
	}
	return result, nil
}
