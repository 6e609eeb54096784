package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

func TestMarket(t *testing.T) {
	out := Market(domain.MarketReport{
		Health: domain.VolumeHealthData{
			HealthScore:  75,
			HealthStatus: domain.HealthStrong,
			Trend:        domain.TrendUp,
			Baseline:     domain.BaselineObserved,
		},
		VolumeTrend:   domain.TrendNeutral,
		VWAD:          domain.VWADData{VWAD: 77.78, Conviction: domain.ConvictionBullish},
		Concentration: domain.ConcentrationData{Concentration: 42.5, ConcentrationLevel: domain.ConcentrationRisky},
		Leaders: []domain.VolumeLeader{
			{Symbol: "AAA", Volume: 500000, RelativeVolume: 2, PriceChange: 2.5},
		},
		Insights:       []string{"Volume health is Strong (score 75/100)"},
		Recommendation: domain.Recommendation{Action: domain.RecommendationBuyStrong, Score: 80, Confidence: 80},
	})

	assert.Contains(t, out, "MARKET")
	assert.Contains(t, out, "Strong (75/100, baseline observed)")
	assert.Contains(t, out, "VWAD: 77.78 Bullish")
	assert.Contains(t, out, "42.50% Risky")
	assert.Contains(t, out, "AAA")
	assert.Contains(t, out, "2.00x")
	assert.Contains(t, out, "Volume health is Strong (score 75/100)")
	assert.Contains(t, out, "BUY - strong support (score 80, confidence 80%)")
}

func TestStock(t *testing.T) {
	out := Stock(domain.StockReport{
		Symbol:      "AAA",
		Close:       decimal.NewFromInt(100),
		ATR:         decimal.RequireFromString("2.5"),
		ATRStop:     decimal.NewFromInt(95),
		HybridStop:  decimal.NewFromInt(95),
		TakeProfits: []decimal.Decimal{decimal.RequireFromString("107.5"), decimal.NewFromInt(115)},
		Technical: domain.TechnicalSummary{
			EMA20:       domain.Some(decimal.RequireFromString("98.4321")),
			EMA50:       domain.Some(decimal.RequireFromString("95.1")),
			RSI14:       domain.Some(71.25),
			Return5D:    domain.Some(-1.5),
			Position52W: domain.Some(88.0),
		},
		Support: []domain.SupportResistanceLevel{
			{Price: decimal.NewFromInt(96), Type: domain.LevelSupport, Strength: domain.StrengthModerate, Touches: 2},
		},
		Diagnostics: domain.StockDiagnosticResult{
			OverallAction: domain.ActionTrim,
			RiskLevel:     35,
			Summary:       "1 red, 1 yellow flags: TRIM",
			RedFlags: []domain.DiagnosticFlag{{
				Category:    domain.CategorySmartMoney,
				Severity:    domain.SeverityRed,
				Signal:      "Foreign Strong Sell",
				Description: "Foreign net selling of 12,000,000,000",
				Action:      "Reduce exposure",
			}},
			YellowFlags: []domain.DiagnosticFlag{{
				Category: domain.CategoryTechnical,
				Severity: domain.SeverityYellow,
				Signal:   "Overbought RSI",
			}},
		},
		EntryPlan: domain.Some(domain.EntryPlan{
			BuyAt:        domain.PriceLevel{Price: decimal.NewFromInt(98), Rationale: "near support"},
			StopLoss:     domain.PriceTarget{Price: decimal.RequireFromString("86.24"), PercentageFromBuy: decimal.NewFromInt(-12)},
			Target:       domain.PriceTarget{Price: decimal.RequireFromString("122.5"), PercentageFromBuy: decimal.NewFromInt(25)},
			PositionSize: domain.PositionSize{Percentage: decimal.RequireFromString("0.05")},
			RiskReward:   domain.RiskReward{Ratio: decimal.RequireFromString("2.08"), Label: "1:2.1"},
			TimeHorizon:  "3-6 months",
		}),
	})

	assert.Contains(t, out, "Close 100.00")
	assert.Contains(t, out, "Take profit: 107.50 / 115.00")
	assert.Contains(t, out, "EMA20 98.43  EMA50 95.10  RSI14 71.25")
	assert.Contains(t, out, "Return 5d -1.50%  20d n/a  52w position 88.00%")
	assert.Contains(t, out, "96.00  moderate, 2 touches")
	assert.Contains(t, out, "resistance none")
	assert.Contains(t, out, "Trim position")
	assert.Contains(t, out, "1 red, 1 yellow flags: TRIM")
	assert.Contains(t, out, "[smart_money] Foreign Strong Sell")
	assert.Contains(t, out, "-> Reduce exposure")
	assert.Contains(t, out, "[technical] Overbought RSI")
	assert.Contains(t, out, "86.24 (-12.00%)")
	assert.Contains(t, out, "122.50 (+25.00%)")
	assert.Contains(t, out, "Position    5%")
	assert.Contains(t, out, "1:2.1")
	assert.Contains(t, out, "3-6 months")
}

func TestStock_NoEntryPlan(t *testing.T) {
	out := Stock(domain.StockReport{Symbol: "BBB", EntryPlanError: "no decision"})

	assert.Contains(t, out, "none: no decision")
	assert.Contains(t, out, "support    none")
	assert.Contains(t, out, "EMA20 n/a  EMA50 n/a  RSI14 n/a")
	assert.NotContains(t, out, "Take profit")
}
