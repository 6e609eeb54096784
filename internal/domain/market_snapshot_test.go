package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports_SnakeCaseJSON(t *testing.T) {
	market := MarketReport{
		Health:        VolumeHealthData{CurrentVolume: 1500, AverageVolume: 1000, HealthScore: 75, Baseline: BaselineObserved},
		VWAD:          VWADData{VWAD: 11.11, Conviction: ConvictionNeutral},
		Concentration: ConcentrationData{Top5Volume: 10, ConcentrationLevel: ConcentrationRisky},
		Leaders:       []VolumeLeader{{Symbol: "AAA", RelativeVolume: 2}},
	}

	data, err := json.Marshal(market)
	require.NoError(t, err)

	var decoded struct {
		Health        map[string]any  `json:"health"`
		VWAD          map[string]any  `json:"vwad"`
		Concentration map[string]any  `json:"concentration"`
		Leaders       json.RawMessage `json:"leaders"`
		VolumeTrend   *string         `json:"volume_trend"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 1500.0, decoded.Health["current_volume"])
	assert.Equal(t, 75.0, decoded.Health["health_score"])
	assert.Equal(t, "observed", decoded.Health["baseline"])
	assert.NotContains(t, decoded.Health, "CurrentVolume")
	assert.Equal(t, 11.11, decoded.VWAD["vwad"])
	assert.Equal(t, "Risky", decoded.Concentration["concentration_level"])
	assert.Contains(t, string(decoded.Leaders), `"relative_volume":2`)
	require.NotNil(t, decoded.VolumeTrend)
}

func TestStockReport_JSONRoundTrip(t *testing.T) {
	report := StockReport{
		Symbol:     "AAA",
		Close:      decimal.RequireFromString("11.5"),
		HybridStop: decimal.RequireFromString("10.58"),
		Technical:  TechnicalSummary{Return5D: Some(-1.5), EMA20: Some(decimal.RequireFromString("11.2"))},
		Diagnostics: StockDiagnosticResult{
			OverallAction: ActionTrim,
			RedFlags:      []DiagnosticFlag{{Category: CategorySmartMoney, Severity: SeverityRed, Signal: "Foreign Strong Sell"}},
			FlagCounts:    NewFlagCounts(),
		},
		EntryPlan: Some(EntryPlan{
			BuyAt:      PriceLevel{Price: decimal.RequireFromString("11.27")},
			RiskReward: RiskReward{Ratio: decimal.RequireFromString("2.1"), Label: "1:2.1"},
		}),
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)
	text := string(data)
	for _, key := range []string{`"hybrid_stop"`, `"return_5d"`, `"ema20"`, `"overall_action"`, `"red_flags"`,
		`"by_category"`, `"smart_money"`, `"entry_plan"`, `"buy_at"`, `"risk_reward"`, `"entry_plan_error"`} {
		assert.Contains(t, text, key)
	}
	assert.NotContains(t, text, `"HybridStop"`)

	var decoded StockReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "AAA", decoded.Symbol)
	assert.True(t, decoded.HybridStop.Equal(report.HybridStop))
	assert.Equal(t, Some(-1.5), decoded.Technical.Return5D)
	assert.Equal(t, ActionTrim, decoded.Diagnostics.OverallAction)
	plan, ok := decoded.EntryPlan.Get()
	require.True(t, ok)
	assert.Equal(t, "1:2.1", plan.RiskReward.Label)
}
