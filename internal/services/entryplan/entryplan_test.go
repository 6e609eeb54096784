package entryplan

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	plan, err := NewCalculator(DefaultConfig()).Calculate(Input{
		CurrentPrice:   d("100"),
		SupportLevel:   d("95"),
		TargetEstimate: d("130"),
		Decision:       domain.DecisionBuy,
	})
	require.NoError(t, err)

	assert.True(t, plan.BuyAt.Price.Equal(d("98")), plan.BuyAt.Price.String())
	assert.True(t, plan.StopLoss.Price.Equal(d("86.24")), plan.StopLoss.Price.String())
	assert.True(t, plan.StopLoss.PercentageFromBuy.Equal(d("-12")))
	assert.True(t, plan.Target.Price.Equal(d("122.5")), plan.Target.Price.String())
	assert.True(t, plan.Target.PercentageFromBuy.Equal(d("25")))
	assert.True(t, plan.PositionSize.Percentage.Equal(d("0.05")))
	assert.True(t, plan.RiskReward.Ratio.Equal(d("2.08")), plan.RiskReward.Ratio.String())
	assert.Equal(t, "1:2.1", plan.RiskReward.Label)
	assert.Equal(t, "Buy near support level with margin of safety", plan.BuyAt.Rationale)
	assert.Equal(t, "3-6 months", plan.TimeHorizon)
}

func TestCalculate_SupportAboveProximity(t *testing.T) {
	plan, err := NewCalculator(DefaultConfig()).Calculate(Input{
		CurrentPrice:   d("100"),
		SupportLevel:   d("99"),
		TargetEstimate: d("110"),
		Decision:       domain.DecisionHold,
	})
	require.NoError(t, err)

	assert.True(t, plan.BuyAt.Price.Equal(d("99")))
	assert.True(t, plan.StopLoss.Price.Equal(d("87.12")))
	// target estimate below the minimum gain is raised to it
	assert.True(t, plan.Target.Price.Equal(d("118.8")))
	assert.True(t, plan.PositionSize.Percentage.Equal(d("0.03")))
}

func TestCalculate_PositionSizeTiers(t *testing.T) {
	tests := []struct {
		name      string
		proximity string
		decision  domain.Decision
		expected  string
	}{
		{name: "deep discount", proximity: "0.10", decision: domain.DecisionBuy, expected: "0.10"},
		{name: "modest discount", proximity: "0.04", decision: domain.DecisionBuy, expected: "0.08"},
		{name: "near price", proximity: "0.02", decision: domain.DecisionBuy, expected: "0.05"},
		{name: "hold", proximity: "0.10", decision: domain.DecisionHold, expected: "0.03"},
		{name: "pass", proximity: "0.10", decision: domain.DecisionPass, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BuyProximity = d(tt.proximity)
			plan, err := NewCalculator(cfg).Calculate(Input{
				CurrentPrice:   d("100"),
				SupportLevel:   d("80"),
				TargetEstimate: d("200"),
				Decision:       tt.decision,
			})
			require.NoError(t, err)
			assert.True(t, plan.PositionSize.Percentage.Equal(d(tt.expected)), plan.PositionSize.Percentage.String())
		})
	}
}

func TestCalculate_Validation(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	valid := Input{CurrentPrice: d("100"), SupportLevel: d("95"), TargetEstimate: d("120"), Decision: domain.DecisionBuy}

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{name: "negative current price", mutate: func(in *Input) { in.CurrentPrice = d("-1") }},
		{name: "zero current price", mutate: func(in *Input) { in.CurrentPrice = decimal.Zero }},
		{name: "zero support", mutate: func(in *Input) { in.SupportLevel = decimal.Zero }},
		{name: "negative target", mutate: func(in *Input) { in.TargetEstimate = d("-5") }},
		{name: "unknown decision", mutate: func(in *Input) { in.Decision = "SELL" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := calc.Calculate(in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCalculate_Invariants(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	rng := rand.New(rand.NewSource(42))
	decisions := []domain.Decision{domain.DecisionBuy, domain.DecisionHold, domain.DecisionPass}

	for i := 0; i < 500; i++ {
		current := decimal.NewFromFloat(0.5 + rng.Float64()*1000).Round(2)
		support := current.Mul(decimal.NewFromFloat(0.5 + rng.Float64()*0.7)).Round(2)
		target := current.Mul(decimal.NewFromFloat(0.5 + rng.Float64()*2)).Round(2)

		plan, err := calc.Calculate(Input{
			CurrentPrice:   current,
			SupportLevel:   support,
			TargetEstimate: target,
			Decision:       decisions[i%len(decisions)],
		})
		require.NoError(t, err)

		require.True(t, plan.StopLoss.Price.LessThan(plan.BuyAt.Price), "stop %s buy %s", plan.StopLoss.Price, plan.BuyAt.Price)
		require.True(t, plan.BuyAt.Price.LessThan(plan.Target.Price), "buy %s target %s", plan.BuyAt.Price, plan.Target.Price)
		require.True(t, plan.RiskReward.Ratio.IsPositive())
		require.True(t, plan.PositionSize.Percentage.GreaterThanOrEqual(decimal.Zero))
		require.True(t, plan.PositionSize.Percentage.LessThanOrEqual(decimal.NewFromInt(1)))
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	in := Input{CurrentPrice: d("57.3"), SupportLevel: d("51.1"), TargetEstimate: d("70"), Decision: domain.DecisionBuy}

	first, err := calc.Calculate(in)
	require.NoError(t, err)
	second, err := calc.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
