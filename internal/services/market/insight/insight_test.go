package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

func baseInput() Input {
	return Input{
		Health: domain.VolumeHealthData{
			CurrentVolume: 1000,
			AverageVolume: 1000,
			HealthScore:   50,
			HealthStatus:  domain.HealthNormal,
			Trend:         domain.TrendNeutral,
			Baseline:      domain.BaselineObserved,
		},
		VWAD: domain.VWADData{
			VWAD:        10,
			Conviction:  domain.ConvictionNeutral,
			UpVolume:    550,
			DownVolume:  450,
			TotalVolume: 1000,
		},
		Concentration: domain.ConcentrationData{
			Concentration:      30,
			ConcentrationLevel: domain.ConcentrationNormal,
		},
	}
}

func TestInsights_MinimalOrder(t *testing.T) {
	got := NewGenerator(DefaultConfig()).Insights(baseInput())

	require.Equal(t, []string{
		"Volume health is Normal (score 50/100)",
		"Volume-weighted breadth is Neutral (VWAD 10.00)",
		"Top 5 stocks hold 30.00% of volume (Normal)",
	}, got)
}

func TestInsights_AllCategories(t *testing.T) {
	in := baseInput()
	in.Health.CurrentVolume = 2000
	in.Health.HealthScore = 100
	in.Health.HealthStatus = domain.HealthExplosive
	in.Health.Trend = domain.TrendUp
	in.VWAD = domain.VWADData{VWAD: 40, Conviction: domain.ConvictionBullish, UpVolume: 700, DownVolume: 300, TotalVolume: 1000}
	in.Leaders = []domain.VolumeLeader{
		{Symbol: "AAA", Volume: 500, RelativeVolume: 3.25, PriceChange: 4.5},
		{Symbol: "BBB", Volume: 400, RelativeVolume: 2},
		{Symbol: "CCC", Volume: 300, RelativeVolume: 0.8},
	}

	got := NewGenerator(DefaultConfig()).Insights(in)

	require.Equal(t, []string{
		"Volume health is Explosive (score 100/100)",
		"Volume is 2.0x the average, unusually active",
		"Volume is rising versus the previous period",
		"Volume-weighted breadth is Bullish (VWAD 40.00)",
		"70% of volume is in advancing stocks",
		"Top 5 stocks hold 30.00% of volume (Normal)",
		"AAA leads volume at 3.25x its average (+4.50%)",
		"2 of 3 leaders trade at 2x+ their average volume",
	}, got)
}

func TestInsights_ThinAndDeclining(t *testing.T) {
	in := baseInput()
	in.Health.CurrentVolume = 400
	in.Health.Trend = domain.TrendDown
	in.VWAD.UpVolume, in.VWAD.DownVolume = 200, 800

	got := NewGenerator(DefaultConfig()).Insights(in)

	assert.Contains(t, got, "Volume is only 0.4x the average, thin trading")
	assert.Contains(t, got, "Volume is falling versus the previous period")
	assert.Contains(t, got, "80% of volume is in declining stocks")
}

func TestInsights_NoBaselineSkipsRatio(t *testing.T) {
	in := baseInput()
	in.Health.AverageVolume = 0
	in.Health.Baseline = domain.BaselineMissing

	got := NewGenerator(DefaultConfig()).Insights(in)
	assert.Len(t, got, 3)
}

func TestRecommend(t *testing.T) {
	gen := NewGenerator(DefaultConfig())

	tests := []struct {
		name          string
		health        int
		conviction    domain.Conviction
		concentration domain.ConcentrationLevel
		score         int
		action        domain.RecommendationAction
	}{
		{name: "all supportive", health: 80, conviction: domain.ConvictionBullish, concentration: domain.ConcentrationHealthy, score: 100, action: domain.RecommendationBuyStrong},
		{name: "strong health and bullish", health: 70, conviction: domain.ConvictionBullish, concentration: domain.ConcentrationRisky, score: 80, action: domain.RecommendationBuyStrong},
		{name: "moderate", health: 45, conviction: domain.ConvictionBullish, concentration: domain.ConcentrationNormal, score: 60, action: domain.RecommendationBuyModerate},
		{name: "mixed", health: 75, conviction: domain.ConvictionNeutral, concentration: domain.ConcentrationNormal, score: 40, action: domain.RecommendationHold},
		{name: "weak", health: 20, conviction: domain.ConvictionBearish, concentration: domain.ConcentrationHealthy, score: 20, action: domain.RecommendationWait},
		{name: "nothing", health: 10, conviction: domain.ConvictionBearish, concentration: domain.ConcentrationRisky, score: 0, action: domain.RecommendationWait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.Health.HealthScore = tt.health
			in.VWAD.Conviction = tt.conviction
			in.Concentration.ConcentrationLevel = tt.concentration

			rec := gen.Recommend(in)
			assert.Equal(t, tt.score, rec.Score)
			assert.Equal(t, tt.score, rec.Confidence)
			assert.Equal(t, tt.action, rec.Action)
		})
	}
}
