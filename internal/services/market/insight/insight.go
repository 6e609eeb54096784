// Package insight turns computed volume metrics into readable insights and a
// scored trading recommendation.
package insight

import (
	"fmt"

	"github.com/vadiminshakov/marketpulse/internal/domain"
)

// Config thresholds and point weights.
type Config struct {
	// RatioHigh and RatioLow bound the volume-vs-average ratio worth mentioning
	RatioHigh float64 `yaml:"ratio_high"`
	RatioLow  float64 `yaml:"ratio_low"`
	// SkewShare is the share of total volume one side must hold to be called dominant
	SkewShare float64 `yaml:"skew_share"`
	// UnusualRelativeVolume marks leaders trading well above their average
	UnusualRelativeVolume float64 `yaml:"unusual_relative_volume"`

	HealthHighScore  int `yaml:"health_high_score"`
	HealthMidScore   int `yaml:"health_mid_score"`
	HealthHighPoints int `yaml:"health_high_points"`
	HealthMidPoints  int `yaml:"health_mid_points"`
	BullishPoints    int `yaml:"bullish_points"`
	HealthyPoints    int `yaml:"healthy_points"`

	BuyStrongScore   int `yaml:"buy_strong_score"`
	BuyModerateScore int `yaml:"buy_moderate_score"`
	HoldScore        int `yaml:"hold_score"`
}

// DefaultConfig returns the default insight thresholds.
func DefaultConfig() Config {
	return Config{
		RatioHigh:             1.5,
		RatioLow:              0.5,
		SkewShare:             0.6,
		UnusualRelativeVolume: 2,
		HealthHighScore:       70,
		HealthMidScore:        40,
		HealthHighPoints:      40,
		HealthMidPoints:       20,
		BullishPoints:         40,
		HealthyPoints:         20,
		BuyStrongScore:        70,
		BuyModerateScore:      50,
		HoldScore:             30,
	}
}

// Input computed market metrics.
type Input struct {
	Health        domain.VolumeHealthData
	VWAD          domain.VWADData
	Concentration domain.ConcentrationData
	Leaders       []domain.VolumeLeader
}

// Generator maps metrics to insights.
type Generator struct {
	cfg Config
}

// NewGenerator creates a Generator.
func NewGenerator(cfg Config) Generator {
	return Generator{cfg: cfg}
}

// Insights returns insight lines in a fixed order: health, ratio, trend,
// conviction, skew, concentration, top leader, unusual-volume count.
func (g Generator) Insights(in Input) []string {
	insights := []string{
		fmt.Sprintf("Volume health is %s (score %d/100)", in.Health.HealthStatus, in.Health.HealthScore),
	}

	if in.Health.Baseline != domain.BaselineMissing {
		ratio := in.Health.Ratio()
		switch {
		case ratio >= g.cfg.RatioHigh:
			insights = append(insights, fmt.Sprintf("Volume is %.1fx the average, unusually active", ratio))
		case ratio <= g.cfg.RatioLow:
			insights = append(insights, fmt.Sprintf("Volume is only %.1fx the average, thin trading", ratio))
		}
	}

	switch in.Health.Trend {
	case domain.TrendUp:
		insights = append(insights, "Volume is rising versus the previous period")
	case domain.TrendDown:
		insights = append(insights, "Volume is falling versus the previous period")
	}

	insights = append(insights, fmt.Sprintf("Volume-weighted breadth is %s (VWAD %.2f)", in.VWAD.Conviction, in.VWAD.VWAD))

	if total := in.VWAD.TotalVolume; total > 0 {
		upShare, downShare := in.VWAD.UpVolume/total, in.VWAD.DownVolume/total
		switch {
		case upShare >= g.cfg.SkewShare:
			insights = append(insights, fmt.Sprintf("%.0f%% of volume is in advancing stocks", upShare*100))
		case downShare >= g.cfg.SkewShare:
			insights = append(insights, fmt.Sprintf("%.0f%% of volume is in declining stocks", downShare*100))
		}
	}

	insights = append(insights, fmt.Sprintf("Top 5 stocks hold %.2f%% of volume (%s)",
		in.Concentration.Concentration, in.Concentration.ConcentrationLevel))

	if len(in.Leaders) > 0 {
		top := in.Leaders[0]
		insights = append(insights, fmt.Sprintf("%s leads volume at %.2fx its average (%+.2f%%)",
			top.Symbol, top.RelativeVolume, top.PriceChange))

		unusual := 0
		for _, l := range in.Leaders {
			if l.RelativeVolume >= g.cfg.UnusualRelativeVolume {
				unusual++
			}
		}
		insights = append(insights, fmt.Sprintf("%d of %d leaders trade at %.0fx+ their average volume",
			unusual, len(in.Leaders), g.cfg.UnusualRelativeVolume))
	}

	return insights
}

// Recommend sums capped points for health, conviction and concentration.
func (g Generator) Recommend(in Input) domain.Recommendation {
	score := 0

	switch {
	case in.Health.HealthScore >= g.cfg.HealthHighScore:
		score += g.cfg.HealthHighPoints
	case in.Health.HealthScore >= g.cfg.HealthMidScore:
		score += g.cfg.HealthMidPoints
	}

	if in.VWAD.Conviction == domain.ConvictionBullish {
		score += g.cfg.BullishPoints
	}

	if in.Concentration.ConcentrationLevel == domain.ConcentrationHealthy {
		score += g.cfg.HealthyPoints
	}

	score = clamp(score, 0, 100)

	return domain.Recommendation{
		Action:     g.action(score),
		Score:      score,
		Confidence: score,
	}
}

func (g Generator) action(score int) domain.RecommendationAction {
	switch {
	case score >= g.cfg.BuyStrongScore:
		return domain.RecommendationBuyStrong
	case score >= g.cfg.BuyModerateScore:
		return domain.RecommendationBuyModerate
	case score >= g.cfg.HoldScore:
		return domain.RecommendationHold
	default:
		return domain.RecommendationWait
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
