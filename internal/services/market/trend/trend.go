// Package trend classifies numeric time series as rising, falling or flat.
package trend

import "github.com/vadiminshakov/marketpulse/internal/domain"

const defaultThresholdPercent = 5

// Number element types a series may hold.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Config thresholds for trend classification.
type Config struct {
	// ThresholdPercent is the normalized slope, in percent of the mean, beyond which a series trends
	ThresholdPercent float64 `yaml:"threshold_percent"`
}

// DefaultConfig returns the default trend thresholds.
func DefaultConfig() Config {
	return Config{ThresholdPercent: defaultThresholdPercent}
}

// Detector classifies series by linear-regression slope.
type Detector struct {
	cfg Config
}

// NewDetector creates a Detector.
func NewDetector(cfg Config) Detector {
	return Detector{cfg: cfg}
}

// Detect classifies values with the default configuration.
func Detect[T Number](values []T) domain.Trend {
	return Classify(NewDetector(DefaultConfig()), values)
}

// Classify classifies values with d's configuration.
func Classify[T Number](d Detector, values []T) domain.Trend {
	ys := make([]float64, len(values))
	for i, v := range values {
		ys[i] = float64(v)
	}
	return d.Detect(ys)
}

// Detect returns Up when the slope exceeds the threshold, Down below its negative, Neutral otherwise.
func (d Detector) Detect(values []float64) domain.Trend {
	slopePct, ok := SlopePercent(values)
	if !ok {
		return domain.TrendNeutral
	}

	switch {
	case slopePct > d.cfg.ThresholdPercent:
		return domain.TrendUp
	case slopePct < -d.cfg.ThresholdPercent:
		return domain.TrendDown
	default:
		return domain.TrendNeutral
	}
}

// SlopePercent returns the least-squares slope against the index as a percentage of the mean.
// ok is false for fewer than two points or a zero mean.
func SlopePercent(values []float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}

	xMean := float64(n-1) / 2
	var yMean float64
	for _, y := range values {
		yMean += y
	}
	yMean /= float64(n)

	var num, den float64
	for i, y := range values {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 || yMean == 0 {
		return 0, false
	}

	return num / den / yMean * 100, true
}
