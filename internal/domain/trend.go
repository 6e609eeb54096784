package domain

// Trend qualitative direction of a time series.
type Trend string

const (
	TrendUp      Trend = "Up"
	TrendDown    Trend = "Down"
	TrendNeutral Trend = "Neutral"
)

// Title returns a human-readable representation.
func (t Trend) Title() string {
	switch t {
	case TrendUp:
		return "Rising"
	case TrendDown:
		return "Falling"
	default:
		return "Flat"
	}
}
