package domain

// HealthStatus band of the volume health score.
type HealthStatus string

const (
	HealthAnemic    HealthStatus = "Anemic"
	HealthNormal    HealthStatus = "Normal"
	HealthStrong    HealthStatus = "Strong"
	HealthExplosive HealthStatus = "Explosive"
)

// BaselineSource tells where an average-volume baseline came from.
type BaselineSource string

const (
	// BaselineObserved the caller supplied a real average.
	BaselineObserved BaselineSource = "observed"
	// BaselineFallback a configured estimate replaced the missing average.
	BaselineFallback BaselineSource = "fallback"
	// BaselineMissing no usable baseline, the result is neutral.
	BaselineMissing BaselineSource = "missing"
)

// VolumeHealthData current volume measured against its average.
type VolumeHealthData struct {
	// CurrentVolume is the volume of the current session.
	CurrentVolume float64 `json:"current_volume"`

	// AverageVolume is the baseline the score was computed against.
	AverageVolume float64 `json:"average_volume"`

	// HealthScore is round(current/average*50) clamped to [0,100].
	HealthScore  int          `json:"health_score"`
	HealthStatus HealthStatus `json:"health_status"`

	// Trend compares current volume to the previous period.
	Trend    Trend          `json:"trend"`
	Baseline BaselineSource `json:"baseline"`
}

// Ratio returns current/average, 0 when there is no baseline.
func (v VolumeHealthData) Ratio() float64 {
	if v.AverageVolume <= 0 {
		return 0
	}
	return v.CurrentVolume / v.AverageVolume
}

// Conviction direction of volume-weighted breadth.
type Conviction string

const (
	ConvictionBullish Conviction = "Bullish"
	ConvictionBearish Conviction = "Bearish"
	ConvictionNeutral Conviction = "Neutral"
)

// VWADData volume-weighted advance/decline.
type VWADData struct {
	// VWAD is (up-down)/total*100 rounded to 2 decimals
	VWAD        float64    `json:"vwad"`
	Conviction  Conviction `json:"conviction"`
	UpVolume    float64    `json:"up_volume"`
	DownVolume  float64    `json:"down_volume"`
	TotalVolume float64    `json:"total_volume"`
}

// ConcentrationLevel liquidity risk band.
type ConcentrationLevel string

const (
	ConcentrationHealthy ConcentrationLevel = "Healthy"
	ConcentrationNormal  ConcentrationLevel = "Normal"
	ConcentrationRisky   ConcentrationLevel = "Risky"
)

// ConcentrationData share of volume held by the most active stocks.
type ConcentrationData struct {
	Top5Volume         float64            `json:"top5_volume"`
	TotalVolume        float64            `json:"total_volume"`
	Concentration      float64            `json:"concentration"`
	ConcentrationLevel ConcentrationLevel `json:"concentration_level"`
}

// StockObservation one stock's volume and price change for a session.
type StockObservation struct {
	Symbol string  `json:"symbol"`
	Volume float64 `json:"volume"`
	// Change is the price change in percent
	Change        float64           `json:"change"`
	AverageVolume Optional[float64] `json:"average_volume"`
}

// VolumeLeader an actively traded stock.
type VolumeLeader struct {
	Symbol         string         `json:"symbol"`
	Volume         float64        `json:"volume"`
	RelativeVolume float64        `json:"relative_volume"`
	PriceChange    float64        `json:"price_change"`
	Baseline       BaselineSource `json:"baseline"`
}
