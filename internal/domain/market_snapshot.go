package domain

import "github.com/shopspring/decimal"

// MarketSnapshot market-wide observations for one refresh.
type MarketSnapshot struct {
	Stocks         []StockObservation `json:"stocks"`
	CurrentVolume  float64            `json:"current_volume"`
	AverageVolume  Optional[float64]  `json:"average_volume"`
	PreviousVolume Optional[float64]  `json:"previous_volume"`
	// VolumeHistory is the daily market volume, oldest first
	VolumeHistory []float64 `json:"volume_history"`
}

// StockSnapshot observations and sibling summaries for one stock.
type StockSnapshot struct {
	Symbol         string                    `json:"symbol"`
	Volume         float64                   `json:"volume"`
	AverageVolume  Optional[float64]         `json:"average_volume"`
	Candles        []MarketCandle            `json:"candles"`
	SmartMoney     SmartMoneySummary         `json:"smart_money"`
	Sector         SectorSummary             `json:"sector"`
	Technical      TechnicalSummary          `json:"technical"`
	Valuation      ValuationSummary          `json:"valuation"`
	TargetEstimate Optional[decimal.Decimal] `json:"target_estimate"`
	Decision       Optional[Decision]        `json:"decision"`
}

// RecommendationAction scored market stance.
type RecommendationAction string

const (
	RecommendationBuyStrong   RecommendationAction = "BUY - strong support"
	RecommendationBuyModerate RecommendationAction = "BUY - moderate support"
	RecommendationHold        RecommendationAction = "HOLD - mixed signals"
	RecommendationWait        RecommendationAction = "WAIT - weak/bearish"
)

// Recommendation weighted trading recommendation.
type Recommendation struct {
	Action     RecommendationAction `json:"action"`
	Score      int                  `json:"score"`
	Confidence int                  `json:"confidence"`
}

// MarketReport market-level analytics.
type MarketReport struct {
	Health         VolumeHealthData  `json:"health"`
	VolumeTrend    Trend             `json:"volume_trend"`
	VWAD           VWADData          `json:"vwad"`
	Concentration  ConcentrationData `json:"concentration"`
	Leaders        []VolumeLeader    `json:"leaders"`
	Insights       []string          `json:"insights"`
	Recommendation Recommendation    `json:"recommendation"`
}

// StockReport stock-level analytics.
type StockReport struct {
	Symbol         string                   `json:"symbol"`
	Close          decimal.Decimal          `json:"close"`
	Support        []SupportResistanceLevel `json:"support"`
	Resistance     []SupportResistanceLevel `json:"resistance"`
	ATR            decimal.Decimal          `json:"atr"`
	ATRStop        decimal.Decimal          `json:"atr_stop"`
	HybridStop     decimal.Decimal          `json:"hybrid_stop"`
	TakeProfits    []decimal.Decimal        `json:"take_profits"`
	Health         VolumeHealthData         `json:"health"`
	RelativeVolume float64                  `json:"relative_volume"`
	Technical      TechnicalSummary         `json:"technical"`
	Diagnostics    StockDiagnosticResult    `json:"diagnostics"`
	EntryPlan      Optional[EntryPlan]      `json:"entry_plan"`
	// EntryPlanError explains why no plan was produced
	EntryPlanError string `json:"entry_plan_error"`
}
