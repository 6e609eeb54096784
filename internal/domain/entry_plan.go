package domain

import "github.com/shopspring/decimal"

// PriceLevel price with its rationale.
type PriceLevel struct {
	Price     decimal.Decimal `json:"price"`
	Rationale string          `json:"rationale"`
}

// PriceTarget price relative to the buy price.
type PriceTarget struct {
	Price decimal.Decimal `json:"price"`
	// PercentageFromBuy signed distance from the buy price in percent
	PercentageFromBuy decimal.Decimal `json:"percentage_from_buy"`
	Rationale         string          `json:"rationale"`
}

// PositionSize fraction of the portfolio in [0,1].
type PositionSize struct {
	Percentage decimal.Decimal `json:"percentage"`
	Rationale  string          `json:"rationale"`
}

// RiskReward reward per unit of risk.
type RiskReward struct {
	Ratio decimal.Decimal `json:"ratio"`
	// Label formatted as "1:<ratio>"
	Label string `json:"label"`
}

// EntryPlan concrete long trade plan.
type EntryPlan struct {
	BuyAt        PriceLevel   `json:"buy_at"`
	StopLoss     PriceTarget  `json:"stop_loss"`
	Target       PriceTarget  `json:"target"`
	PositionSize PositionSize `json:"position_size"`
	RiskReward   RiskReward   `json:"risk_reward"`
	TimeHorizon  string       `json:"time_horizon"`
}
