package domain

import "github.com/shopspring/decimal"

// SmartMoneySummary investor-flow figures from the flow analysis.
type SmartMoneySummary struct {
	// ForeignNet is net buying by foreign investors (negative for selling)
	ForeignNet     Optional[float64] `json:"foreign_net"`
	InstitutionNet Optional[float64] `json:"institution_net"`
	// Score is the 0-100 smart-money score
	Score            Optional[float64] `json:"score"`
	CumulativeFlow5D Optional[float64] `json:"cumulative_flow_5d"`
}

// SectorSummary sector performance and ranking presence.
type SectorSummary struct {
	// SectorChange is the sector's price change in percent
	SectorChange Optional[float64] `json:"sector_change"`
	// LoserRank is the 1-based position in the losers ranking
	LoserRank  Optional[int]  `json:"loser_rank"`
	InRankings Optional[bool] `json:"in_rankings"`
}

// TechnicalSummary technical indicators for one stock.
type TechnicalSummary struct {
	Return5D  Optional[float64] `json:"return_5d"`
	Return20D Optional[float64] `json:"return_20d"`
	// Position52W is where the close sits in the 52-week range, 0-100
	Position52W Optional[float64]         `json:"position_52w"`
	RSI14       Optional[float64]         `json:"rsi14"`
	EMA20       Optional[decimal.Decimal] `json:"ema20"`
	EMA50       Optional[decimal.Decimal] `json:"ema50"`
}

// Merge fills absent fields from other.
func (t TechnicalSummary) Merge(other TechnicalSummary) TechnicalSummary {
	if !t.Return5D.IsSome() {
		t.Return5D = other.Return5D
	}
	if !t.Return20D.IsSome() {
		t.Return20D = other.Return20D
	}
	if !t.Position52W.IsSome() {
		t.Position52W = other.Position52W
	}
	if !t.RSI14.IsSome() {
		t.RSI14 = other.RSI14
	}
	if !t.EMA20.IsSome() {
		t.EMA20 = other.EMA20
	}
	if !t.EMA50.IsSome() {
		t.EMA50 = other.EMA50
	}
	return t
}

// ValuationSummary price/earnings against its comparison bases.
type ValuationSummary struct {
	PE           Optional[float64] `json:"pe"`
	SectorPE     Optional[float64] `json:"sector_pe"`
	HistoricalPE Optional[float64] `json:"historical_pe"`
}
