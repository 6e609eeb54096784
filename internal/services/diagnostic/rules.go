package diagnostic

import (
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

// Comparator relation between an observed value and its threshold.
type Comparator int

const (
	LessThan Comparator = iota
	LessOrEqual
	GreaterThan
	GreaterOrEqual
)

// Holds reports whether value relates to threshold as c describes.
func (c Comparator) Holds(value, threshold float64) bool {
	switch c {
	case LessThan:
		return value < threshold
	case LessOrEqual:
		return value <= threshold
	case GreaterThan:
		return value > threshold
	case GreaterOrEqual:
		return value >= threshold
	default:
		return false
	}
}

// Rule one declarative threshold check.
// Description may reference {value} and {threshold}.
type Rule struct {
	Category  domain.FlagCategory
	Signal    string
	Severity  domain.Severity
	Metric    func(Input) domain.Optional[float64]
	Compare   Comparator
	Threshold func(Input, Thresholds) domain.Optional[float64]
	// Boolean rules report no value on the flag
	Boolean     bool
	Description string
	Action      string
	Comparison  string
}

// Input observations the rule table reads.
type Input struct {
	HealthScore    domain.Optional[float64]
	VWAD           domain.Optional[float64]
	Concentration  domain.Optional[float64]
	RelativeVolume domain.Optional[float64]
	SmartMoney     domain.SmartMoneySummary
	Sector         domain.SectorSummary
	Technical      domain.TechnicalSummary
	Valuation      domain.ValuationSummary
}

// Thresholds trigger levels for the default rule table.
type Thresholds struct {
	AnemicHealth          float64 `yaml:"anemic_health"`
	BearishVWAD           float64 `yaml:"bearish_vwad"`
	IlliquidConcentration float64 `yaml:"illiquid_concentration"`
	LowRelativeVolume     float64 `yaml:"low_relative_volume"`

	ForeignStrongSell      float64 `yaml:"foreign_strong_sell"`
	InstitutionSell        float64 `yaml:"institution_sell"`
	LowSmartMoneyScore     float64 `yaml:"low_smart_money_score"`
	NegativeCumulativeFlow float64 `yaml:"negative_cumulative_flow"`

	TopLoserRank       int     `yaml:"top_loser_rank"`
	SectorUnderperform float64 `yaml:"sector_underperform"`

	Near52WeekLow float64 `yaml:"near_52_week_low"`
	NegativeTrend float64 `yaml:"negative_trend"`
	OverboughtRSI float64 `yaml:"overbought_rsi"`

	// OvervaluedMultiple of the sector or historical P/E
	OvervaluedMultiple float64 `yaml:"overvalued_multiple"`
}

// DefaultThresholds returns the documented default trigger levels.
// Flow amounts are in the market's currency units.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AnemicHealth:           30,
		BearishVWAD:            -30,
		IlliquidConcentration:  40,
		LowRelativeVolume:      0.5,
		ForeignStrongSell:      -10_000_000_000,
		InstitutionSell:        -5_000_000_000,
		LowSmartMoneyScore:     40,
		NegativeCumulativeFlow: -20_000_000_000,
		TopLoserRank:           10,
		SectorUnderperform:     -2,
		Near52WeekLow:          20,
		NegativeTrend:          0,
		OverboughtRSI:          70,
		OvervaluedMultiple:     1.3,
	}
}

func fixed(pick func(Thresholds) float64) func(Input, Thresholds) domain.Optional[float64] {
	return func(_ Input, t Thresholds) domain.Optional[float64] {
		return domain.Some(pick(t))
	}
}

func relative(base func(Input) domain.Optional[float64]) func(Input, Thresholds) domain.Optional[float64] {
	return func(in Input, t Thresholds) domain.Optional[float64] {
		b, ok := base(in).Get()
		if !ok || b <= 0 {
			return domain.None[float64]()
		}
		return domain.Some(b * t.OvervaluedMultiple)
	}
}

func positivePE(in Input) domain.Optional[float64] {
	pe, ok := in.Valuation.PE.Get()
	if !ok || pe <= 0 {
		return domain.None[float64]()
	}
	return domain.Some(pe)
}

// DefaultRules returns the rule battery in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category:    domain.CategoryVolume,
			Signal:      "Anemic Volume",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.HealthScore },
			Compare:     LessThan,
			Threshold:   fixed(func(t Thresholds) float64 { return t.AnemicHealth }),
			Description: "Volume health score {value} is below {threshold}",
			Action:      "Avoid new positions until participation returns",
			Comparison:  "volume health score",
		},
		{
			Category:    domain.CategoryVolume,
			Signal:      "Bearish Conviction",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.VWAD },
			Compare:     LessOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return t.BearishVWAD }),
			Description: "Volume-weighted breadth {value} shows sellers in control",
			Action:      "Tighten stops on long positions",
			Comparison:  "VWAD",
		},
		{
			Category:    domain.CategoryVolume,
			Signal:      "Illiquid Market",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.Concentration },
			Compare:     GreaterOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return t.IlliquidConcentration }),
			Description: "Top 5 stocks hold {value}% of volume",
			Action:      "Reduce size, liquidity is concentrated in a few names",
			Comparison:  "top-5 volume share",
		},
		{
			Category:    domain.CategoryVolume,
			Signal:      "Low Relative Volume",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.RelativeVolume },
			Compare:     LessThan,
			Threshold:   fixed(func(t Thresholds) float64 { return t.LowRelativeVolume }),
			Description: "Trading at {value}x its average volume",
			Action:      "Wait for volume confirmation",
			Comparison:  "average volume",
		},
		{
			Category:    domain.CategorySmartMoney,
			Signal:      "Foreign Strong Sell",
			Severity:    domain.SeverityRed,
			Metric:      func(in Input) domain.Optional[float64] { return in.SmartMoney.ForeignNet },
			Compare:     LessOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return t.ForeignStrongSell }),
			Description: "Foreign investors net sold {value}",
			Action:      "Consider reducing exposure",
			Comparison:  "foreign net flow",
		},
		{
			Category:    domain.CategorySmartMoney,
			Signal:      "Institution Selling",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.SmartMoney.InstitutionNet },
			Compare:     LessOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return t.InstitutionSell }),
			Description: "Institutions net sold {value}",
			Action:      "Monitor institutional flow",
			Comparison:  "institution net flow",
		},
		{
			Category:    domain.CategorySmartMoney,
			Signal:      "Low Smart Money Score",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.SmartMoney.Score },
			Compare:     LessThan,
			Threshold:   fixed(func(t Thresholds) float64 { return t.LowSmartMoneyScore }),
			Description: "Smart money score {value} is below {threshold}",
			Action:      "Wait for informed buying",
			Comparison:  "smart money score",
		},
		{
			Category:    domain.CategorySmartMoney,
			Signal:      "Negative Cumulative Flow",
			Severity:    domain.SeverityRed,
			Metric:      func(in Input) domain.Optional[float64] { return in.SmartMoney.CumulativeFlow5D },
			Compare:     LessOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return t.NegativeCumulativeFlow }),
			Description: "5-day cumulative smart money flow is {value}",
			Action:      "Sustained outflow, consider selling",
			Comparison:  "5-day cumulative flow",
		},
		{
			Category: domain.CategorySector,
			Signal:   "Top Loser",
			Severity: domain.SeverityYellow,
			Metric: func(in Input) domain.Optional[float64] {
				rank, ok := in.Sector.LoserRank.Get()
				if !ok || rank < 1 {
					return domain.None[float64]()
				}
				return domain.Some(float64(rank))
			},
			Compare:     LessOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return float64(t.TopLoserRank) }),
			Description: "Ranked #{value} among today's top losers",
			Action:      "Check for stock-specific news",
			Comparison:  "losers ranking",
		},
		{
			Category: domain.CategorySector,
			Signal:   "Absent from Rankings",
			Severity: domain.SeverityYellow,
			Metric: func(in Input) domain.Optional[float64] {
				present, ok := in.Sector.InRankings.Get()
				if !ok {
					return domain.None[float64]()
				}
				if present {
					return domain.Some(1.0)
				}
				return domain.Some(0.0)
			},
			Compare:     LessThan,
			Threshold:   fixed(func(Thresholds) float64 { return 1 }),
			Boolean:     true,
			Description: "Not present in any market ranking",
			Action:      "Low market attention, expect weak follow-through",
			Comparison:  "market rankings",
		},
		{
			Category:    domain.CategorySector,
			Signal:      "Sector Underperforming",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.Sector.SectorChange },
			Compare:     LessOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return t.SectorUnderperform }),
			Description: "Sector is down {value}% today",
			Action:      "Sector headwind, review exposure",
			Comparison:  "sector change",
		},
		{
			Category:    domain.CategoryTechnical,
			Signal:      "Near 52-Week Low",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.Technical.Position52W },
			Compare:     LessThan,
			Threshold:   fixed(func(t Thresholds) float64 { return t.Near52WeekLow }),
			Description: "Trading at {value}% of its 52-week range",
			Action:      "Do not average down without a reversal signal",
			Comparison:  "52-week range",
		},
		{
			Category: domain.CategoryTechnical,
			Signal:   "Negative Short & Long Trend",
			Severity: domain.SeverityRed,
			Metric: func(in Input) domain.Optional[float64] {
				short, ok1 := in.Technical.Return5D.Get()
				long, ok2 := in.Technical.Return20D.Get()
				if !ok1 || !ok2 {
					return domain.None[float64]()
				}
				return domain.Some(max(short, long))
			},
			Compare:     LessThan,
			Threshold:   fixed(func(t Thresholds) float64 { return t.NegativeTrend }),
			Description: "Both 5-day and 20-day returns are negative",
			Action:      "Downtrend on both horizons, cut losses",
			Comparison:  "5-day and 20-day return",
		},
		{
			Category:    domain.CategoryTechnical,
			Signal:      "Overbought RSI",
			Severity:    domain.SeverityYellow,
			Metric:      func(in Input) domain.Optional[float64] { return in.Technical.RSI14 },
			Compare:     GreaterOrEqual,
			Threshold:   fixed(func(t Thresholds) float64 { return t.OverboughtRSI }),
			Description: "RSI(14) at {value}",
			Action:      "Avoid chasing, wait for a pullback",
			Comparison:  "RSI(14)",
		},
		{
			Category:    domain.CategoryValuation,
			Signal:      "Overvalued",
			Severity:    domain.SeverityYellow,
			Metric:      positivePE,
			Compare:     GreaterOrEqual,
			Threshold:   relative(func(in Input) domain.Optional[float64] { return in.Valuation.SectorPE }),
			Description: "P/E {value} is at least {threshold} (sector average x multiple)",
			Action:      "Valuation leaves little margin of safety",
			Comparison:  "sector average P/E",
		},
		{
			Category:    domain.CategoryValuation,
			Signal:      "Overvalued",
			Severity:    domain.SeverityYellow,
			Metric:      positivePE,
			Compare:     GreaterOrEqual,
			Threshold:   relative(func(in Input) domain.Optional[float64] { return in.Valuation.HistoricalPE }),
			Description: "P/E {value} is at least {threshold} (historical average x multiple)",
			Action:      "Trading rich versus its own history",
			Comparison:  "historical average P/E",
		},
	}
}
