package domain

import "fmt"

// FlagCategory group of diagnostic checks.
type FlagCategory string

const (
	CategoryVolume     FlagCategory = "volume"
	CategorySector     FlagCategory = "sector"
	CategorySmartMoney FlagCategory = "smart_money"
	CategoryTechnical  FlagCategory = "technical"
	CategoryValuation  FlagCategory = "valuation"
)

// Categories lists all categories in report order.
var Categories = []FlagCategory{
	CategoryVolume,
	CategorySector,
	CategorySmartMoney,
	CategoryTechnical,
	CategoryValuation,
}

// Severity of a triggered check.
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
)

// DiagnosticFlag single triggered threshold check.
type DiagnosticFlag struct {
	Category    FlagCategory `json:"category"`
	Severity    Severity     `json:"severity"`
	Signal      string       `json:"signal"`
	Description string       `json:"description"`
	Action      string       `json:"action"`
	// Value is the observed metric, absent for boolean checks
	Value Optional[float64] `json:"value"`
	// Comparison names the basis the value was compared against
	Comparison string `json:"comparison"`
}

// CategoryCount red/yellow tally for one category.
type CategoryCount struct {
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
}

// FlagCounts per-category tally.
type FlagCounts struct {
	ByCategory map[FlagCategory]CategoryCount `json:"by_category"`
	Red        int                            `json:"red"`
	Yellow     int                            `json:"yellow"`
}

// NewFlagCounts returns counts with every category present.
func NewFlagCounts() FlagCounts {
	byCategory := make(map[FlagCategory]CategoryCount, len(Categories))
	for _, c := range Categories {
		byCategory[c] = CategoryCount{}
	}
	return FlagCounts{ByCategory: byCategory}
}

// Add tallies a flag.
func (f *FlagCounts) Add(flag DiagnosticFlag) {
	cc := f.ByCategory[flag.Category]
	switch flag.Severity {
	case SeverityRed:
		cc.Red++
		f.Red++
	case SeverityYellow:
		cc.Yellow++
		f.Yellow++
	}
	f.ByCategory[flag.Category] = cc
}

// StockDiagnosticResult outcome of one diagnostic pass.
type StockDiagnosticResult struct {
	OverallAction DiagnosticAction `json:"overall_action"`
	RedFlags      []DiagnosticFlag `json:"red_flags"`
	YellowFlags   []DiagnosticFlag `json:"yellow_flags"`
	FlagCounts    FlagCounts       `json:"flag_counts"`
	// RiskLevel in [0,100], increasing in red and yellow counts
	RiskLevel int    `json:"risk_level"`
	Summary   string `json:"summary"`
}

// FormatSummary renders the one-line result summary.
func FormatSummary(red, yellow int, action DiagnosticAction) string {
	return fmt.Sprintf("%d red, %d yellow flags: %s", red, yellow, action)
}
