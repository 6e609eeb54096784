// Package diagnostic evaluates a declarative battery of threshold checks across
// volume, sector, smart money, technical and valuation categories and derives
// an overall action from the triggered flags.
package diagnostic

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

const maxRiskLevel = 100

// Config thresholds plus the decision table and risk weights.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds"`

	RedWeight    int `yaml:"red_weight"`
	YellowWeight int `yaml:"yellow_weight"`

	ImmediateSellRed int `yaml:"immediate_sell_red"`
	StrongSellRed    int `yaml:"strong_sell_red"`
	StrongSellYellow int `yaml:"strong_sell_yellow"`
	// WatchYellow turns a stock without red flags into WATCH at this many yellow flags; 0 disables
	WatchYellow int `yaml:"watch_yellow"`
}

// DefaultConfig returns the default thresholds and decision table.
func DefaultConfig() Config {
	return Config{
		Thresholds:       DefaultThresholds(),
		RedWeight:        25,
		YellowWeight:     10,
		ImmediateSellRed: 3,
		StrongSellRed:    2,
		StrongSellYellow: 2,
	}
}

// Engine evaluates a rule table. It holds no state between calls.
type Engine struct {
	cfg   Config
	rules []Rule
}

// NewEngine creates an Engine with the default rule table.
func NewEngine(cfg Config) Engine {
	return NewEngineWithRules(cfg, DefaultRules())
}

// NewEngineWithRules creates an Engine evaluating rules in the given order.
func NewEngineWithRules(cfg Config, rules []Rule) Engine {
	return Engine{cfg: cfg, rules: rules}
}

// Evaluate runs every rule once and summarizes the triggered flags.
func (e Engine) Evaluate(in Input) domain.StockDiagnosticResult {
	counts := domain.NewFlagCounts()
	red := make([]domain.DiagnosticFlag, 0)
	yellow := make([]domain.DiagnosticFlag, 0)

	for _, rule := range e.rules {
		flag, ok := e.Check(rule, in)
		if !ok {
			continue
		}
		counts.Add(flag)
		if flag.Severity == domain.SeverityRed {
			red = append(red, flag)
		} else {
			yellow = append(yellow, flag)
		}
	}

	action := e.Action(counts.Red, counts.Yellow)

	return domain.StockDiagnosticResult{
		OverallAction: action,
		RedFlags:      red,
		YellowFlags:   yellow,
		FlagCounts:    counts,
		RiskLevel:     e.RiskLevel(counts.Red, counts.Yellow),
		Summary:       domain.FormatSummary(counts.Red, counts.Yellow, action),
	}
}

// Check evaluates a single rule. Rules with an absent metric or threshold do not trigger.
func (e Engine) Check(rule Rule, in Input) (domain.DiagnosticFlag, bool) {
	value, ok := rule.Metric(in).Get()
	if !ok {
		return domain.DiagnosticFlag{}, false
	}
	threshold, ok := rule.Threshold(in, e.cfg.Thresholds).Get()
	if !ok {
		return domain.DiagnosticFlag{}, false
	}
	if !rule.Compare.Holds(value, threshold) {
		return domain.DiagnosticFlag{}, false
	}

	flagValue := domain.Some(value)
	if rule.Boolean {
		flagValue = domain.None[float64]()
	}

	return domain.DiagnosticFlag{
		Category:    rule.Category,
		Severity:    rule.Severity,
		Signal:      rule.Signal,
		Description: describe(rule.Description, value, threshold),
		Action:      rule.Action,
		Value:       flagValue,
		Comparison:  rule.Comparison,
	}, true
}

// Action applies the decision table top-down; the first matching row wins.
func (e Engine) Action(red, yellow int) domain.DiagnosticAction {
	switch {
	case red >= e.cfg.ImmediateSellRed:
		return domain.ActionImmediateSell
	case red >= e.cfg.StrongSellRed && yellow >= e.cfg.StrongSellYellow:
		return domain.ActionStrongSell
	case red >= 1:
		return domain.ActionTrim
	case e.cfg.WatchYellow > 0 && yellow >= e.cfg.WatchYellow:
		return domain.ActionWatch
	default:
		return domain.ActionHold
	}
}

// RiskLevel returns min(100, red*RedWeight + yellow*YellowWeight).
func (e Engine) RiskLevel(red, yellow int) int {
	return min(maxRiskLevel, red*e.cfg.RedWeight+yellow*e.cfg.YellowWeight)
}

func describe(template string, value, threshold float64) string {
	return strings.NewReplacer(
		"{value}", humanize.CommafWithDigits(value, 2),
		"{threshold}", humanize.CommafWithDigits(threshold, 2),
	).Replace(template)
}
