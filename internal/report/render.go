// Package report renders market and stock reports for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#C9A400", Dark: "#F5D547"}
	danger    = lipgloss.AdaptiveColor{Light: "#D0342C", Dark: "#FF5F56"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	mutedStyle  = lipgloss.NewStyle().Foreground(subtle)
	redStyle    = lipgloss.NewStyle().Foreground(danger).Bold(true)
	yellowStyle = lipgloss.NewStyle().Foreground(warning)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

// Market renders the market-level report.
func Market(r domain.MarketReport) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("MARKET"))
	b.WriteString("\n")

	summary := fmt.Sprintf(
		"Health: %s (%d/100, baseline %s)\nVolume trend: %s, vs previous %s\nVWAD: %.2f %s\nTop 5 concentration: %.2f%% %s",
		r.Health.HealthStatus, r.Health.HealthScore, r.Health.Baseline,
		r.VolumeTrend, r.Health.Trend,
		r.VWAD.VWAD, r.VWAD.Conviction,
		r.Concentration.Concentration, r.Concentration.ConcentrationLevel,
	)
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n")

	if len(r.Leaders) > 0 {
		b.WriteString(sectionStyle.Render("Volume leaders"))
		b.WriteString("\n")
		for i, l := range r.Leaders {
			fmt.Fprintf(&b, "%2d. %-8s %14.0f  %5.2fx  %+6.2f%%\n", i+1, l.Symbol, l.Volume, l.RelativeVolume, l.PriceChange)
		}
	}

	b.WriteString(sectionStyle.Render("Insights"))
	b.WriteString("\n")
	for _, insight := range r.Insights {
		b.WriteString("  - ")
		b.WriteString(insight)
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Recommendation"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s (score %d, confidence %d%%)\n", r.Recommendation.Action, r.Recommendation.Score, r.Recommendation.Confidence)

	return b.String()
}

// Stock renders a stock report.
func Stock(r domain.StockReport) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(r.Symbol))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Close %s  ATR %s  ATR stop %s  hybrid stop %s\n",
		price(r.Close), price(r.ATR), price(r.ATRStop), price(r.HybridStop))
	fmt.Fprintf(&b, "Volume %s (%d/100), relative %.2fx\n", r.Health.HealthStatus, r.Health.HealthScore, r.RelativeVolume)

	tech := r.Technical
	fmt.Fprintf(&b, "EMA20 %s  EMA50 %s  RSI14 %s\n", optPrice(tech.EMA20), optPrice(tech.EMA50), optFloat(tech.RSI14, ""))
	fmt.Fprintf(&b, "Return 5d %s  20d %s  52w position %s\n",
		optFloat(tech.Return5D, "%"), optFloat(tech.Return20D, "%"), optFloat(tech.Position52W, "%"))

	if len(r.TakeProfits) > 0 {
		targets := make([]string, len(r.TakeProfits))
		for i, tp := range r.TakeProfits {
			targets[i] = price(tp)
		}
		fmt.Fprintf(&b, "Take profit: %s\n", strings.Join(targets, " / "))
	}

	b.WriteString(sectionStyle.Render("Levels"))
	b.WriteString("\n")
	writeLevels(&b, "support", r.Support)
	writeLevels(&b, "resistance", r.Resistance)

	d := r.Diagnostics
	b.WriteString(sectionStyle.Render("Diagnostics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  risk %d/100\n", actionStyle(d.OverallAction).Render(d.OverallAction.Title()), d.RiskLevel)
	b.WriteString(mutedStyle.Render("  " + d.Summary))
	b.WriteString("\n")
	for _, f := range d.RedFlags {
		writeFlag(&b, redStyle, f)
	}
	for _, f := range d.YellowFlags {
		writeFlag(&b, yellowStyle, f)
	}

	b.WriteString(sectionStyle.Render("Entry plan"))
	b.WriteString("\n")
	plan, ok := r.EntryPlan.Get()
	if !ok {
		reason := r.EntryPlanError
		if reason == "" {
			reason = "not requested"
		}
		b.WriteString(mutedStyle.Render("  none: " + reason))
		b.WriteString("\n")
		return b.String()
	}

	lines := []string{
		fmt.Sprintf("Buy at      %s  %s", price(plan.BuyAt.Price), plan.BuyAt.Rationale),
		fmt.Sprintf("Stop loss   %s (%s%%)  %s", price(plan.StopLoss.Price), plan.StopLoss.PercentageFromBuy.StringFixed(2), plan.StopLoss.Rationale),
		fmt.Sprintf("Target      %s (+%s%%)  %s", price(plan.Target.Price), plan.Target.PercentageFromBuy.StringFixed(2), plan.Target.Rationale),
		fmt.Sprintf("Position    %s%%  %s", plan.PositionSize.Percentage.Mul(decimal.NewFromInt(100)).StringFixed(0), plan.PositionSize.Rationale),
		fmt.Sprintf("Risk/reward %s", plan.RiskReward.Label),
		fmt.Sprintf("Horizon     %s", plan.TimeHorizon),
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	return b.String()
}

func writeLevels(b *strings.Builder, name string, lvls []domain.SupportResistanceLevel) {
	if len(lvls) == 0 {
		fmt.Fprintf(b, "  %-10s none\n", name)
		return
	}
	for _, l := range lvls {
		fmt.Fprintf(b, "  %-10s %s  %s, %d touches, last %s\n",
			name, price(l.Price), l.Strength, l.Touches, l.LastTouchDate.Format("2006-01-02"))
	}
}

func writeFlag(b *strings.Builder, style lipgloss.Style, f domain.DiagnosticFlag) {
	fmt.Fprintf(b, "  %s [%s] %s\n", style.Render(strings.ToUpper(string(f.Severity))), f.Category, f.Signal)
	fmt.Fprintf(b, "      %s\n", f.Description)
	if f.Action != "" {
		b.WriteString(mutedStyle.Render("      -> " + f.Action))
		b.WriteString("\n")
	}
}

func actionStyle(a domain.DiagnosticAction) lipgloss.Style {
	switch a {
	case domain.ActionImmediateSell, domain.ActionStrongSell:
		return redStyle
	case domain.ActionTrim, domain.ActionWatch:
		return yellowStyle
	default:
		return lipgloss.NewStyle().Foreground(special)
	}
}

func price(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optPrice(o domain.Optional[decimal.Decimal]) string {
	v, ok := o.Get()
	if !ok {
		return "n/a"
	}
	return price(v)
}

func optFloat(o domain.Optional[float64], unit string) string {
	v, ok := o.Get()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%s", v, unit)
}
