package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/config"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)

	hundred = decimal.NewFromInt(100)
)

// Answers raw wizard input. Percent fields are in percent, e.g. "12" for 12%.
type Answers struct {
	Format            string
	JournalDir        string
	Watch             string
	MarketFallbackAvg string
	StockFallbackAvg  string
	LeaderCount       string
	BuyProximity      string
	StopLoss          string
	TargetMin         string
	TargetMax         string
	TimeHorizon       string
}

// DefaultAnswers pre-fills the wizard from the documented defaults.
func DefaultAnswers() Answers {
	def := config.Default()
	ep := def.Analysis.EntryPlan
	return Answers{
		Format:            def.Format,
		Watch:             "0s",
		MarketFallbackAvg: strconv.FormatFloat(def.Analysis.Volume.MarketFallbackAverageVolume, 'f', -1, 64),
		StockFallbackAvg:  strconv.FormatFloat(def.Analysis.Volume.StockFallbackAverageVolume, 'f', -1, 64),
		LeaderCount:       strconv.Itoa(def.Analysis.Volume.LeaderCount),
		BuyProximity:      ep.BuyProximity.Mul(hundred).String(),
		StopLoss:          ep.StopLossPct.Mul(hundred).String(),
		TargetMin:         ep.TargetPctMin.Mul(hundred).String(),
		TargetMax:         ep.TargetPctMax.Mul(hundred).String(),
		TimeHorizon:       ep.TimeHorizon,
	}
}

// RunTUI launches the terminal configuration wizard and writes the result to path.
func RunTUI(path string) error {
	a := DefaultAnswers()
	var confirm bool

	step := func(title string) {
		fmt.Print("\033[H\033[2J")
		fmt.Println(headerStyle.Render("MARKETPULSE CONFIG WIZARD"))
		fmt.Println(stepStyle.Render(title))
	}

	step("STEP 1: OUTPUT")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Unanswered settings keep their defaults.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(
					huh.NewOption("Text report", config.FormatText),
					huh.NewOption("JSON", config.FormatJSON),
				).
				Value(&a.Format),
			huh.NewInput().
				Title("Report journal directory").
				Description("Empty disables journaling").
				Value(&a.JournalDir),
			huh.NewInput().
				Title("Watch interval").
				Description("Duration string (e.g. 30s, 5m), 0s runs once").
				Value(&a.Watch).
				Validate(validateDuration),
		),
	).Run()
	if err != nil {
		return err
	}

	step("STEP 2: VOLUME")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Market fallback average volume").
				Description("Used when the snapshot carries no market average, 0 disables").
				Value(&a.MarketFallbackAvg).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("Stock fallback average volume").
				Description("Used for stocks without their own average, 0 disables").
				Value(&a.StockFallbackAvg).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("Volume leaders to list").
				Value(&a.LeaderCount).
				Validate(validateCount),
		),
	).Run()
	if err != nil {
		return err
	}

	step("STEP 3: ENTRY PLAN")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Buy proximity %").
				Description("How far below the price a buy may rest (e.g. 2)").
				Value(&a.BuyProximity).
				Validate(validatePercent),
			huh.NewInput().
				Title("Stop loss %").
				Description("Distance below the buy price (e.g. 12)").
				Value(&a.StopLoss).
				Validate(validatePercent),
			huh.NewInput().
				Title("Minimum target gain %").
				Value(&a.TargetMin).
				Validate(validatePercent),
			huh.NewInput().
				Title("Maximum target gain %").
				Value(&a.TargetMax).
				Validate(validatePercent),
			huh.NewInput().
				Title("Time horizon").
				Value(&a.TimeHorizon),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg, err := Build(a)
	if err != nil {
		return err
	}

	step("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Format: %s\nJournal: %s\nWatch: %s\nStop loss: %s%%\nTarget: %s%%-%s%%\n",
		cfg.Format, orNone(cfg.JournalDir), cfg.Watch, a.StopLoss, a.TargetMin, a.TargetMax,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return errors.New("setup cancelled by user")
	}

	if err := Write(path, cfg); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\nConfiguration saved to %s", path)))
	return nil
}

// Build turns wizard answers into a validated configuration.
func Build(a Answers) (config.Config, error) {
	cfg := config.Default()
	cfg.Format = a.Format
	cfg.JournalDir = a.JournalDir

	var err error
	if cfg.Watch, err = time.ParseDuration(a.Watch); err != nil {
		return config.Config{}, errors.Wrap(err, "watch interval")
	}
	if cfg.Analysis.Volume.MarketFallbackAverageVolume, err = strconv.ParseFloat(a.MarketFallbackAvg, 64); err != nil {
		return config.Config{}, errors.Wrap(err, "market fallback average volume")
	}
	if cfg.Analysis.Volume.StockFallbackAverageVolume, err = strconv.ParseFloat(a.StockFallbackAvg, 64); err != nil {
		return config.Config{}, errors.Wrap(err, "stock fallback average volume")
	}
	if cfg.Analysis.Volume.LeaderCount, err = strconv.Atoi(a.LeaderCount); err != nil {
		return config.Config{}, errors.Wrap(err, "leader count")
	}

	ep := &cfg.Analysis.EntryPlan
	for _, f := range []struct {
		name string
		in   string
		out  *decimal.Decimal
	}{
		{"buy proximity", a.BuyProximity, &ep.BuyProximity},
		{"stop loss", a.StopLoss, &ep.StopLossPct},
		{"minimum target", a.TargetMin, &ep.TargetPctMin},
		{"maximum target", a.TargetMax, &ep.TargetPctMax},
	} {
		pct, err := decimal.NewFromString(f.in)
		if err != nil {
			return config.Config{}, errors.Wrap(err, f.name)
		}
		*f.out = pct.Div(hundred)
	}
	if a.TimeHorizon != "" {
		ep.TimeHorizon = a.TimeHorizon
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Write stores cfg as yaml.
func Write(path string, cfg config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to generate yaml")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to save config file")
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateNonNegative(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if f < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

func validatePercent(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() || d.GreaterThanOrEqual(hundred) {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
