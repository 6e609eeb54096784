// Package entryplan builds a concrete long entry plan: buy price, stop-loss,
// target, position size and risk/reward.
package entryplan

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

// ErrInvalidInput is returned for non-positive prices or an unknown decision.
var ErrInvalidInput = errors.New("invalid entry plan input")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Config entry plan percentages and position sizes.
type Config struct {
	// BuyProximity is how far below the current price a buy may rest
	BuyProximity  decimal.Decimal `yaml:"buy_proximity"`
	StopLossPct   decimal.Decimal `yaml:"stop_loss_pct"`
	SupportBuffer decimal.Decimal `yaml:"support_buffer"`
	TargetPctMin  decimal.Decimal `yaml:"target_pct_min"`
	TargetPctMax  decimal.Decimal `yaml:"target_pct_max"`

	DeepDiscount   decimal.Decimal `yaml:"deep_discount"`
	ModestDiscount decimal.Decimal `yaml:"modest_discount"`
	SizeDeep       decimal.Decimal `yaml:"size_deep"`
	SizeModest     decimal.Decimal `yaml:"size_modest"`
	SizeBase       decimal.Decimal `yaml:"size_base"`
	SizeHold       decimal.Decimal `yaml:"size_hold"`
	TimeHorizon    string          `yaml:"time_horizon"`
}

// DefaultConfig returns the default plan parameters.
func DefaultConfig() Config {
	return Config{
		BuyProximity:   decimal.NewFromFloat(0.02),
		StopLossPct:    decimal.NewFromFloat(0.12),
		SupportBuffer:  decimal.NewFromFloat(0.98),
		TargetPctMin:   decimal.NewFromFloat(0.20),
		TargetPctMax:   decimal.NewFromFloat(0.25),
		DeepDiscount:   decimal.NewFromFloat(0.05),
		ModestDiscount: decimal.NewFromFloat(0.03),
		SizeDeep:       decimal.NewFromFloat(0.10),
		SizeModest:     decimal.NewFromFloat(0.08),
		SizeBase:       decimal.NewFromFloat(0.05),
		SizeHold:       decimal.NewFromFloat(0.03),
		TimeHorizon:    "3-6 months",
	}
}

// Input prices and stance for one stock.
type Input struct {
	CurrentPrice   decimal.Decimal
	SupportLevel   decimal.Decimal
	TargetEstimate decimal.Decimal
	Decision       domain.Decision
}

// Calculator computes entry plans.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator.
func NewCalculator(cfg Config) Calculator {
	return Calculator{cfg: cfg}
}

// Calculate returns a long plan with stop < buy < target.
func (c Calculator) Calculate(in Input) (domain.EntryPlan, error) {
	if err := validate(in); err != nil {
		return domain.EntryPlan{}, err
	}

	buyAt := decimal.Max(in.SupportLevel, in.CurrentPrice.Mul(one.Sub(c.cfg.BuyProximity)))
	discount := in.CurrentPrice.Sub(buyAt).Div(in.CurrentPrice)

	stop := decimal.Min(
		buyAt.Mul(one.Sub(c.cfg.StopLossPct)),
		in.SupportLevel.Mul(c.cfg.SupportBuffer),
	)

	lo := buyAt.Mul(one.Add(c.cfg.TargetPctMin))
	hi := buyAt.Mul(one.Add(c.cfg.TargetPctMax))
	target := decimal.Min(decimal.Max(in.TargetEstimate, lo), hi)

	ratio := target.Sub(buyAt).Div(buyAt.Sub(stop))

	return domain.EntryPlan{
		BuyAt: domain.PriceLevel{
			Price:     buyAt,
			Rationale: "Buy near support level with margin of safety",
		},
		StopLoss: domain.PriceTarget{
			Price:             stop,
			PercentageFromBuy: percentFrom(buyAt, stop),
			Rationale:         fmt.Sprintf("Exit below support or after a %s%% loss, whichever comes first", c.cfg.StopLossPct.Mul(hundred).String()),
		},
		Target: domain.PriceTarget{
			Price:             target,
			PercentageFromBuy: percentFrom(buyAt, target),
			Rationale: fmt.Sprintf("Estimated fair value bounded to a %s-%s%% gain",
				c.cfg.TargetPctMin.Mul(hundred).String(), c.cfg.TargetPctMax.Mul(hundred).String()),
		},
		PositionSize: c.positionSize(in.Decision, discount),
		RiskReward: domain.RiskReward{
			Ratio: ratio.Round(2),
			Label: "1:" + ratio.StringFixed(1),
		},
		TimeHorizon: c.cfg.TimeHorizon,
	}, nil
}

// positionSize sizes a BUY by the discount to the current price.
func (c Calculator) positionSize(decision domain.Decision, discount decimal.Decimal) domain.PositionSize {
	switch decision {
	case domain.DecisionBuy:
		switch {
		case discount.GreaterThan(c.cfg.DeepDiscount):
			return domain.PositionSize{Percentage: c.cfg.SizeDeep, Rationale: "Full position, entry at a deep discount"}
		case discount.GreaterThan(c.cfg.ModestDiscount):
			return domain.PositionSize{Percentage: c.cfg.SizeModest, Rationale: "Larger position, entry at a modest discount"}
		default:
			return domain.PositionSize{Percentage: c.cfg.SizeBase, Rationale: "Standard position near the current price"}
		}
	case domain.DecisionHold:
		return domain.PositionSize{Percentage: c.cfg.SizeHold, Rationale: "Starter position while the thesis develops"}
	default:
		return domain.PositionSize{Percentage: decimal.Zero, Rationale: "No position"}
	}
}

func validate(in Input) error {
	if !in.CurrentPrice.IsPositive() {
		return errors.Wrapf(ErrInvalidInput, "current price must be positive, got %s", in.CurrentPrice.String())
	}
	if !in.SupportLevel.IsPositive() {
		return errors.Wrapf(ErrInvalidInput, "support level must be positive, got %s", in.SupportLevel.String())
	}
	if !in.TargetEstimate.IsPositive() {
		return errors.Wrapf(ErrInvalidInput, "target estimate must be positive, got %s", in.TargetEstimate.String())
	}
	if !in.Decision.IsValid() {
		return errors.Wrapf(ErrInvalidInput, "unknown decision %q", in.Decision)
	}
	return nil
}

// percentFrom returns (price-base)/base*100 rounded to 2 decimals.
func percentFrom(base, price decimal.Decimal) decimal.Decimal {
	return price.Sub(base).Div(base).Mul(hundred).Round(2)
}
