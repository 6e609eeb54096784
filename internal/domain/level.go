package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LevelType side of a price level.
type LevelType string

const (
	LevelSupport    LevelType = "support"
	LevelResistance LevelType = "resistance"
)

// LevelStrength tier by touch count.
type LevelStrength string

const (
	StrengthWeak     LevelStrength = "weak"
	StrengthModerate LevelStrength = "moderate"
	StrengthStrong   LevelStrength = "strong"
)

// SupportResistanceLevel grouped pivot price.
type SupportResistanceLevel struct {
	Price         decimal.Decimal `json:"price"`
	Type          LevelType       `json:"type"`
	Strength      LevelStrength   `json:"strength"`
	Touches       int             `json:"touches"`
	LastTouchDate time.Time       `json:"last_touch_date"`
}
