package domain

// DiagnosticAction overall recommendation derived from flag counts.
type DiagnosticAction string

const (
	ActionImmediateSell DiagnosticAction = "IMMEDIATE_SELL"
	// ActionStrongSell covers both the "strong sell" and "reduce" phrasings.
	ActionStrongSell DiagnosticAction = "STRONG_SELL"
	ActionTrim       DiagnosticAction = "TRIM"
	ActionWatch      DiagnosticAction = "WATCH"
	ActionHold       DiagnosticAction = "HOLD"
)

// Title returns a human-readable representation.
func (a DiagnosticAction) Title() string {
	switch a {
	case ActionImmediateSell:
		return "Immediate sell"
	case ActionStrongSell:
		return "Strong sell / reduce"
	case ActionTrim:
		return "Trim position"
	case ActionWatch:
		return "Watch closely"
	case ActionHold:
		return "Hold"
	default:
		return "Unknown"
	}
}

// Decision externally supplied stance for entry planning.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionHold Decision = "HOLD"
	DecisionPass Decision = "PASS"
)

// IsValid checks if the decision is one of the known values.
func (d Decision) IsValid() bool {
	switch d {
	case DecisionBuy, DecisionHold, DecisionPass:
		return true
	}
	return false
}
