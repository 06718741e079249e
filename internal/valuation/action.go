package valuation

// Action is a human-friendly operating mode for a period.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionInjecting   Action = "INJECTING"
	ActionIdle        Action = "IDLE"
	ActionWithdrawing Action = "WITHDRAWING"
)

func ActionFromVolume(volume float64) Action {
	switch {
	case volume > 0:
		return ActionInjecting
	case volume < 0:
		return ActionWithdrawing
	default:
		return ActionIdle
	}
}
