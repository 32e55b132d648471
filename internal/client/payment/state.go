package payment

// State is a step of the checkout flow.
type State int

const (
	Idle State = iota
	OrderCreating
	OrderReady
	AwaitingConfirmation
	Verifying
	Completed
	Failed
	Cancelled
)

var stateNames = [...]string{
	Idle:                 "idle",
	OrderCreating:        "order-creating",
	OrderReady:           "order-ready",
	AwaitingConfirmation: "awaiting-confirmation",
	Verifying:            "verifying",
	Completed:            "completed",
	Failed:               "failed",
	Cancelled:            "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// canStart lists the states a new order may be created from.
func (s State) canStart() bool {
	switch s {
	case Idle, OrderReady, Completed, Failed:
		return true
	default:
		return false
	}
}
