package order

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// CanTransitionTo checks if the status can move to the target status.
// The forward chain is pending -> confirmed -> shipped -> delivered;
// canceled is reachable from any non-terminal state.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCanceled {
		return !s.IsTerminal()
	}
	switch s {
	case StatusPending:
		return target == StatusConfirmed
	case StatusConfirmed:
		return target == StatusShipped
	case StatusShipped:
		return target == StatusDelivered
	}
	return false
}
