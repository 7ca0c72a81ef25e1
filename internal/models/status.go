package models

// transitions lists the statuses reachable from each state.
// REJECTED and SHIPPED are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusShipped},
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusShipped:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusShipped
}

// CanTransition reports whether an admin may move an item from s to next.
// Re-applying the current status is allowed so price and comment can be
// edited without a status change.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return next.IsValid()
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition returns an InvalidTransitionError when s cannot move to next.
func (s OrderStatus) CheckTransition(next OrderStatus) error {
	if !s.CanTransition(next) {
		return &InvalidTransitionError{From: s, To: next}
	}
	return nil
}
