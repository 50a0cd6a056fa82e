package domain

// orderTransitions is the full lifecycle of an order:
// draft -> aktif -> {selesai, terlambat}; terlambat -> selesai once the
// last outstanding unit is accounted for. selesai is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:   {OrderStatusActive},
	OrderStatusActive:  {OrderStatusCompleted, OrderStatusOverdue},
	OrderStatusOverdue: {OrderStatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is a legal state
// change. Staying in the same state is not a transition and returns false.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsReturnable reports whether returns may still be processed against an
// order in this state.
func (s OrderStatus) IsReturnable() bool {
	return s == OrderStatusActive || s == OrderStatusOverdue
}
