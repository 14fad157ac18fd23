package model

// OrderStatus is the lifecycle state of an order. Orders start out pending and
// end up either paid or failed; both of those are terminal.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusFailed},
	OrderStatusPaid:    {},
	OrderStatusFailed:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no further transition is legal from s.
func (s OrderStatus) Terminal() bool {
	allowed, ok := orderTransitions[s]
	return ok && len(allowed) == 0
}

// CanTransitionTo reports whether s → to is a legal transition. A terminal
// state transitioning to itself is not legal but callers treat it as an
// already-applied no-op, not an error, so redelivered webhooks stay harmless.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}
