package entity

// OrderStatus is the order lifecycle state. Transitions only move along
// the table enforced in services/order_transitions.go.
type OrderStatus string

const (
	StatusWaiting    OrderStatus = "Waiting"
	StatusPending    OrderStatus = "Pending"
	StatusPreparing  OrderStatus = "Preparing"
	StatusDelivering OrderStatus = "Delivering"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ActiveStatuses are the statuses a restaurant still has work to do on.
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusPreparing, StatusDelivering}
}
