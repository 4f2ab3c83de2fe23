package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasondarel/FastEats-sub001/entity"
)

// Type names the real-time events the order lifecycle emits.
type Type string

const (
	OrderUpdated    Type = "orderUpdated"
	OrderDelivering Type = "orderDelivering"
	OrderCompleted  Type = "orderCompleted"
)

// OrderEvent is what the state machine hands to the fan-out side
// (websocket hub, outbox) instead of calling transports inline.
type OrderEvent struct {
	EventID   string             `json:"event_id"`
	Type      Type               `json:"event"`
	OrderID   uint               `json:"order_id"`
	Status    entity.OrderStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewOrderEvent(t Type, orderID uint, status entity.OrderStatus) OrderEvent {
	return OrderEvent{
		EventID:   uuid.NewString(),
		Type:      t,
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// Broadcaster fans an event out to connected listeners. Implemented by
// ws.OrderHub; stubbed in tests.
type Broadcaster interface {
	Broadcast(ev OrderEvent)
}
