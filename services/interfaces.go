package services

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/jasondarel/FastEats-sub001/gateway"
)

// Collaborators the core calls out to, kept behind interfaces so tests
// run against stubs. Concrete implementations live in gateway/ and
// cache/.

type CatalogGateway interface {
	MenuByID(ctx context.Context, id uint) (*gateway.MenuSnapshot, error)
	RestaurantByID(ctx context.Context, id uint) (*gateway.RestaurantSnapshot, error)
}

type IdentityGateway interface {
	UserByID(ctx context.Context, id uint) (*gateway.UserSnapshot, error)
}

// Lease is the payment countdown in the keyed store. Acquire must be
// create-only: it reports false without touching an existing lease.
type Lease interface {
	Acquire(ctx context.Context, orderID uint) (bool, error)
	Release(ctx context.Context, orderID uint) error
}

// BrokerWriter is the slice of *kafka.Writer the outbox dispatcher
// needs.
type BrokerWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}
