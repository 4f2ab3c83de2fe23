package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jasondarel/FastEats-sub001/cache"
	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/event"
)

// ExpiryWatcher subscribes to the keyed store's expired-key channel and
// cancels orders whose payment lease ran out. It runs independently of
// the webhook processor: an order gets cancelled even when the gateway
// never calls back again.
type ExpiryWatcher struct {
	Client *redis.Client
	Orders *OrderService
	Log    *zap.Logger
}

func NewExpiryWatcher(client *redis.Client, orders *OrderService, log *zap.Logger) *ExpiryWatcher {
	return &ExpiryWatcher{Client: client, Orders: orders, Log: log}
}

// Run blocks consuming expiration notifications until ctx is cancelled.
func (w *ExpiryWatcher) Run(ctx context.Context) {
	// Best-effort: ask the store to emit expired-key events. Managed
	// deployments may have this locked down and configured already.
	if err := w.Client.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err(); err != nil {
		w.Log.Warn("could not enable keyspace notifications", zap.Error(err))
	}

	db := w.Client.Options().DB
	sub := w.Client.PSubscribe(ctx, fmt.Sprintf("__keyevent@%d__:expired", db))
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			orderID, ok := cache.ParseOrderKey(msg.Payload)
			if !ok {
				continue
			}
			w.HandleExpiry(orderID)
		}
	}
}

// HandleExpiry cancels the order and tells real-time listeners. A store
// failure is logged and dropped: the order goes stale until an operator
// or reconciliation steps in, it is never corrupted.
func (w *ExpiryWatcher) HandleExpiry(orderID uint) {
	w.Orders.Events.Broadcast(event.NewOrderEvent(event.OrderUpdated, orderID, entity.StatusCancelled))

	cancelled, err := w.Orders.CancelExpired(orderID)
	if err != nil {
		w.Log.Error("expiry cancel failed", zap.Uint("orderId", orderID), zap.Error(err))
		return
	}
	if !cancelled {
		w.Log.Debug("expiry notification for settled order ignored", zap.Uint("orderId", orderID))
	}
}
