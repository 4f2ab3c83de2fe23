package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/event"
)

func TestExpiryCancelsPendingOrder(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusPending)

	w := NewExpiryWatcher(nil, f.orders, zap.NewNop())
	w.HandleExpiry(o.ID)

	assert.Equal(t, entity.StatusCancelled, f.orderStatus(t, o.ID))

	evs := f.events.byType(event.OrderUpdated)
	require.Len(t, evs, 1)
	assert.Equal(t, o.ID, evs[0].OrderID)
	assert.Equal(t, entity.StatusCancelled, evs[0].Status)
}

func TestExpiryRepeatNotificationIsNoop(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusPending)

	w := NewExpiryWatcher(nil, f.orders, zap.NewNop())
	w.HandleExpiry(o.ID)
	w.HandleExpiry(o.ID)

	assert.Equal(t, entity.StatusCancelled, f.orderStatus(t, o.ID))
}

func TestExpiryLeavesSettledOrdersAlone(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusPreparing)

	w := NewExpiryWatcher(nil, f.orders, zap.NewNop())
	w.HandleExpiry(o.ID)

	assert.Equal(t, entity.StatusPreparing, f.orderStatus(t, o.ID))
}
