package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/event"
	"github.com/jasondarel/FastEats-sub001/gateway"
)

func (f *fixture) notification(orderID uint, status string) *PaymentNotification {
	id := strconv.FormatUint(uint64(orderID), 10)
	n := &PaymentNotification{
		OrderID:           id,
		TransactionStatus: status,
		StatusCode:        "200",
		GrossAmount:       "25000.00",
		PaymentType:       "bank_transfer",
		Currency:          "IDR",
		Bank:              "bca",
		VANumber:          "1234567890",
		Shipping: &ShippingSnapshot{
			Name: "Budi", Phone: "0812", Address: "Jl. Sudirman 1", City: "Jakarta",
		},
		Amounts: &AmountSplit{Tax: 2500, Net: 22500},
	}
	n.SignatureKey = f.payments.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	return n
}

func TestWebhookSignature(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusWaiting)

	// tampered amount with the original signature is rejected
	n := f.notification(o.ID, gatewayPending)
	n.GrossAmount = "1.00"
	err := f.payments.Process(context.Background(), n)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, entity.StatusWaiting, f.orderStatus(t, o.ID))

	// recomputed signature over the same payload is accepted
	n.SignatureKey = f.payments.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	require.NoError(t, f.payments.Process(context.Background(), n))
}

func TestWebhookRejectsIncompleteBody(t *testing.T) {
	f := newFixture(t)

	err := f.payments.Process(context.Background(), &PaymentNotification{
		OrderID: "1", TransactionStatus: "pending",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
}

func TestWebhookPendingBranch(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusWaiting)

	require.NoError(t, f.payments.Process(context.Background(), f.notification(o.ID, gatewayPending)))

	assert.Equal(t, entity.StatusPending, f.orderStatus(t, o.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.Transaction{}, "order_id = ?", o.ID))
	assert.Equal(t, 1, f.lease.acquired)

	var tr entity.Transaction
	require.NoError(t, f.db.Where("order_id = ?", o.ID).First(&tr).Error)
	assert.EqualValues(t, 25000, tr.GrossAmount)
	assert.Equal(t, "bca", tr.Bank)
	assert.Equal(t, "Budi", tr.RecipientName)
	assert.EqualValues(t, 22500, tr.NetAmount)

	// re-delivery: still one transaction row, countdown not restarted
	require.NoError(t, f.payments.Process(context.Background(), f.notification(o.ID, gatewayPending)))
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.Transaction{}, "order_id = ?", o.ID))
	assert.Equal(t, 1, f.lease.acquired)
	assert.Equal(t, entity.StatusPending, f.orderStatus(t, o.ID))

	evs := f.events.byType(event.OrderUpdated)
	require.Len(t, evs, 1)
	assert.Equal(t, entity.StatusPending, evs[0].Status)
}

func TestWebhookSettlementIdempotent(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusPending)
	f.lease.held[o.ID] = true
	f.identity.users[7] = &gateway.UserSnapshot{ID: 7, Name: "Budi"}
	f.identity.users[9] = &gateway.UserSnapshot{ID: 9, Name: "Warung A"}

	require.NoError(t, f.payments.Process(context.Background(), f.notification(o.ID, gatewaySettlement)))

	assert.Equal(t, entity.StatusPreparing, f.orderStatus(t, o.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.Transaction{}, "order_id = ?", o.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.OrderJob{},
		"routing_key = ? AND status = ?", RouteOrderPreparing, entity.JobPending))
	assert.Equal(t, 1, f.lease.released)

	// second delivery: no extra job, no status corruption, no error
	require.NoError(t, f.payments.Process(context.Background(), f.notification(o.ID, gatewaySettlement)))
	assert.Equal(t, entity.StatusPreparing, f.orderStatus(t, o.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.Transaction{}, "order_id = ?", o.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.OrderJob{}, "routing_key = ?", RouteOrderPreparing))
}

func TestWebhookSettlementPayloadTolerantOfIdentityFailure(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusPending)
	// identity stub has no users: lookups fail, processing still works

	require.NoError(t, f.payments.Process(context.Background(), f.notification(o.ID, gatewaySettlement)))
	assert.Equal(t, entity.StatusPreparing, f.orderStatus(t, o.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.OrderJob{}, "routing_key = ?", RouteOrderPreparing))
}

func TestWebhookTerminalGatewayStatusesAreInformational(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusPending)

	for _, status := range []string{gatewayCancel, gatewayDeny, gatewayExpire} {
		require.NoError(t, f.payments.Process(context.Background(), f.notification(o.ID, status)))
	}
	assert.Equal(t, entity.StatusPending, f.orderStatus(t, o.ID))
	assert.EqualValues(t, 0, countRows(t, f.db, &entity.Transaction{}, ""))
}

func TestWebhookUnknownStatusAcknowledged(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, 7, 9, entity.StatusPending)

	require.NoError(t, f.payments.Process(context.Background(), f.notification(o.ID, "refund_requested")))
	assert.Equal(t, entity.StatusPending, f.orderStatus(t, o.ID))
	assert.EqualValues(t, 0, countRows(t, f.db, &entity.OrderJob{}, ""))
}
