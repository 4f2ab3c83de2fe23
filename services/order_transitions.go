package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/event"
)

// Caller-driven status transitions. Each one is a guarded
// compare-and-swap: zero rows affected means the order was not in the
// required status and the request is rejected, never silently ignored.

// Cancel lets the order owner cancel while the order is still Waiting.
func (s *OrderService) Cancel(userID, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrForbidden
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, orderID, entity.StatusWaiting, entity.StatusCancelled)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Status = entity.StatusCancelled
	s.Events.Broadcast(event.NewOrderEvent(event.OrderUpdated, orderID, entity.StatusCancelled))
	return o, nil
}

// Deliver moves Preparing -> Delivering. Only the restaurant owner the
// order was sold by may call it.
func (s *OrderService) Deliver(callerID, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o.SellerID != callerID {
		return nil, ErrForbidden
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, orderID, entity.StatusPreparing, entity.StatusDelivering)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Status = entity.StatusDelivering
	s.Events.Broadcast(event.NewOrderEvent(event.OrderDelivering, orderID, entity.StatusDelivering))
	return o, nil
}

// Complete moves Delivering -> Completed when the buyer confirms
// receipt, and enqueues the notify-both-parties outbox job in the same
// transaction as the status change.
func (s *OrderService) Complete(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrForbidden
	}

	// Collaborator lookups happen before the transaction opens.
	payload, err := s.BuildJobPayload(ctx, orderID, entity.StatusCompleted)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, orderID, entity.StatusDelivering, entity.StatusCompleted)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}
		return s.Jobs.Enqueue(tx, RouteOrderCompleted, payload)
	})
	if err != nil {
		return nil, err
	}

	o.Status = entity.StatusCompleted
	s.Events.Broadcast(event.NewOrderEvent(event.OrderCompleted, orderID, entity.StatusCompleted))
	return o, nil
}

// CancelExpired is the expiry path: the payment lease ran out before
// settlement. Guarded on Waiting/Pending so repeat notifications for an
// already-cancelled order are no-ops.
func (s *OrderService) CancelExpired(orderID uint) (bool, error) {
	var cancelled bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.CancelIfUnpaid(tx, orderID)
		if err != nil {
			return err
		}
		cancelled = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if cancelled {
		s.Log.Info("order auto-cancelled on lease expiry", zap.Uint("orderId", orderID))
	}
	return cancelled, nil
}
