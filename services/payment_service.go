package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/event"
	"github.com/jasondarel/FastEats-sub001/repository"
)

// Gateway-reported transaction statuses the processor branches on.
const (
	gatewayPending    = "pending"
	gatewaySettlement = "settlement"
	gatewayCancel     = "cancel"
	gatewayDeny       = "deny"
	gatewayExpire     = "expire"
)

// ShippingSnapshot is the typed shape of the gateway's first custom
// field. The positional-array encoding the gateway documents is not
// accepted; senders post the explicit object.
type ShippingSnapshot struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// AmountSplit is the typed shape of the second custom field.
type AmountSplit struct {
	Tax int64 `json:"tax"`
	Net int64 `json:"net_amount"`
}

// PaymentNotification is the webhook body, validated on ingress.
type PaymentNotification struct {
	OrderID           string            `json:"order_id" validate:"required,number"`
	TransactionStatus string            `json:"transaction_status" validate:"required"`
	StatusCode        string            `json:"status_code" validate:"required"`
	GrossAmount       string            `json:"gross_amount" validate:"required"`
	SignatureKey      string            `json:"signature_key" validate:"required"`
	TransactionTime   string            `json:"transaction_time"`
	PaymentType       string            `json:"payment_type"`
	Currency          string            `json:"currency"`
	ExpiryTime        string            `json:"expiry_time"`
	Bank              string            `json:"bank"`
	VANumber          string            `json:"va_number"`
	Shipping          *ShippingSnapshot `json:"custom_field1" validate:"omitempty"`
	Amounts           *AmountSplit      `json:"custom_field2" validate:"omitempty"`
}

type PaymentService struct {
	DB        *gorm.DB
	Orders    *OrderService
	TxRepo    *repository.TransactionRepository
	Lease     Lease
	ServerKey string
	Log       *zap.Logger

	validate *validator.Validate
}

func NewPaymentService(
	db *gorm.DB,
	orders *OrderService,
	txRepo *repository.TransactionRepository,
	lease Lease,
	serverKey string,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		DB: db, Orders: orders, TxRepo: txRepo, Lease: lease,
		ServerKey: serverKey, Log: log,
		validate: validator.New(),
	}
}

// Signature recomputes the expected signature key: a SHA-512 over
// orderId + statusCode + grossAmount + serverKey, hex-encoded.
func (s *PaymentService) Signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.ServerKey))
	return hex.EncodeToString(sum[:])
}

func (s *PaymentService) verifySignature(n *PaymentNotification) error {
	want := s.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	if subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// Process drives the state machine from a gateway callback. The gateway
// retries deliveries, so every branch is safe to replay: transaction
// rows upsert, the lease is create-only, and transition guards turn
// duplicates into no-ops.
func (s *PaymentService) Process(ctx context.Context, n *PaymentNotification) error {
	if err := s.validate.Struct(n); err != nil {
		return err
	}
	if err := s.verifySignature(n); err != nil {
		return err
	}

	orderID64, err := strconv.ParseUint(n.OrderID, 10, 64)
	if err != nil {
		return err
	}
	orderID := uint(orderID64)

	switch n.TransactionStatus {
	case gatewayPending:
		return s.handlePending(ctx, orderID, n)
	case gatewaySettlement:
		return s.handleSettlement(ctx, orderID, n)
	case gatewayCancel, gatewayDeny, gatewayExpire:
		// Terminal on the gateway side; the platform's own expiry and
		// cancel paths stay authoritative.
		s.Log.Info("gateway reported terminal status",
			zap.Uint("orderId", orderID),
			zap.String("transactionStatus", n.TransactionStatus))
		return nil
	default:
		// Unknown statuses must not break the gateway's retry loop.
		s.Log.Warn("unknown transaction status acknowledged",
			zap.Uint("orderId", orderID),
			zap.String("transactionStatus", n.TransactionStatus))
		return nil
	}
}

func (s *PaymentService) handlePending(ctx context.Context, orderID uint, n *PaymentNotification) error {
	var transitioned bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.TxRepo.Upsert(tx, buildTransaction(orderID, n)); err != nil {
			return err
		}
		affected, err := s.Orders.Repo.UpdateStatusGuard(tx, orderID, entity.StatusWaiting, entity.StatusPending)
		if err != nil {
			return err
		}
		transitioned = affected > 0
		return nil
	})
	if err != nil {
		return err
	}

	// Create-only: a re-delivered pending callback never resets the
	// countdown an earlier delivery started.
	created, err := s.Lease.Acquire(ctx, orderID)
	if err != nil {
		s.Log.Error("payment lease write failed", zap.Uint("orderId", orderID), zap.Error(err))
	} else if created {
		s.Log.Info("payment lease placed", zap.Uint("orderId", orderID))
	}

	if transitioned {
		s.Orders.Events.Broadcast(event.NewOrderEvent(event.OrderUpdated, orderID, entity.StatusPending))
	}
	return nil
}

func (s *PaymentService) handleSettlement(ctx context.Context, orderID uint, n *PaymentNotification) error {
	// Assemble the notification payload before the transaction opens:
	// collaborator HTTP never runs inside a held DB transaction.
	payload, err := s.Orders.BuildJobPayload(ctx, orderID, entity.StatusPreparing)
	if err != nil {
		return err
	}

	var transitioned bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.TxRepo.Upsert(tx, buildTransaction(orderID, n)); err != nil {
			return err
		}
		affected, err := s.Orders.Repo.UpdateStatusGuard(tx, orderID, entity.StatusPending, entity.StatusPreparing)
		if err != nil {
			return err
		}
		transitioned = affected > 0
		if !transitioned {
			// Duplicate settlement delivery: keep the upsert, skip the job.
			return nil
		}
		return s.Orders.Jobs.Enqueue(tx, RouteOrderPreparing, payload)
	})
	if err != nil {
		return err
	}

	// Payment is final; no countdown left to run.
	if err := s.Lease.Release(ctx, orderID); err != nil {
		s.Log.Error("payment lease release failed", zap.Uint("orderId", orderID), zap.Error(err))
	}

	if transitioned {
		s.Orders.Events.Broadcast(event.NewOrderEvent(event.OrderUpdated, orderID, entity.StatusPreparing))
	}
	return nil
}

func buildTransaction(orderID uint, n *PaymentNotification) *entity.Transaction {
	t := &entity.Transaction{
		OrderID:     orderID,
		Currency:    n.Currency,
		GrossAmount: parseAmount(n.GrossAmount),
		Bank:        n.Bank,
		VANumber:    n.VANumber,
		PaymentType: n.PaymentType,
	}
	if n.Amounts != nil {
		t.TaxAmount = n.Amounts.Tax
		t.NetAmount = n.Amounts.Net
	}
	if n.Shipping != nil {
		t.RecipientName = n.Shipping.Name
		t.RecipientPhone = n.Shipping.Phone
		t.Address = n.Shipping.Address
		t.City = n.Shipping.City
		t.PostalCode = n.Shipping.PostalCode
	}
	return t
}

// parseAmount reads the gateway's decimal-string amounts ("250000.00")
// into whole currency units.
func parseAmount(s string) int64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}
