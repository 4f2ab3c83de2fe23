package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jasondarel/FastEats-sub001/pkg/resp"
	"github.com/jasondarel/FastEats-sub001/services"
)

type PaymentController struct{ Svc *services.PaymentService }

func NewPaymentController(s *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: s}
}

// POST /pay-order, the gateway's webhook. Responses favor the
// gateway's retry conventions: 200 on every authenticated,
// structurally valid body no matter which business branch ran, 403
// only on signature mismatch.
func (h *PaymentController) PayOrder(c *gin.Context) {
	var n services.PaymentNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	err := h.Svc.Process(c.Request.Context(), &n)
	if err == nil {
		resp.OK(c, "notification processed", nil)
		return
	}

	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrInvalidSignature):
		resp.Forbidden(c, err.Error())
	case errors.As(err, &verr):
		resp.BadRequest(c, err.Error())
	default:
		// Non-200 so the gateway retries the delivery.
		resp.ServerError(c, err)
	}
}
