package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/pkg/resp"
	"github.com/jasondarel/FastEats-sub001/services"
	"github.com/jasondarel/FastEats-sub001/utils"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(s *services.OrderService) *OrderController { return &OrderController{Svc: s} }

func paramID(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id64 == 0 {
		resp.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id64), true
}

func writeOrderErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		resp.Conflict(c, err.Error())
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrAddOnSelection):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "order not found")
	default:
		resp.ServerError(c, err)
	}
}

// POST /order, direct single-item checkout.
func (h *OrderController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := h.Svc.Create(c.Request.Context(), uid, &req)
	if err != nil {
		writeOrderErr(c, err)
		return
	}
	resp.Created(c, "order created", order)
}

// POST /checkout-cart/:cartId
func (h *OrderController) CheckoutCart(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	cartID, ok := paramID(c, "cartId")
	if !ok {
		return
	}

	order, err := h.Svc.CheckoutCart(c.Request.Context(), uid, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "cart not found")
			return
		}
		writeOrderErr(c, err)
		return
	}
	resp.Created(c, "order created", order)
}

// PATCH /cancel-order/:id
func (h *OrderController) Cancel(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.Svc.Cancel(uid, orderID)
	if err != nil {
		writeOrderErr(c, err)
		return
	}
	resp.OK(c, "order cancelled", order)
}

// PATCH /deliver-order/:id
func (h *OrderController) Deliver(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.Svc.Deliver(uid, orderID)
	if err != nil {
		writeOrderErr(c, err)
		return
	}
	resp.OK(c, "order delivering", order)
}

// PATCH /complete-order/:id
func (h *OrderController) Complete(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.Svc.Complete(c.Request.Context(), uid, orderID)
	if err != nil {
		writeOrderErr(c, err)
		return
	}
	resp.OK(c, "order completed", order)
}

// GET /orders
func (h *OrderController) List(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, err := h.Svc.ListForUser(uid, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, "orders", orders)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.Svc.DetailForUser(uid, orderID)
	if err != nil {
		writeOrderErr(c, err)
		return
	}
	resp.OK(c, "order", order)
}

// GET /restaurant-orders?restaurantId=, in-flight orders only.
func (h *OrderController) ListForRestaurant(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	restID64, err := strconv.ParseUint(c.Query("restaurantId"), 10, 64)
	if err != nil || restID64 == 0 {
		resp.BadRequest(c, "invalid restaurantId")
		return
	}

	orders, err := h.Svc.ListForRestaurant(uid, uint(restID64))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, "restaurant orders", gin.H{
		"orders":   orders,
		"statuses": entity.ActiveStatuses(),
	})
}
