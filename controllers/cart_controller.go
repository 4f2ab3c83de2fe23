package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/pkg/resp"
	"github.com/jasondarel/FastEats-sub001/services"
	"github.com/jasondarel/FastEats-sub001/utils"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// POST /cart
func (h *CartController) Open(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req struct {
		RestaurantID uint `json:"restaurantId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	cart, err := h.Svc.Open(c.Request.Context(), uid, req.RestaurantID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, "cart ready", cart)
}

// POST /cart/items
func (h *CartController) AddItem(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req struct {
		CartID uint `json:"cartId" binding:"required"`
		MenuID uint `json:"menuId" binding:"required"`
		Qty    int  `json:"qty" binding:"min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	err := h.Svc.AddItem(c.Request.Context(), uid, req.CartID, req.MenuID, req.Qty)
	switch {
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrMenuNotInCart):
		resp.Conflict(c, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "cart not found")
	case err != nil:
		resp.BadRequest(c, err.Error())
	default:
		resp.Created(c, "item added", nil)
	}
}

// PATCH /cart/items
func (h *CartController) UpdateQty(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req struct {
		MenuID uint `json:"menuId" binding:"required"`
		Qty    int  `json:"qty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := h.Svc.UpdateItemQuantity(uid, req.MenuID, req.Qty); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, "quantity updated", nil)
}

// DELETE /cart/items/:menuId
func (h *CartController) RemoveItem(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	menuID64, err := strconv.ParseUint(c.Param("menuId"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid menu id")
		return
	}

	if err := h.Svc.RemoveItem(uid, uint(menuID64)); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, "item removed", nil)
}

// GET /cart
func (h *CartController) Get(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	cart, err := h.Svc.Get(uid)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, "cart", cart)
}
