package entity

import (
	"gorm.io/gorm"
)

type OrderItemAddOnCategory struct {
	gorm.Model
	OrderItemID uint      `json:"orderItemId"`
	OrderItem   OrderItem `json:"-"`

	Name          string `json:"name"`
	MaxSelectable int    `json:"maxSelectable"`
	Required      bool   `json:"required"`

	Items []OrderItemAddOnItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
