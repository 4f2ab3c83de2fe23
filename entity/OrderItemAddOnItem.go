package entity

import (
	"gorm.io/gorm"
)

type OrderItemAddOnItem struct {
	gorm.Model
	OrderItemAddOnCategoryID uint                   `json:"orderItemAddOnCategoryId"`
	OrderItemAddOnCategory   OrderItemAddOnCategory `json:"-"`

	Name  string `json:"name"`
	Price int64  `json:"price"`
}
