package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	MenuID uint `json:"menuId"`
	Qty    int  `json:"qty"`

	// Menu snapshot at checkout time.
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`

	AddOnCategories []OrderItemAddOnCategory `json:"addOnCategories" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Subtotal is base price * qty plus every selected add-on item.
func (it *OrderItem) Subtotal() int64 {
	total := it.Price * int64(it.Qty)
	for i := range it.AddOnCategories {
		for j := range it.AddOnCategories[i].Items {
			total += it.AddOnCategories[i].Items[j].Price
		}
	}
	return total
}
