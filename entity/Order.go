package entity

import (
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	UserID       uint `json:"userId"`
	RestaurantID uint `json:"restaurantId"`
	SellerID     uint `json:"sellerId"`

	Quantity int         `json:"quantity"`
	Status   OrderStatus `json:"status" gorm:"index"`
	Origin   OrderOrigin `json:"origin"`

	// Catalog snapshot taken at creation time. Immutable afterwards so
	// later menu/restaurant edits never rewrite order history.
	RestaurantName    string `json:"restaurantName"`
	RestaurantAddress string `json:"restaurantAddress"`
	RestaurantImage   string `json:"restaurantImage"`
	Latitude          string `json:"latitude"`
	Longitude         string `json:"longitude"`

	Items       []OrderItem  `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// Total is the pricing formula the payment path reports against:
// per item, unit price times quantity plus the selected add-ons.
func (o *Order) Total() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Subtotal()
	}
	return total
}
