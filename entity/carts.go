package entity

import (
	"gorm.io/gorm"
)

// Cart is unique per (user, restaurant). Only one cart stays active per
// user: opening a cart for another restaurant purges the old ones.
type Cart struct {
	gorm.Model
	UserID       uint `json:"userId" gorm:"uniqueIndex:idx_cart_user_restaurant"`
	RestaurantID uint `json:"restaurantId" gorm:"uniqueIndex:idx_cart_user_restaurant"`

	Items []CartItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
