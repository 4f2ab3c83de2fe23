package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// PurgeOtherRestaurants enforces the single-active-cart policy: any
// cart of the user bound to a different restaurant is deleted along
// with its items.
func (r *CartRepository) PurgeOtherRestaurants(tx *gorm.DB, userID, restaurantID uint) error {
	var carts []entity.Cart
	if err := tx.Where("user_id = ? AND restaurant_id <> ?", userID, restaurantID).
		Find(&carts).Error; err != nil {
		return err
	}
	for _, c := range carts {
		// Hard delete: the (user, restaurant) pair must stay reusable
		// under the unique index.
		if err := tx.Unscoped().Where("cart_id = ?", c.ID).Delete(&entity.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&entity.Cart{}, c.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *CartRepository) GetOrCreateCart(tx *gorm.DB, userID, restaurantID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := tx.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = entity.Cart{UserID: userID, RestaurantID: restaurantID}
		if err := tx.Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) GetCart(cartID uint) (*entity.Cart, error) {
	var c entity.Cart
	if err := r.DB.First(&c, cartID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) GetCartWithItems(cartID uint) (*entity.Cart, error) {
	var c entity.Cart
	if err := r.DB.Preload("Items").First(&c, cartID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) GetCartForUser(userID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("user_id = ?", userID).Preload("Items").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Cart{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertItem merges quantity into an existing row for the same menu id
// instead of duplicating it.
func (r *CartRepository) UpsertItem(tx *gorm.DB, cartID, menuID uint, qty int) error {
	var exist entity.CartItem
	err := tx.Where("cart_id = ? AND menu_id = ?", cartID, menuID).First(&exist).Error
	if err == nil {
		exist.Qty += qty
		return tx.Save(&exist).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&entity.CartItem{CartID: cartID, MenuID: menuID, Qty: qty}).Error
}

func (r *CartRepository) UpdateQty(tx *gorm.DB, userID, menuID uint, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(tx, userID, menuID)
	}
	return tx.Exec(`
		UPDATE cart_items
		   SET qty = ?
		 WHERE menu_id = ?
		   AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)
	`, qty, menuID, userID).Error
}

func (r *CartRepository) RemoveItem(tx *gorm.DB, userID, menuID uint) error {
	return tx.
		Where("menu_id = ? AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)", menuID, userID).
		Delete(&entity.CartItem{}).Error
}

// DeleteAllForUser removes every cart of the user. Called once checkout
// commits, inside the same transaction.
func (r *CartRepository) DeleteAllForUser(tx *gorm.DB, userID uint) error {
	if err := tx.Exec(`
		DELETE FROM cart_items
		 WHERE cart_id IN (SELECT id FROM carts WHERE user_id = ?)
	`, userID).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("user_id = ?", userID).Delete(&entity.Cart{}).Error
}
