package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// CreateOrderItem persists the item together with its nested add-on
// categories/items (gorm cascades the associations).
func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderDetail loads the full order: items, add-ons and transaction.
func (r *OrderRepository) GetOrderDetail(orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.
		Preload("Items").
		Preload("Items.AddOnCategories").
		Preload("Items.AddOnCategories.Items").
		Preload("Transaction").
		First(&o, orderID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID             uint               `json:"id"`
	RestaurantID   uint               `json:"restaurantId"`
	RestaurantName string             `json:"restaurantName"`
	Quantity       int                `json:"quantity"`
	Status         entity.OrderStatus `json:"status"`
	Origin         entity.OrderOrigin `json:"origin"`
	CreatedAt      time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, restaurant_id, restaurant_name, quantity, status, origin, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

// ListOrdersForSeller returns a restaurant's orders still in flight.
// The seller id snapshot on the order is the ownership check.
func (r *OrderRepository) ListOrdersForSeller(sellerID, restaurantID uint) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.
		Where("seller_id = ? AND restaurant_id = ? AND status IN ?",
			sellerID, restaurantID, entity.ActiveStatuses()).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

// ---------------- Status transitions ----------------

// UpdateStatusGuard is a compare-and-swap on the status column. Zero
// rows affected means the order was not in `from` anymore.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// CancelIfUnpaid cancels an order that never reached Preparing. Used by
// the expiry watcher; repeat notifications match zero rows.
func (r *OrderRepository) CancelIfUnpaid(tx *gorm.DB, orderID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status IN ?", orderID,
			[]entity.OrderStatus{entity.StatusWaiting, entity.StatusPending}).
		Update("status", entity.StatusCancelled)
	return res.RowsAffected, res.Error
}
