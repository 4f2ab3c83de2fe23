package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
)

type TransactionRepository struct{ DB *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// Upsert creates or updates the transaction row keyed by order id, so a
// re-delivered webhook never produces a duplicate.
func (r *TransactionRepository) Upsert(tx *gorm.DB, t *entity.Transaction) error {
	var exist entity.Transaction
	err := tx.Where("order_id = ?", t.OrderID).First(&exist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(t).Error
	}
	if err != nil {
		return err
	}
	t.ID = exist.ID
	t.CreatedAt = exist.CreatedAt
	return tx.Save(t).Error
}

func (r *TransactionRepository) GetByOrder(orderID uint) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := r.DB.Where("order_id = ?", orderID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
