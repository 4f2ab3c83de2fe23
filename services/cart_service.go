package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/repository"
)

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	Catalog  CatalogGateway
	Log      *zap.Logger
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, catalog CatalogGateway, log *zap.Logger) *CartService {
	return &CartService{DB: db, CartRepo: cr, Catalog: catalog, Log: log}
}

// Open purges carts bound to other restaurants, then creates or returns
// the (user, restaurant) cart. One active cart per user.
func (s *CartService) Open(ctx context.Context, userID, restaurantID uint) (*entity.Cart, error) {
	if _, err := s.Catalog.RestaurantByID(ctx, restaurantID); err != nil {
		return nil, err
	}

	var out *entity.Cart
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.PurgeOtherRestaurants(tx, userID, restaurantID); err != nil {
			return err
		}
		c, err := s.CartRepo.GetOrCreateCart(tx, userID, restaurantID)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddItem merges quantity when the menu is already in the cart.
func (s *CartService) AddItem(ctx context.Context, userID, cartID, menuID uint, qty int) error {
	if qty <= 0 {
		qty = 1
	}

	c, err := s.CartRepo.GetCart(cartID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrForbidden
	}

	m, err := s.Catalog.MenuByID(ctx, menuID)
	if err != nil {
		return err
	}
	if m.RestaurantID != c.RestaurantID {
		return ErrMenuNotInCart
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.UpsertItem(tx, c.ID, menuID, qty)
	})
}

func (s *CartService) UpdateItemQuantity(userID, menuID uint, qty int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.UpdateQty(tx, userID, menuID, qty)
	})
}

func (s *CartService) RemoveItem(userID, menuID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.RemoveItem(tx, userID, menuID)
	})
}

func (s *CartService) Get(userID uint) (*entity.Cart, error) {
	return s.CartRepo.GetCartForUser(userID)
}
