package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasondarel/FastEats-sub001/entity"
)

func TestCartAddItemMergesQuantities(t *testing.T) {
	f := newFixture(t)
	f.addRestaurant(1, 9, "Warung A")
	f.addMenu(10, 1, "Sate Ayam", 30000)

	cart, err := f.carts.Open(context.Background(), 7, 1)
	require.NoError(t, err)

	require.NoError(t, f.carts.AddItem(context.Background(), 7, cart.ID, 10, 2))
	require.NoError(t, f.carts.AddItem(context.Background(), 7, cart.ID, 10, 3))

	var items []entity.CartItem
	require.NoError(t, f.db.Where("cart_id = ?", cart.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Qty)
}

func TestCartAddItemRejectsForeignCart(t *testing.T) {
	f := newFixture(t)
	f.addRestaurant(1, 9, "Warung A")
	f.addMenu(10, 1, "Sate Ayam", 30000)

	cart, err := f.carts.Open(context.Background(), 7, 1)
	require.NoError(t, err)

	err = f.carts.AddItem(context.Background(), 8, cart.ID, 10, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCartAddItemRejectsMenuFromOtherRestaurant(t *testing.T) {
	f := newFixture(t)
	f.addRestaurant(1, 9, "Warung A")
	f.addMenu(20, 2, "Bakso", 20000)

	cart, err := f.carts.Open(context.Background(), 7, 1)
	require.NoError(t, err)

	err = f.carts.AddItem(context.Background(), 7, cart.ID, 20, 1)
	assert.ErrorIs(t, err, ErrMenuNotInCart)
}

func TestCartOpenPurgesOtherRestaurantCarts(t *testing.T) {
	f := newFixture(t)
	f.addRestaurant(1, 9, "Warung A")
	f.addRestaurant(2, 9, "Warung B")
	f.addMenu(10, 1, "Sate Ayam", 30000)

	first, err := f.carts.Open(context.Background(), 7, 1)
	require.NoError(t, err)
	require.NoError(t, f.carts.AddItem(context.Background(), 7, first.ID, 10, 2))

	second, err := f.carts.Open(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	assert.EqualValues(t, 1, countRows(t, f.db, &entity.Cart{}, "user_id = ?", 7))
	assert.EqualValues(t, 0, countRows(t, f.db, &entity.CartItem{}, "cart_id = ?", first.ID))
}

func TestCartOpenIsIdempotentPerRestaurant(t *testing.T) {
	f := newFixture(t)
	f.addRestaurant(1, 9, "Warung A")

	first, err := f.carts.Open(context.Background(), 7, 1)
	require.NoError(t, err)
	again, err := f.carts.Open(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.EqualValues(t, 1, countRows(t, f.db, &entity.Cart{}, "user_id = ?", 7))
}

func TestCartUpdateQuantityAndRemove(t *testing.T) {
	f := newFixture(t)
	f.addRestaurant(1, 9, "Warung A")
	f.addMenu(10, 1, "Sate Ayam", 30000)

	cart, err := f.carts.Open(context.Background(), 7, 1)
	require.NoError(t, err)
	require.NoError(t, f.carts.AddItem(context.Background(), 7, cart.ID, 10, 2))

	require.NoError(t, f.carts.UpdateItemQuantity(7, 10, 6))
	var item entity.CartItem
	require.NoError(t, f.db.Where("cart_id = ? AND menu_id = ?", cart.ID, 10).First(&item).Error)
	assert.Equal(t, 6, item.Qty)

	// qty <= 0 removes the row
	require.NoError(t, f.carts.UpdateItemQuantity(7, 10, 0))
	assert.EqualValues(t, 0, countRows(t, f.db, &entity.CartItem{}, "cart_id = ?", cart.ID))
}
