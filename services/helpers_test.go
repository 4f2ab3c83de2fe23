package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/event"
	"github.com/jasondarel/FastEats-sub001/gateway"
	"github.com/jasondarel/FastEats-sub001/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Cart{}, &entity.CartItem{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.OrderItemAddOnCategory{}, &entity.OrderItemAddOnItem{},
		&entity.Transaction{},
		&entity.OrderJob{},
	))
	return db
}

// ----- collaborator stubs -----

type stubCatalog struct {
	menus       map[uint]*gateway.MenuSnapshot
	restaurants map[uint]*gateway.RestaurantSnapshot
	failMenus   map[uint]bool
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		menus:       make(map[uint]*gateway.MenuSnapshot),
		restaurants: make(map[uint]*gateway.RestaurantSnapshot),
		failMenus:   make(map[uint]bool),
	}
}

func (s *stubCatalog) MenuByID(_ context.Context, id uint) (*gateway.MenuSnapshot, error) {
	if s.failMenus[id] {
		return nil, errors.New("catalog unavailable")
	}
	m, ok := s.menus[id]
	if !ok {
		return nil, errors.New("menu not found")
	}
	return m, nil
}

func (s *stubCatalog) RestaurantByID(_ context.Context, id uint) (*gateway.RestaurantSnapshot, error) {
	r, ok := s.restaurants[id]
	if !ok {
		return nil, errors.New("restaurant not found")
	}
	return r, nil
}

type stubIdentity struct {
	users map[uint]*gateway.UserSnapshot
}

func (s *stubIdentity) UserByID(_ context.Context, id uint) (*gateway.UserSnapshot, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

type stubLease struct {
	mu       sync.Mutex
	held     map[uint]bool
	acquired int
	released int
}

func newStubLease() *stubLease {
	return &stubLease{held: make(map[uint]bool)}
}

func (s *stubLease) Acquire(_ context.Context, orderID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[orderID] {
		return false, nil
	}
	s.held[orderID] = true
	s.acquired++
	return true, nil
}

func (s *stubLease) Release(_ context.Context, orderID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, orderID)
	s.released++
	return nil
}

type stubBroadcaster struct {
	mu     sync.Mutex
	events []event.OrderEvent
}

func (s *stubBroadcaster) Broadcast(ev event.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *stubBroadcaster) byType(t event.Type) []event.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.OrderEvent
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// ----- fixture wiring -----

type fixture struct {
	db       *gorm.DB
	catalog  *stubCatalog
	identity *stubIdentity
	lease    *stubLease
	events   *stubBroadcaster
	orders   *OrderService
	carts    *CartService
	payments *PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	catalog := newStubCatalog()
	identity := &stubIdentity{users: make(map[uint]*gateway.UserSnapshot)}
	lease := newStubLease()
	events := &stubBroadcaster{}
	log := zap.NewNop()

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	jobRepo := repository.NewJobRepository(db)

	orders := NewOrderService(db, orderRepo, cartRepo, jobRepo, catalog, identity, events, log)
	carts := NewCartService(db, cartRepo, catalog, log)
	payments := NewPaymentService(db, orders, txRepo, lease, "server-key-test", log)

	return &fixture{
		db: db, catalog: catalog, identity: identity, lease: lease,
		events: events, orders: orders, carts: carts, payments: payments,
	}
}

func (f *fixture) addMenu(id, restaurantID uint, name string, price int64, addOns ...gateway.AddOnCategorySnapshot) {
	f.catalog.menus[id] = &gateway.MenuSnapshot{
		ID: id, RestaurantID: restaurantID, Name: name,
		Price: price, Category: "food", AddOns: addOns,
	}
}

func (f *fixture) addRestaurant(id, ownerID uint, name string) {
	f.catalog.restaurants[id] = &gateway.RestaurantSnapshot{
		ID: id, OwnerID: ownerID, Name: name, Address: "1 Main St",
	}
}

func (f *fixture) seedOrder(t *testing.T, userID, sellerID uint, status entity.OrderStatus) *entity.Order {
	t.Helper()
	o := &entity.Order{
		UserID: userID, RestaurantID: 1, SellerID: sellerID,
		Quantity: 1, Status: status, Origin: entity.OriginCheckout,
		RestaurantName: "Test Resto",
		Items: []entity.OrderItem{
			{MenuID: 1, Qty: 1, Name: "Nasi Goreng", Price: 25000},
		},
	}
	require.NoError(t, f.db.Create(o).Error)
	return o
}

func (f *fixture) orderStatus(t *testing.T, orderID uint) entity.OrderStatus {
	t.Helper()
	var o entity.Order
	require.NoError(t, f.db.First(&o, orderID).Error)
	return o.Status
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
