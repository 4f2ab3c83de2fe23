package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/entity"
	"github.com/jasondarel/FastEats-sub001/event"
	"github.com/jasondarel/FastEats-sub001/gateway"
	"github.com/jasondarel/FastEats-sub001/repository"
)

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	CartRepo *repository.CartRepository
	Jobs     *repository.JobRepository
	Catalog  CatalogGateway
	Identity IdentityGateway
	Events   event.Broadcaster
	Log      *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	jobs *repository.JobRepository,
	catalog CatalogGateway,
	identity IdentityGateway,
	events event.Broadcaster,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, CartRepo: cartRepo, Jobs: jobs,
		Catalog: catalog, Identity: identity, Events: events, Log: log,
	}
}

// ----- DTOs from controllers -----

type CreateOrderReq struct {
	MenuID uint `json:"menuId" binding:"required"`
	Qty    int  `json:"qty" binding:"required,min=1"`
	// Add-on selections: category name -> selected item names.
	AddOns map[string][]string `json:"addOns"`
}

// Create is the direct single-item checkout (origin CHECKOUT). Catalog
// lookups happen before the transaction opens so no DB transaction
// spans an external HTTP call.
func (s *OrderService) Create(ctx context.Context, userID uint, req *CreateOrderReq) (*entity.Order, error) {
	menu, err := s.Catalog.MenuByID(ctx, req.MenuID)
	if err != nil {
		return nil, err
	}
	rest, err := s.Catalog.RestaurantByID(ctx, menu.RestaurantID)
	if err != nil {
		return nil, err
	}

	item, err := buildOrderItem(menu, req.Qty, req.AddOns)
	if err != nil {
		return nil, err
	}

	order := newOrderHeader(userID, rest, entity.OriginCheckout, req.Qty)
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateOrder(tx, order); err != nil {
			return err
		}
		item.OrderID = order.ID
		return s.Repo.CreateOrderItem(tx, item)
	})
	if err != nil {
		return nil, err
	}

	order.Items = []entity.OrderItem{*item}
	return order, nil
}

// CheckoutCart converts an accumulated cart into one order (origin
// CART): one OrderItem per distinct menu id, quantities summed, then
// every cart of the user is deleted. All inside one transaction.
func (s *OrderService) CheckoutCart(ctx context.Context, userID, cartID uint) (*entity.Order, error) {
	cart, err := s.CartRepo.GetCartWithItems(cartID)
	if err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, ErrForbidden
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Group by menu id, summing quantities across duplicate rows.
	qtyByMenu := make(map[uint]int)
	menuOrder := make([]uint, 0, len(cart.Items))
	for _, it := range cart.Items {
		if _, seen := qtyByMenu[it.MenuID]; !seen {
			menuOrder = append(menuOrder, it.MenuID)
		}
		qtyByMenu[it.MenuID] += it.Qty
	}

	// Resolve all snapshots before the transaction opens. Any failed
	// lookup aborts checkout; the cart stays untouched.
	rest, err := s.Catalog.RestaurantByID(ctx, cart.RestaurantID)
	if err != nil {
		return nil, err
	}
	items := make([]*entity.OrderItem, 0, len(menuOrder))
	totalQty := 0
	for _, menuID := range menuOrder {
		menu, err := s.Catalog.MenuByID(ctx, menuID)
		if err != nil {
			return nil, err
		}
		item, err := buildOrderItem(menu, qtyByMenu[menuID], nil)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		totalQty += qtyByMenu[menuID]
	}

	order := newOrderHeader(userID, rest, entity.OriginCart, totalQty)
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateOrder(tx, order); err != nil {
			return err
		}
		for _, item := range items {
			item.OrderID = order.ID
			if err := s.Repo.CreateOrderItem(tx, item); err != nil {
				return err
			}
		}
		return s.CartRepo.DeleteAllForUser(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		order.Items = append(order.Items, *item)
	}
	return order, nil
}

// ----- Reads -----

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForUser(userID, limit)
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrderDetail(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID && o.SellerID != userID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *OrderService) ListForRestaurant(sellerID, restaurantID uint) ([]entity.Order, error) {
	return s.Repo.ListOrdersForSeller(sellerID, restaurantID)
}

// ----- Helpers -----

func newOrderHeader(userID uint, rest *gateway.RestaurantSnapshot, origin entity.OrderOrigin, qty int) *entity.Order {
	return &entity.Order{
		UserID:            userID,
		RestaurantID:      rest.ID,
		SellerID:          rest.OwnerID,
		Quantity:          qty,
		Status:            entity.StatusWaiting,
		Origin:            origin,
		RestaurantName:    rest.Name,
		RestaurantAddress: rest.Address,
		RestaurantImage:   rest.Image,
		Latitude:          rest.Latitude,
		Longitude:         rest.Longitude,
	}
}

// buildOrderItem snapshots the menu and resolves add-on selections
// against the catalog's add-on categories.
func buildOrderItem(menu *gateway.MenuSnapshot, qty int, addOns map[string][]string) (*entity.OrderItem, error) {
	item := &entity.OrderItem{
		MenuID:      menu.ID,
		Qty:         qty,
		Name:        menu.Name,
		Description: menu.Description,
		Price:       menu.Price,
		Image:       menu.Image,
		Category:    menu.Category,
	}

	byName := make(map[string]gateway.AddOnCategorySnapshot, len(menu.AddOns))
	for _, cat := range menu.AddOns {
		byName[cat.Name] = cat
	}

	for catName, selected := range addOns {
		cat, ok := byName[catName]
		if !ok {
			return nil, ErrAddOnSelection
		}
		if cat.MaxSelectable > 0 && len(selected) > cat.MaxSelectable {
			return nil, ErrAddOnSelection
		}
		row := entity.OrderItemAddOnCategory{
			Name:          cat.Name,
			MaxSelectable: cat.MaxSelectable,
			Required:      cat.Required,
		}
		for _, sel := range selected {
			found := false
			for _, opt := range cat.Items {
				if opt.Name == sel {
					row.Items = append(row.Items, entity.OrderItemAddOnItem{
						Name: opt.Name, Price: opt.Price,
					})
					found = true
					break
				}
			}
			if !found {
				return nil, ErrAddOnSelection
			}
		}
		item.AddOnCategories = append(item.AddOnCategories, row)
	}

	// Required categories must carry at least one selection.
	for _, cat := range menu.AddOns {
		if !cat.Required {
			continue
		}
		if len(addOns[cat.Name]) == 0 {
			return nil, ErrAddOnSelection
		}
	}
	return item, nil
}

// OrderJobPayload is what the outbox carries to the broker for
// downstream notification consumers.
type OrderJobPayload struct {
	EventID string                `json:"event_id"`
	OrderID uint                  `json:"order_id"`
	Status  entity.OrderStatus    `json:"status"`
	Total   int64                 `json:"total"`
	Order   *entity.Order         `json:"order"`
	Buyer   *gateway.UserSnapshot `json:"buyer,omitempty"`
	Seller  *gateway.UserSnapshot `json:"seller,omitempty"`
}

// BuildJobPayload assembles the full order-detail payload. Identity
// lookups are tolerated-as-optional: a failure logs and leaves the
// field empty instead of blocking the notification.
func (s *OrderService) BuildJobPayload(ctx context.Context, orderID uint, status entity.OrderStatus) ([]byte, error) {
	o, err := s.Repo.GetOrderDetail(orderID)
	if err != nil {
		return nil, err
	}

	payload := OrderJobPayload{
		EventID: event.NewOrderEvent(event.OrderUpdated, orderID, status).EventID,
		OrderID: orderID,
		Status:  status,
		Total:   o.Total(),
		Order:   o,
	}
	if buyer, err := s.Identity.UserByID(ctx, o.UserID); err != nil {
		s.Log.Warn("buyer lookup failed", zap.Uint("orderId", orderID), zap.Error(err))
	} else {
		payload.Buyer = buyer
	}
	if seller, err := s.Identity.UserByID(ctx, o.SellerID); err != nil {
		s.Log.Warn("seller lookup failed", zap.Uint("orderId", orderID), zap.Error(err))
	} else {
		payload.Seller = seller
	}
	return json.Marshal(payload)
}
