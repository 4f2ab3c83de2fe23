package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jasondarel/FastEats-sub001/cache"
	"github.com/jasondarel/FastEats-sub001/configs"
	"github.com/jasondarel/FastEats-sub001/controllers"
	"github.com/jasondarel/FastEats-sub001/gateway"
	"github.com/jasondarel/FastEats-sub001/middlewares"
	"github.com/jasondarel/FastEats-sub001/repository"
	"github.com/jasondarel/FastEats-sub001/services"
	"github.com/jasondarel/FastEats-sub001/ws"
)

// Deps are the long-lived handles built once in main and reused by
// every request handler.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Hub    *ws.OrderHub
	Log    *zap.Logger
	Config *configs.Config
}

// Services wires repositories, gateways and services and returns the
// ones background workers also need.
func Services(d *Deps) (*services.OrderService, *services.CartService, *services.PaymentService) {
	orderRepo := repository.NewOrderRepository(d.DB)
	cartRepo := repository.NewCartRepository(d.DB)
	txRepo := repository.NewTransactionRepository(d.DB)
	jobRepo := repository.NewJobRepository(d.DB)

	catalog := gateway.NewCatalogClient(d.Config.CatalogBaseURL, d.Config.ServiceToken)
	identity := gateway.NewIdentityClient(d.Config.IdentityBaseURL, d.Config.ServiceToken)
	lease := cache.NewLeaseStore(d.Redis, d.Config.PendingTTL)

	orderSvc := services.NewOrderService(d.DB, orderRepo, cartRepo, jobRepo, catalog, identity, d.Hub, d.Log)
	cartSvc := services.NewCartService(d.DB, cartRepo, catalog, d.Log)
	paySvc := services.NewPaymentService(d.DB, orderSvc, txRepo, lease, d.Config.PaymentServerKey, d.Log)

	return orderSvc, cartSvc, paySvc
}

func RegisterRoutes(r *gin.Engine, d *Deps, orderSvc *services.OrderService, cartSvc *services.CartService, paySvc *services.PaymentService) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"success": true}) })

	orderCtrl := controllers.NewOrderController(orderSvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	payCtrl := controllers.NewPaymentController(paySvc)

	// Payment webhook (gateway-authenticated by signature, not JWT).
	r.POST("/pay-order", payCtrl.PayOrder)

	// Real-time order events.
	r.GET("/ws/orders/:id", d.Hub.HandleWebSocket)

	auth := r.Group("/", middlewares.AuthMiddleware(d.Config.JWTSecret))
	{
		auth.GET("/cart", cartCtrl.Get)
		auth.POST("/cart", cartCtrl.Open)
		auth.POST("/cart/items", cartCtrl.AddItem)
		auth.PATCH("/cart/items", cartCtrl.UpdateQty)
		auth.DELETE("/cart/items/:menuId", cartCtrl.RemoveItem)

		auth.POST("/order", orderCtrl.Create)
		auth.POST("/checkout-cart/:cartId", orderCtrl.CheckoutCart)

		auth.PATCH("/cancel-order/:id", orderCtrl.Cancel)
		auth.PATCH("/deliver-order/:id", orderCtrl.Deliver)
		auth.PATCH("/complete-order/:id", orderCtrl.Complete)

		auth.GET("/orders", orderCtrl.List)
		auth.GET("/orders/:id", orderCtrl.Detail)
		auth.GET("/restaurant-orders", orderCtrl.ListForRestaurant)
	}
}
