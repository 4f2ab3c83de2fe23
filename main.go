package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jasondarel/FastEats-sub001/configs"
	"github.com/jasondarel/FastEats-sub001/middlewares"
	"github.com/jasondarel/FastEats-sub001/routes"
	"github.com/jasondarel/FastEats-sub001/services"
	"github.com/jasondarel/FastEats-sub001/ws"
)

func main() {
	cfg := configs.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()
	configs.SetupDatabase()

	// Keyed store (payment leases + expiry notifications)
	rdb, err := configs.NewRedis(cfg)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()

	// Broker writer for the outbox worker
	writer := configs.NewKafkaWriter(cfg)
	defer writer.Close()

	// Real-time hub
	hub := ws.NewOrderHub(logger)
	go hub.Run()

	deps := &routes.Deps{DB: db, Redis: rdb, Hub: hub, Log: logger, Config: cfg}
	orderSvc, cartSvc, paySvc := routes.Services(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox publish worker
	dispatcher := services.NewOutboxDispatcher(
		orderSvc.Jobs, writer, cfg.KafkaTopicPrefix, cfg.OutboxInterval, logger)
	go dispatcher.Run(ctx)

	// Lease expiry watcher
	watcher := services.NewExpiryWatcher(rdb, orderSvc, logger)
	go watcher.Run(ctx)

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())
	routes.RegisterRoutes(r, deps, orderSvc, cartSvc, paySvc)

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("server running", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
