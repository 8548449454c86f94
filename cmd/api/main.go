package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"litorders/internal/config"
	"litorders/internal/db"
	"litorders/internal/httpx"
	"litorders/internal/literature"
	"litorders/internal/order"
)

func newRouter(log *zap.Logger, litRepo literature.Repository, svc *order.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestID())
	r.Use(httpx.Logger(log))
	r.Use(httpx.Metrics())
	r.Use(httpx.CORS())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/health", healthHandler())
	r.GET("/api/literature", listLiteratureHandler(litRepo, log))

	r.GET("/api/orders", listOrdersHandler(svc, log))
	r.GET("/api/orders/:id", getOrderHandler(svc, log))
	r.POST("/api/orders", createOrderHandler(svc, log))
	r.PUT("/api/orders/:id", updateOrderHandler(svc, log))
	r.PUT("/api/orders/:id/status", updateOrderStatusHandler(svc, log))
	r.DELETE("/api/orders/:id", deleteOrderHandler(svc, log))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Not found"})
	})
	return r
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load(log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal("apply schema", zap.Error(err))
	}

	litRepo := literature.NewPGRepo(pool)
	svc := order.NewService(order.NewPGRepo(pool), log)

	r := newRouter(log, litRepo, svc)
	log.Info("api listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
