package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/yeremiapane/foodhub/cart"
	"github.com/yeremiapane/foodhub/config"
	"github.com/yeremiapane/foodhub/database"
	"github.com/yeremiapane/foodhub/router"
	"github.com/yeremiapane/foodhub/tracking"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)
	utils.SetJWTConfig(cfg.JWT.Secret, cfg.JWT.TTL)
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
		}
	}

	store, closeStore, err := newCartStore(cfg, db)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up cart store: %v", err)
	}
	defer closeStore()

	hub := tracking.NewHub()
	r := router.SetupRouter(router.Options{
		DB:             db,
		CartStore:      store,
		Hub:            hub,
		DeliveryFee:    cfg.DeliveryFee,
		AllowOrigins:   cfg.CORS.AllowOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		RateLimit:      cfg.Server.RateLimit,
		RateInterval:   cfg.Server.RateInterval,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		utils.InfoLogger.WithFields(map[string]interface{}{
			"port":       cfg.Server.Port,
			"db_driver":  cfg.Database.Driver,
			"cart_store": cfg.Cart.Store,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	utils.InfoLogger.Info("shutting down")
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Forced shutdown: %v", err)
	}
	utils.InfoLogger.Info("server stopped")
}

// newCartStore builds the store selected by CART_STORE.
func newCartStore(cfg *config.Config, db *gorm.DB) (cart.Store, func(), error) {
	noop := func() {}
	switch cfg.Cart.Store {
	case "memory":
		return cart.NewMemoryStore(), noop, nil
	case "file":
		store, err := cart.NewFileStore(cfg.Cart.FileDir)
		return store, noop, err
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, err
		}
		return cart.NewRedisStore(client, cfg.Cart.TTL), func() { client.Close() }, nil
	default:
		return cart.NewGormStore(db), noop, nil
	}
}
