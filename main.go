package main

import (
	"context"
	"log"
	"time"

	"github.com/choudharyperfumes/storefront/auth"
	"github.com/choudharyperfumes/storefront/cart"
	"github.com/choudharyperfumes/storefront/config"
	"github.com/choudharyperfumes/storefront/controllers"
	"github.com/choudharyperfumes/storefront/database"
	"github.com/choudharyperfumes/storefront/middleware"
	"github.com/choudharyperfumes/storefront/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Println("close store:", err)
		}
	}()

	//seeding admin user
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.SeedAdminUser(ctx, store, cfg.AdminUsername, hash); err != nil {
		log.Fatal(err)
	}

	bucket, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	var carts cart.Persister
	if cfg.RedisAddr != "" {
		log.Println("Carts are kept in redis at", cfg.RedisAddr)
		carts = cart.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}), cfg.CartTTL)
	} else {
		carts = cart.NewMemoryStore()
	}

	sessions := auth.NewManager(store, store, cfg.SessionSecret, cfg.SessionTTL)
	app := controllers.NewApp(cfg, store, bucket, sessions, carts)

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	log.Printf("Allowed origins: %v", cfg.AllowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.AdminGate(sessions))

	app.Register(r)

	if local, ok := bucket.(*storage.Local); ok {
		r.Static("/uploads", local.Dir())
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
