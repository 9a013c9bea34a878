package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/choudharyperfumes/storefront/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Pinged your deployment. You successfully connected to MongoDB!")
	return client, nil
}

// Open builds the Store selected by DATABASE_DRIVER and prepares its schema.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DatabaseDriver {
	case "memory":
		log.Println("Using in-memory store; data is lost on restart")
		return NewMemoryStore(), nil

	case "postgres":
		db, err := OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(db)
		if err := store.AutoMigrate(); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		return store, nil

	case "mongo", "":
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		log.Println("DATABASE_NAME:", cfg.DatabaseName)
		store := NewMongoStore(client, cfg.DatabaseName, cfg.MongoTransactions)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
}
