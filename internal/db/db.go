package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Virenishere/backend-assignment-portal/internal/config"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
	"github.com/Virenishere/backend-assignment-portal/internal/repository/memstore"
	"github.com/Virenishere/backend-assignment-portal/internal/repository/mongostore"
	"github.com/Virenishere/backend-assignment-portal/internal/repository/pgstore"
)

const connectTimeout = 10 * time.Second

func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func NewMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// NewRedis returns nil when addr is empty.
func NewRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// OpenStore connects the backend selected by cfg.StoreDriver and prepares its schema.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("mongo connection failed: %w", err)
		}
		store := mongostore.NewStore(client, cfg.MongoDatabase)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		logger.Info("store ready", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		return store, nil
	case config.StorePostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connection failed: %w", err)
		}
		store := pgstore.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("db migration failed: %w", err)
		}
		logger.Info("store ready", "driver", cfg.StoreDriver)
		return store, nil
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
