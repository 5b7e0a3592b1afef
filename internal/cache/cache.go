package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gw-transaction-processor/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache кэш транзакций для читающих запросов
type Cache interface {
	GetTransaction(ctx context.Context, externalID string) (*models.Transaction, error)
	SetTransaction(ctx context.Context, txn *models.Transaction) error
	DeleteTransaction(ctx context.Context, externalID string) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisCache(addr, password string, db int, ttl time.Duration, log *slog.Logger) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis cache подключен", slog.String("addr", addr))

	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}, nil
}

func transactionKey(externalID string) string {
	return "transaction:" + externalID
}

// GetTransaction возвращает (nil, nil) при промахе кэша
func (c *RedisCache) GetTransaction(ctx context.Context, externalID string) (*models.Transaction, error) {
	data, err := c.client.Get(ctx, transactionKey(externalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var txn models.Transaction
	if err := json.Unmarshal(data, &txn); err != nil {
		return nil, fmt.Errorf("unmarshal cached transaction: %w", err)
	}

	return &txn, nil
}

func (c *RedisCache) SetTransaction(ctx context.Context, txn *models.Transaction) error {
	data, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}

	return c.client.Set(ctx, transactionKey(txn.TransactionID), data, c.ttl).Err()
}

func (c *RedisCache) DeleteTransaction(ctx context.Context, externalID string) error {
	return c.client.Del(ctx, transactionKey(externalID)).Err()
}

func (c *RedisCache) Close() error {
	c.log.Info("закрытие redis cache")
	return c.client.Close()
}

// NoOpCache используется при выключенном redis
type NoOpCache struct{}

func NewNoOpCache() Cache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetTransaction(ctx context.Context, externalID string) (*models.Transaction, error) {
	return nil, nil
}

func (c *NoOpCache) SetTransaction(ctx context.Context, txn *models.Transaction) error {
	return nil
}

func (c *NoOpCache) DeleteTransaction(ctx context.Context, externalID string) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
