package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisSnapshotCache(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("erro ao conectar ao Redis: %w", err)
	}

	logger.Info("Conexão com o Redis estabelecida")

	return &RedisSnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *RedisSnapshotCache) load(ctx context.Context, key string, target any) (bool, error) {
	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.logger.Debug("Snapshot não encontrado no cache", "key", key)

			return false, nil
		}

		c.logger.Error("Erro ao ler dados do Redis",
			"error", err,
			"key", key,
		)

		return false, fmt.Errorf("erro ao ler dados do Redis: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		c.logger.Error("Erro ao desserializar snapshot do Redis",
			"error", err,
			"key", key,
		)

		return false, fmt.Errorf("erro ao desserializar snapshot do Redis: %w", err)
	}

	return true, nil
}

func (c *RedisSnapshotCache) store(ctx context.Context, key string, value any, count int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("erro ao serializar snapshot para o Redis: %w", err)
	}

	if err := c.client.Set(ctx, KeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Erro ao gravar snapshot no Redis",
			"error", err,
			"key", key,
		)

		return fmt.Errorf("erro ao gravar snapshot no Redis: %w", err)
	}

	c.logger.Debug("Snapshot gravado no cache",
		"key", key,
		"count", count,
		"ttl", c.ttl,
	)

	return nil
}

func (c *RedisSnapshotCache) GetNotices(ctx context.Context, key string) ([]models.Notice, error) {
	var notices []models.Notice

	found, err := c.load(ctx, key, &notices)
	if err != nil || !found {
		return nil, err
	}

	if notices == nil {
		notices = []models.Notice{}
	}

	return notices, nil
}

func (c *RedisSnapshotCache) SetNotices(ctx context.Context, key string, notices []models.Notice) error {
	return c.store(ctx, key, notices, len(notices))
}

func (c *RedisSnapshotCache) GetSources(ctx context.Context) ([]models.Source, error) {
	var sources []models.Source

	found, err := c.load(ctx, "sources", &sources)
	if err != nil || !found {
		return nil, err
	}

	if sources == nil {
		sources = []models.Source{}
	}

	return sources, nil
}

func (c *RedisSnapshotCache) SetSources(ctx context.Context, sources []models.Source) error {
	return c.store(ctx, "sources", sources, len(sources))
}

func (c *RedisSnapshotCache) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string

	found, err := c.load(ctx, "categories", &categories)
	if err != nil || !found {
		return nil, err
	}

	if categories == nil {
		categories = []string{}
	}

	return categories, nil
}

func (c *RedisSnapshotCache) SetCategories(ctx context.Context, categories []string) error {
	return c.store(ctx, "categories", categories, len(categories))
}

// Invalidate remove todas as chaves com o prefixo do console.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	var cursor uint64

	removed := 0

	for {
		keys, next, err := c.client.Scan(ctx, cursor, KeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("erro ao listar chaves do Redis: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("erro ao remover chaves do Redis: %w", err)
			}

			removed += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Cache de snapshots invalidado", "removed", removed)

	return nil
}

func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}
