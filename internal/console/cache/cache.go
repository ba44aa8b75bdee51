package cache

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/cultura-alerta/go-editais/internal/config"
	"github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

const KeyPrefix = "editais:"

// SnapshotCache guarda o último conjunto buscado com sucesso de cada coleção.
// Get devolve nil quando não há entrada.
type SnapshotCache interface {
	GetNotices(ctx context.Context, key string) ([]models.Notice, error)
	SetNotices(ctx context.Context, key string, notices []models.Notice) error
	GetSources(ctx context.Context) ([]models.Source, error)
	SetSources(ctx context.Context, sources []models.Source) error
	GetCategories(ctx context.Context) ([]string, error)
	SetCategories(ctx context.Context, categories []string) error
	Invalidate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// NoticesKey identifica um snapshot de editais pelos parâmetros da consulta.
func NoticesKey(params map[string]string) string {
	if len(params) == 0 {
		return "notices:all"
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+params[key])
	}

	return "notices:" + strings.Join(parts, "&")
}

func NewSnapshotCache(cfg *config.Config, logger *slog.Logger) (SnapshotCache, error) {
	switch cfg.CacheBackend {
	case config.MemoryCache, "":
		logger.Info("Usando cache de snapshots em memória")
		return NewMemoryCache(cfg.RedisCacheTTL), nil
	case config.RedisCache:
		logger.Info("Usando cache de snapshots no Redis", "addr", cfg.RedisURL)
		return NewRedisSnapshotCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cfg.RedisCacheTTL, logger)
	default:
		return nil, &errors.ErrUnknownCacheBackend{Backend: string(cfg.CacheBackend)}
	}
}
