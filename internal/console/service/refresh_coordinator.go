package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cultura-alerta/go-editais/internal/common/metrics"
	"github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

// RefreshCoordinator dispara a reingestão dos feeds e a limpeza do cache do
// backend. Só uma das duas ações pode estar em andamento por vez.
type RefreshCoordinator struct {
	client    RefreshClient
	confirmer Confirmer
	resyncer  Resyncer
	banner    *bannerSlot
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight models.RefreshAction
}

func NewRefreshCoordinator(
	client RefreshClient,
	confirmer Confirmer,
	resyncer Resyncer,
	bannerTTL time.Duration,
	logger *slog.Logger,
) *RefreshCoordinator {
	return &RefreshCoordinator{
		client:    client,
		confirmer: confirmer,
		resyncer:  resyncer,
		banner:    newBannerSlot(bannerTTL),
		logger:    logger,
	}
}

func (c *RefreshCoordinator) UpdateFeeds(ctx context.Context) (*models.ActionResult, error) {
	if err := c.begin(models.ActionUpdateFeeds); err != nil {
		return nil, err
	}
	defer c.end()

	return c.run(ctx, models.ActionUpdateFeeds, c.client.UpdateFeeds, errors.FallbackUpdateFeeds)
}

// ClearCache é destrutiva e exige confirmação própria antes da requisição.
func (c *RefreshCoordinator) ClearCache(ctx context.Context) (*models.ActionResult, error) {
	if err := c.begin(models.ActionClearCache); err != nil {
		return nil, err
	}
	defer c.end()

	confirmed, err := c.confirmer.Confirm(ctx, ClearCachePrompt)
	if err != nil {
		return nil, err
	}

	if !confirmed {
		metrics.RecordConfirmationDeclined(string(models.ActionClearCache))
		return nil, &errors.ErrConfirmationDeclined{Action: string(models.ActionClearCache)}
	}

	return c.run(ctx, models.ActionClearCache, c.client.ClearCache, errors.FallbackClearCache)
}

func (c *RefreshCoordinator) run(
	ctx context.Context,
	action models.RefreshAction,
	call func(context.Context) (*models.ActionResult, error),
	fallback string,
) (*models.ActionResult, error) {
	c.logger.Info("Executando ação de atualização", "action", action)

	result, err := call(ctx)
	if err != nil {
		metrics.RecordAction(string(action), err)
		c.banner.show(StatusError, errors.UserMessage(err, fallback))

		c.logger.Error("Erro na ação de atualização",
			"action", action,
			"error", err,
		)

		return nil, err
	}

	if !result.Success {
		metrics.RecordAction(string(action), &errors.ErrValidation{Message: result.Message})

		message := result.Message
		if message == "" {
			message = fallback
		}

		c.banner.show(StatusError, message)

		c.logger.Warn("Backend recusou a ação de atualização",
			"action", action,
			"message", result.Message,
		)

		return result, nil
	}

	metrics.RecordAction(string(action), nil)
	c.banner.show(StatusSuccess, result.Message)

	if c.resyncer != nil {
		if err := c.resyncer.ResyncAll(ctx); err != nil {
			c.logger.Error("Erro ao ressincronizar após ação",
				"action", action,
				"error", err,
			)
		}

		if err := c.resyncer.Announce(ctx, action); err != nil {
			c.logger.Warn("Erro ao anunciar ressincronização",
				"action", action,
				"error", err,
			)
		}
	}

	return result, nil
}

// Busy reporta se uma ação está em andamento; os gatilhos ficam desabilitados.
func (c *RefreshCoordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inFlight != ""
}

func (c *RefreshCoordinator) Banner() (StatusBanner, bool) {
	return c.banner.current()
}

func (c *RefreshCoordinator) DismissBanner() {
	c.banner.dismiss()
}

func (c *RefreshCoordinator) Close() {
	c.banner.dismiss()
}

func (c *RefreshCoordinator) begin(action models.RefreshAction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight != "" {
		return &errors.ErrOperationInProgress{Operation: string(c.inFlight)}
	}

	c.inFlight = action

	return nil
}

func (c *RefreshCoordinator) end() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = ""
}
