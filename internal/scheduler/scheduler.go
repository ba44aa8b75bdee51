package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type FeedRefresher interface {
	UpdateFeeds(ctx context.Context) (*models.ActionResult, error)
}

// Scheduler dispara a atualização de feeds periodicamente no modo watch.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher FeedRefresher
	logger    *slog.Logger
	interval  time.Duration
	timeout   time.Duration
}

func NewScheduler(refresher FeedRefresher, interval time.Duration, logger *slog.Logger) *Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	return &Scheduler{
		scheduler: scheduler,
		refresher: refresher,
		logger:    logger,
		interval:  interval,
		timeout:   5 * time.Minute,
	}
}

// Enabled indica se há intervalo configurado; zero desliga a atualização automática.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

func (s *Scheduler) Start() {
	if !s.Enabled() {
		s.logger.Info("Atualização automática desativada")
		return
	}

	s.logger.Info("Iniciando agendador",
		"interval", s.interval.String(),
	)

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.tick)
	if err != nil {
		s.logger.Error("Erro ao configurar o agendador",
			"error", err,
		)

		return
	}

	s.scheduler.StartAsync()
}

func (s *Scheduler) tick() {
	s.logger.Info("Iniciando atualização automática de feeds")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.refresher.UpdateFeeds(ctx)

	var inProgress *domainerrors.ErrOperationInProgress

	switch {
	case errors.As(err, &inProgress):
		s.logger.Info("Atualização já em andamento, ciclo ignorado")
	case err != nil:
		s.logger.Error("Erro na atualização automática de feeds",
			"error", err,
		)
	case result != nil && !result.Success:
		s.logger.Warn("Backend recusou a atualização de feeds",
			"message", result.Message,
		)
	default:
		s.logger.Info("Atualização automática concluída")
	}
}

func (s *Scheduler) Stop() {
	s.logger.Info("Parando agendador")
	s.scheduler.Stop()
}
