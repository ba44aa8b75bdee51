package cli

import (
	"io"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/cultura-alerta/go-editais/internal/config"
	"github.com/cultura-alerta/go-editais/internal/console/cache"
	"github.com/cultura-alerta/go-editais/internal/console/clients"
	"github.com/cultura-alerta/go-editais/internal/console/notify"
	"github.com/cultura-alerta/go-editais/internal/console/service"
)

// App reúne os componentes do console para uma execução da CLI.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer

	Client      *clients.BackendClient
	Cache       cache.SnapshotCache
	Publisher   notify.Publisher
	Notices     *service.NoticeFilterEngine
	Sources     *service.SourceRegistry
	Preview     *service.PreviewFetcher
	Resync      *service.ResyncService
	Coordinator *service.RefreshCoordinator
}

type AppOptions struct {
	In         io.Reader
	Out        io.Writer
	AssumeYes  bool
	FilterMode service.FilterMode
}

func NewApp(cfg *config.Config, logger *slog.Logger, opts AppOptions) (*App, error) {
	snapshotCache, err := cache.NewSnapshotCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	client := clients.NewBackendClient(cfg, logger)
	confirmer := NewPromptConfirmer(opts.In, opts.Out, opts.AssumeYes)
	publisher := notify.NewPublisher(cfg, logger)

	notices := service.NewNoticeFilterEngine(client, snapshotCache, opts.FilterMode, logger)
	sources := service.NewSourceRegistry(client, confirmer, snapshotCache, logger)

	preview := service.NewPreviewFetcher(client, cfg.PreviewDebounce, logger)
	preview.SetNameFiller(sources)
	sources.SetFormObserver(preview)

	resync := service.NewResyncService(snapshotCache, notices, sources, publisher, logger)
	coordinator := service.NewRefreshCoordinator(client, confirmer, resync, cfg.StatusBannerTTL, logger)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Out:         opts.Out,
		Client:      client,
		Cache:       snapshotCache,
		Publisher:   publisher,
		Notices:     notices,
		Sources:     sources,
		Preview:     preview,
		Resync:      resync,
		Coordinator: coordinator,
	}, nil
}

func (a *App) KafkaEnabled() bool {
	return strings.EqualFold(a.Config.MessageTransport, config.TransportKafka)
}

func (a *App) Close() error {
	a.Preview.Close()
	a.Coordinator.Close()

	return multierr.Combine(
		a.Publisher.Close(),
		a.Cache.Close(),
	)
}
