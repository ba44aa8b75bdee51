package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/cultura-alerta/go-editais/internal/common/metrics"
	"github.com/cultura-alerta/go-editais/internal/console/notify"
	"github.com/cultura-alerta/go-editais/internal/console/service"
	"github.com/cultura-alerta/go-editais/internal/scheduler"
)

func (r *root) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Mantém o console ativo: atualização automática, métricas e ressincronização entre sessões",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.newApp(service.FilterModeLocal)
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			return runWatch(cmd.Context(), app)
		},
	}
}

func runWatch(parent context.Context, app *App) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	cfg := app.Config
	logger := app.Logger

	if err := app.Resync.ResyncAll(ctx); err != nil {
		logger.Warn("Carga inicial incompleta", "error", err)
	}

	metricsServer := metrics.NewMetricsServer(cfg.MetricsPort, logger)
	metricsServer.RegisterHealthCheck("cache", app.Cache.Ping)

	serverErr := make(chan error, 1)

	go func() {
		serverErr <- metricsServer.Start(ctx)
	}()

	var consumer *notify.Consumer

	if app.KafkaEnabled() {
		// Grupo próprio por sessão: todas as sessões recebem todos os eventos.
		consumer = notify.NewConsumer(
			notify.ParseBrokers(cfg.KafkaBrokers),
			cfg.KafkaGroupID+"-"+app.Resync.Origin(),
			cfg.TopicResync,
			cfg.TopicDeadLetterQueue,
			app.Resync,
			logger,
		)
		consumer.Start(ctx)
	}

	autoRefresh := scheduler.NewScheduler(app.Coordinator, cfg.AutoRefreshInterval, logger)
	autoRefresh.Start()

	fmt.Fprintf(app.Out, "Console em modo watch (métricas na porta %d). Ctrl+C para sair.\n", cfg.MetricsPort)

	var err error

	serverDone := false

	select {
	case <-ctx.Done():
	case err = <-serverErr:
		serverDone = true
	}

	logger.Info("Encerrando modo watch")

	autoRefresh.Stop()
	cancel()

	if consumer != nil {
		<-consumer.Done()
		err = multierr.Append(err, consumer.Close())
	}

	if !serverDone {
		err = multierr.Append(err, <-serverErr)
	}

	return err
}
