package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cultura-alerta/go-editais/internal/console/service"
	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

func (r *root) refreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Dispara ações de manutenção no backend",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "feeds",
			Short: "Atualiza todos os feeds agora",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.runRefresh(cmd.Context(), func(ctx context.Context, c *service.RefreshCoordinator) (*models.ActionResult, error) {
					return c.UpdateFeeds(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "clear-cache",
			Short: "Apaga todos os editais salvos após confirmação",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.runRefresh(cmd.Context(), func(ctx context.Context, c *service.RefreshCoordinator) (*models.ActionResult, error) {
					return c.ClearCache(ctx)
				})
			},
		},
	)

	return cmd
}

type refreshAction func(ctx context.Context, c *service.RefreshCoordinator) (*models.ActionResult, error)

func (r *root) runRefresh(ctx context.Context, action refreshAction) error {
	app, err := r.newApp(service.FilterModeLocal)
	if err != nil {
		return err
	}
	defer r.closeApp(app)

	_, err = action(ctx, app.Coordinator)

	var declined *domainerrors.ErrConfirmationDeclined
	if errors.As(err, &declined) {
		fmt.Fprintln(app.Out, "Operação cancelada.")
		return nil
	}

	banner, ok := app.Coordinator.Banner()
	if !ok {
		return err
	}

	if renderErr := RenderBanner(app.Out, banner); renderErr != nil {
		return renderErr
	}

	if banner.Kind == service.StatusError {
		return ErrReported
	}

	return nil
}
