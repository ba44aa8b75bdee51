package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cultura-alerta/go-editais/internal/common/metrics"
	"github.com/cultura-alerta/go-editais/internal/console/service"
	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

func (r *root) sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Gerencia as fontes de coleta",
	}

	cmd.AddCommand(
		r.sourcesListCmd(),
		r.sourcesAddCmd(),
		r.sourcesEditCmd(),
		r.sourcesDeleteCmd(),
		r.sourcesPreviewCmd(),
	)

	return cmd
}

func (r *root) sourcesListCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista as fontes cadastradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.newApp(service.FilterModeLocal)
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			ctx := cmd.Context()

			if cached {
				sources, err := app.Cache.GetSources(ctx)
				metrics.RecordCacheLookup("sources", err == nil && sources != nil)

				if err == nil && sources != nil {
					return RenderSources(app.Out, sources)
				}
			}

			sources, err := app.Sources.List(ctx)
			if err != nil {
				return r.report(app.Sources.ErrorMessage(), err, domainerrors.FallbackListSources)
			}

			return RenderSources(app.Out, sources)
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Usa o último snapshot salvo, se houver")

	return cmd
}

// previewWait limita a espera pelo preview: debounce mais o tempo de uma requisição.
func previewWait(app *App) time.Duration {
	return app.Config.PreviewDebounce + app.Config.HTTPRequestTimeout + time.Second
}

func (r *root) sourcesAddCmd() *cobra.Command {
	var (
		name       string
		rawURL     string
		sourceType string
		noPreview  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Adiciona uma fonte; sem --name usa o título do preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.newApp(service.FilterModeLocal)
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			ctx := cmd.Context()
			registry := app.Sources

			registry.StartCreate()
			defer registry.CancelForm()

			if err := registry.SetField(models.FieldType, sourceType); err != nil {
				return err
			}

			if err := registry.SetField(models.FieldName, name); err != nil {
				return err
			}

			if err := registry.SetField(models.FieldURL, rawURL); err != nil {
				return err
			}

			if !noPreview {
				if err := r.showPreview(ctx, app); err != nil {
					return err
				}
			}

			source, err := registry.Create(ctx)
			if err != nil {
				return r.report(registry.ErrorMessage(), err, domainerrors.FallbackCreateSource)
			}

			fmt.Fprintf(app.Out, "Fonte #%d adicionada: %s\n", source.ID, source.Name)

			return RenderSources(app.Out, registry.Sources())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "Nome da fonte")
	flags.StringVar(&rawURL, "url", "", "URL da fonte")
	flags.StringVar(&sourceType, "type", string(models.SourceTypeWeb), "Tipo da fonte (web ou rss)")
	flags.BoolVar(&noPreview, "no-preview", false, "Não busca o preview antes de salvar")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func (r *root) showPreview(ctx context.Context, app *App) error {
	waitCtx, cancel := context.WithTimeout(ctx, previewWait(app))
	defer cancel()

	snapshot, err := app.Preview.WaitSettled(waitCtx)
	if err != nil {
		app.Logger.Warn("Preview não concluído a tempo", "error", err)
		return nil
	}

	if snapshot.State == service.PreviewIdle {
		return nil
	}

	return RenderPreview(app.Out, snapshot)
}

func (r *root) sourcesEditCmd() *cobra.Command {
	var (
		name       string
		rawURL     string
		sourceType string
		active     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Altera nome, url, tipo ou estado de uma fonte",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()

			var patch models.SourcePatch

			if flags.Changed("name") {
				patch.Name = &name
			}

			if flags.Changed("url") {
				patch.URL = &rawURL
			}

			if flags.Changed("type") {
				parsed, err := models.ParseSourceType(sourceType)
				if err != nil {
					return err
				}

				patch.Type = &parsed
			}

			if flags.Changed("active") {
				patch.Active = &active
			}

			app, err := r.newApp(service.FilterModeLocal)
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			source, err := app.Sources.Update(cmd.Context(), id, patch)
			if err != nil {
				return r.report(app.Sources.ErrorMessage(), err, domainerrors.FallbackUpdateSource)
			}

			fmt.Fprintf(app.Out, "Fonte #%d atualizada: %s\n", source.ID, source.Name)

			return RenderSources(app.Out, app.Sources.Sources())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "Novo nome")
	flags.StringVar(&rawURL, "url", "", "Nova URL")
	flags.StringVar(&sourceType, "type", "", "Novo tipo (web ou rss)")
	flags.BoolVar(&active, "active", true, "Ativa ou desativa a coleta")

	return cmd
}

func (r *root) sourcesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Exclui uma fonte após confirmação",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, err := r.newApp(service.FilterModeLocal)
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			err = app.Sources.Delete(cmd.Context(), id)

			var declined *domainerrors.ErrConfirmationDeclined

			switch {
			case errors.As(err, &declined):
				fmt.Fprintln(app.Out, "Exclusão cancelada.")
				return nil
			case err != nil:
				return r.report(app.Sources.ErrorMessage(), err, domainerrors.FallbackDeleteSource)
			}

			fmt.Fprintf(app.Out, "Fonte #%d excluída.\n", id)

			return RenderSources(app.Out, app.Sources.Sources())
		},
	}
}

func (r *root) sourcesPreviewCmd() *cobra.Command {
	var (
		rawURL     string
		sourceType string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Mostra o preview de uma fonte sem salvá-la",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := models.ParseSourceType(sourceType)
			if err != nil {
				return err
			}

			app, err := r.newApp(service.FilterModeLocal)
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			if err := app.Preview.OnInput(rawURL, parsed); err != nil {
				return r.report(app.Preview.Snapshot().ErrorMessage, err, domainerrors.FallbackPreview)
			}

			waitCtx, cancel := context.WithTimeout(cmd.Context(), previewWait(app))
			defer cancel()

			snapshot, err := app.Preview.WaitSettled(waitCtx)
			if err != nil {
				return r.report("", err, domainerrors.FallbackPreview)
			}

			if err := RenderPreview(app.Out, snapshot); err != nil {
				return err
			}

			if snapshot.State == service.PreviewFailed {
				return ErrReported
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&rawURL, "url", "", "URL da fonte")
	flags.StringVar(&sourceType, "type", string(models.SourceTypeWeb), "Tipo da fonte (web ou rss)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
