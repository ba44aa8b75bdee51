package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cultura-alerta/go-editais/internal/console/service"
	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type noticeListOptions struct {
	search     string
	categoria  string
	prazo      string
	remote     bool
	dataInicio string
	dataFim    string
	cached     bool
}

func (o noticeListOptions) criteria() (models.FilterCriteria, error) {
	bucket, err := models.ParseDeadlineBucket(o.prazo)
	if err != nil {
		return models.FilterCriteria{}, err
	}

	return models.FilterCriteria{
		Search:     o.search,
		Categoria:  o.categoria,
		Bucket:     bucket,
		DataInicio: o.dataInicio,
		DataFim:    o.dataFim,
	}, nil
}

func (o noticeListOptions) mode() service.FilterMode {
	if o.remote {
		return service.FilterModeRemote
	}

	return service.FilterModeLocal
}

func (r *root) noticesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notices",
		Short: "Consulta editais",
	}

	cmd.AddCommand(r.noticesListCmd(), r.noticesShowCmd())

	return cmd
}

func (r *root) noticesListCmd() *cobra.Command {
	var opts noticeListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista editais com filtros",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := opts.criteria()
			if err != nil {
				return err
			}

			if opts.cached && opts.remote {
				return &domainerrors.ErrInvalidArgument{Message: "--cached só vale no modo local"}
			}

			app, err := r.newApp(opts.mode())
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			ctx := cmd.Context()
			engine := app.Notices

			if engine.Mode() == service.FilterModeRemote {
				if err := engine.SetCriteria(ctx, criteria); err != nil {
					return r.report(engine.ErrorMessage(), err, domainerrors.FallbackListNotices)
				}

				return RenderNotices(app.Out, engine.Displayed(), engine.Now())
			}

			loaded := false

			if opts.cached {
				loaded, err = engine.LoadCached(ctx)
				if err != nil {
					app.Logger.Warn("Erro ao ler editais do cache", "error", err)
				}
			}

			if !loaded {
				if err := engine.Load(ctx); err != nil {
					return r.report(engine.ErrorMessage(), err, domainerrors.FallbackListNotices)
				}
			}

			if err := engine.SetCriteria(ctx, criteria); err != nil {
				return err
			}

			return RenderNotices(app.Out, engine.Displayed(), engine.Now())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.search, "search", "", "Texto buscado em nome e descrição")
	flags.StringVar(&opts.categoria, "categoria", "", "Categoria exata (all para todas)")
	flags.StringVar(&opts.prazo, "prazo", "", "Vence em até 7, 15 ou 30 dias (modo local)")
	flags.BoolVar(&opts.remote, "remote", false, "Filtra no backend")
	flags.StringVar(&opts.dataInicio, "data-inicio", "", "Vencimento a partir de AAAA-MM-DD (modo remoto)")
	flags.StringVar(&opts.dataFim, "data-fim", "", "Vencimento até AAAA-MM-DD (modo remoto)")
	flags.BoolVar(&opts.cached, "cached", false, "Usa o último snapshot salvo, se houver")

	return cmd
}

func (r *root) noticesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Mostra os detalhes de um edital",
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

			engine := app.Notices

			if err := engine.Load(cmd.Context()); err != nil {
				return r.report(engine.ErrorMessage(), err, domainerrors.FallbackListNotices)
			}

			if err := engine.Select(id); err != nil {
				return err
			}

			notice, _ := engine.Selected()

			return RenderNotice(app.Out, notice, engine.Now())
		},
	}
}

func (r *root) categoriesCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Lista as categorias de editais",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.newApp(service.FilterModeLocal)
			if err != nil {
				return err
			}
			defer r.closeApp(app)

			categories, err := app.Notices.LoadCategories(cmd.Context(), cached)
			if err != nil {
				return r.report(app.Notices.ErrorMessage(), err, domainerrors.FallbackListCategories)
			}

			return RenderCategories(app.Out, categories)
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Usa o último snapshot salvo, se houver")

	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domainerrors.ErrInvalidValue{FieldName: "id", Value: raw}
	}

	return id, nil
}
