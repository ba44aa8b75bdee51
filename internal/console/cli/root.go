package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cultura-alerta/go-editais/internal/config"
	"github.com/cultura-alerta/go-editais/internal/console/service"
	domainerrors "github.com/cultura-alerta/go-editais/internal/domain/errors"
	"github.com/cultura-alerta/go-editais/pkg"
)

// ErrReported indica que a falha já foi mostrada ao usuário.
var ErrReported = errors.New("falha já reportada")

type root struct {
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	assumeYes bool
}

// NewRootCmd monta a árvore de comandos do console.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	r := &root{in: in, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:           "console",
		Short:         "Console de operação do Cultura Alerta",
		Long:          "Lista editais, gerencia fontes de coleta e dispara atualizações no backend do Cultura Alerta.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.String("backend-url", "", "URL base do backend")
	flags.String("log-level", "", "Nível de log (debug, info, warn, error)")
	flags.String("cache-backend", "", "Cache de snapshots (MEMORY ou REDIS)")
	flags.BoolVarP(&r.assumeYes, "yes", "y", false, "Confirma ações destrutivas sem perguntar")

	bindings := map[string]string{
		"BACKEND_BASE_URL": "backend-url",
		"LOG_LEVEL":        "log-level",
		"CACHE_BACKEND":    "cache-backend",
	}

	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			slog.Error("Erro ao vincular flag", "flag", flag, "error", err)
		}
	}

	cmd.AddCommand(
		r.noticesCmd(),
		r.categoriesCmd(),
		r.sourcesCmd(),
		r.refreshCmd(),
		r.watchCmd(),
	)

	return cmd
}

// newApp carrega a configuração depois do parse das flags, para que os
// valores vinculados no viper já estejam disponíveis.
func (r *root) newApp(mode service.FilterMode) (*App, error) {
	cfg := config.LoadConfig()
	logger := pkg.NewLogger(r.errOut, cfg.LogLevel)

	app, err := NewApp(cfg, logger, AppOptions{
		In:         r.in,
		Out:        r.out,
		AssumeYes:  r.assumeYes,
		FilterMode: mode,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar o console: %w", err)
	}

	return app, nil
}

// report escreve a mensagem exibível do componente e devolve ErrReported.
func (r *root) report(message string, err error, fallback string) error {
	if message == "" {
		message = domainerrors.UserMessage(err, fallback)
	}

	fmt.Fprintln(r.errOut, "Erro: "+message)

	return ErrReported
}

func (r *root) closeApp(app *App) {
	if err := app.Close(); err != nil {
		app.Logger.Warn("Erro ao encerrar o console", "error", err)
	}
}
