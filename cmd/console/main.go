package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cultura-alerta/go-editais/internal/console/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.NewRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)

	stop()

	if err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		}

		os.Exit(1)
	}
}
