package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"financas/internal/cli"
	"financas/internal/core"
	"financas/internal/services"
)

var version = "dev"

func main() {
	ctx, cancel := cli.SignalContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the command line and maps errors to an exit code. Nothing is
// written to stdout when a command fails.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(newApp(stdout, stderr))
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "erro:", userMessage(err))
		return 1
	}
	return 0
}

func userMessage(err error) string {
	var colErr *core.ColumnError
	switch {
	case errors.As(err, &colErr):
		return fmt.Sprintf("a planilha não tem a coluna obrigatória %q (%v)", colErr.Column, err)
	case errors.Is(err, core.ErrDataSourceNotFound):
		return fmt.Sprintf("arquivo de dados não encontrado (%v)", err)
	case errors.Is(err, core.ErrEmptyDataset):
		return fmt.Sprintf("nenhum período com dados (%v)", err)
	case services.IsUserError(err):
		return fmt.Sprintf("dados inválidos (%v)", err)
	default:
		return err.Error()
	}
}
