// Package main is the entry point for the genopipe pipeline runner.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"genopipe/cmd/genopipe/commands"
	"genopipe/internal/adapters/config"
	"genopipe/internal/app"
	_ "genopipe/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, err
	}))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, provider ComponentProvider) int {
	// A first signal cancels the run gracefully: running jobs are killed,
	// finished work stays in the ledger.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	components, err := provider(ctx)
	if err != nil {
		// The logger is not available when initialization failed.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)
	cli.SetConfigHook(func(path string) {
		if loader, ok := components.ConfigLoader.(*config.FileConfigLoader); ok {
			loader.Filename = path
		}
	})

	if err := cli.Execute(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			// zerr prints a report with stack trace and metadata for %+v.
			_, _ = fmt.Fprintf(stderr, "%+v\n", err)
		}
		return 1
	}
	return 0
}
