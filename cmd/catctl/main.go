package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/billi-gallery/internal/app"
	"github.com/samvad-hq/billi-gallery/internal/config"
	"github.com/samvad-hq/billi-gallery/pkg/catapi"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		var reqErr *catapi.RequestError
		switch {
		case errors.As(err, &reqErr):
			fmt.Fprintf(os.Stderr, "catctl: %v (status %d)\n", err, reqErr.Status)
		case errors.Is(err, app.ErrUsage):
			fmt.Fprintf(os.Stderr, "catctl: %v\n", err)
			os.Exit(2)
		default:
			fmt.Fprintf(os.Stderr, "catctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := app.NewCatAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.NewTool(client, os.Stdout).Run(ctx, args)
}
