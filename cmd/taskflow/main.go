// Package main is the entry point for the taskflow CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"taskflow/internal/backend/rest"
	"taskflow/internal/cli"
	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/service"
	"taskflow/internal/session"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config, sess *session.Session, log *zap.Logger) (service.Service, error) {
		opts := []rest.Option{
			rest.WithTimeout(cfg.Timeout),
			rest.WithLogger(log),
		}
		if cfg.UpdateRoutes == config.RoutesFields {
			opts = append(opts, rest.WithFieldRoutes())
		}
		return rest.New(cfg.BaseURL, sess.TokenSource(), opts...)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
