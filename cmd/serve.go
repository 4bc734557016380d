package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"mixtape/internal/server"
)

// Serve starts the HTTP API and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	srv := server.New(config.Server, server.Services{
		Auth:      lib.auth,
		Catalog:   lib.catalog,
		Playlists: lib.playlists,
	}, r.logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Run()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		return srv.GracefulShutdown(context.Background())
	}
}
