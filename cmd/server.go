package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/server"
	"github.com/desertthunder/trackrater/internal/shared"
	"github.com/urfave/cli/v3"
)

// ServerShutdown asks the rating server to stop gracefully.
func (r *Runner) ServerShutdown(ctx context.Context, cmd *cli.Command) error {
	if err := r.features.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	r.logger.Info("shutdown requested", "server", r.features.API().BaseURL())
	return r.writePlain("Shutdown requested\n")
}

// ServerOpen opens the rating server's web page in the default browser.
func (r *Runner) ServerOpen(ctx context.Context, cmd *cli.Command) error {
	pageURL := r.features.API().BaseURL() + "/"

	r.logger.Info("opening browser", "url", pageURL)
	if err := r.open(pageURL); err != nil {
		openErr := fmt.Errorf("failed to open browser: %w", err)
		if werr := r.writePlain("Open this URL in your browser:\n%s\n", pageURL); werr != nil {
			return errors.Join(openErr, werr)
		}
		return openErr
	}
	return nil
}

// ServerMock runs the in-memory rating server until interrupted or asked to shut down.
func (r *Runner) ServerMock(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		u, err := url.Parse(r.config.Server.BaseURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%w: cannot derive listen address from %q", shared.ErrInvalidConfig, r.config.Server.BaseURL)
		}
		addr = u.Host
	}

	var tracks []models.Track
	if path := cmd.String("tracks"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open track catalogue: %w", err)
		}
		defer f.Close()

		if tracks, err = server.LoadTracks(f); err != nil {
			return err
		}
	}

	logger := shared.WithLogger(r.logger, "component", "mock")
	api := server.NewRatingAPI(server.RatingAPIOpts{
		Features: cmd.StringSlice("feature"),
		Tracks:   tracks,
		Token:    cmd.String("token"),
		Logger:   logger,
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestID, server.Logging(logger))
	router.Handler(api)
	logger.Debug("routes registered", "patterns", router.Patterns())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.writePlain("Mock rating server on http://%s\n", addr); err != nil {
		return err
	}
	return server.Serve(ctx, addr, router, api.Done(), logger)
}
