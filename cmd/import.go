package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/trackrater/internal/shared"
	"github.com/desertthunder/trackrater/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TrackImport submits every rating in a CSV file, printing progress as it goes.
func (r *Runner) TrackImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: ratings file", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open ratings file: %w", err)
	}
	defer f.Close()

	jobs, err := tasks.ParseRatingsCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(jobs) == 0 {
		return r.writePlain("No ratings in %s\n", path)
	}

	r.logger.Info("importing ratings", "file", path, "count", len(jobs))

	prog := make(chan tasks.ProgressUpdate, len(jobs)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range prog {
			r.writePlain("%s\n", u.Message)
		}
	}()

	engine := tasks.NewRatingEngine(r.features)
	result, err := engine.BulkRate(ctx, prog, jobs, tasks.BulkRateOpts{
		NumWorkers:   int(cmd.Int("workers")),
		RateLimit:    cmd.Float("rate-limit"),
		ManifestPath: cmd.String("manifest"),
	})
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	r.writePlain("\nRated %d of %d track(s)\n", result.Succeeded, result.Total)
	if result.Failed > 0 {
		return fmt.Errorf("%w: %d of %d rating(s) failed", shared.ErrAPIRequest, result.Failed, result.Total)
	}
	return nil
}
