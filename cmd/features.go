package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackrater/internal/formatter"
	"github.com/desertthunder/trackrater/internal/shared"
	"github.com/urfave/cli/v3"
)

// FeaturesList prints every feature in server order.
func (r *Runner) FeaturesList(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	features, err := r.features.ListFeatures(ctx)
	if err != nil {
		return fmt.Errorf("failed to list features: %w", err)
	}
	r.logger.Debug("features fetched", "count", len(features))

	data, err := formatter.Features(features, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// FeaturesCreate registers a new feature on the server.
func (r *Runner) FeaturesCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: feature name", shared.ErrMissingArgument)
	}

	if err := r.features.CreateFeature(ctx, name); err != nil {
		return fmt.Errorf("failed to create feature %q: %w", name, err)
	}

	r.logger.Info("feature created", "feature", name)
	return r.writePlain("Created feature %s\n", name)
}
