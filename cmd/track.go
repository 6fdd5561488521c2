package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackrater/internal/formatter"
	"github.com/desertthunder/trackrater/internal/models"
	"github.com/urfave/cli/v3"
)

// TrackNext fetches a random untrained track for --feature and optionally starts playback.
func (r *Runner) TrackNext(ctx context.Context, cmd *cli.Command) error {
	feature := cmd.String("feature")

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	track, err := r.features.RandomUntrained(ctx, feature)
	if err != nil {
		return fmt.Errorf("failed to load track for %q: %w", feature, err)
	}
	r.logger.Debug("track loaded", "feature", feature, "track", track.ID)

	if cmd.Bool("play") {
		if err := r.play(ctx, *track); err != nil {
			r.logger.Warn("playback request failed", "track", track.ID, "error", err)
		}
	}

	data, err := formatter.Track(*track, r.config.Spotify.URIScheme, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// play fetches the playback token and starts track on Spotify.
func (r *Runner) play(ctx context.Context, track models.Track) error {
	token, err := r.features.SpotifyToken(ctx)
	if err != nil {
		return err
	}
	return r.player.Play(ctx, token, track)
}

// TrackRate submits --rating for --track within --feature.
func (r *Runner) TrackRate(ctx context.Context, cmd *cli.Command) error {
	feature := cmd.String("feature")
	trackID := cmd.String("track")

	rating, err := models.ParseRating(cmd.String("rating"))
	if err != nil {
		return err
	}

	if err := r.features.Rate(ctx, feature, trackID, rating); err != nil {
		return fmt.Errorf("failed to rate %s: %w", trackID, err)
	}

	r.logger.Info("rated", "feature", feature, "track", trackID, "rating", rating)
	return r.writePlain("Rated %s %s for %s\n", trackID, rating, feature)
}
