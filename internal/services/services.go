// package services defines the clients used by the page controller and the CLI
//
// Feature-rating server (via [APIService]), Spotify playback
package services

import (
	"context"

	"github.com/desertthunder/trackrater/internal/models"
)

// FeatureAPI is the subset of the rating server the interactive page depends on.
type FeatureAPI interface {
	// ListFeatures returns feature names in server order.
	ListFeatures(ctx context.Context) ([]models.Feature, error)

	// SpotifyToken returns the bearer token for playback requests, whitespace trimmed.
	SpotifyToken(ctx context.Context) (string, error)

	// RandomUntrained returns a random track that has not been rated for feature.
	RandomUntrained(ctx context.Context, feature string) (*models.Track, error)

	// Rate records rating for trackID within feature.
	Rate(ctx context.Context, feature, trackID string, rating models.Rating) error
}

// Player starts playback of a track on the user's active device.
type Player interface {
	Play(ctx context.Context, token string, track models.Track) error
}

var (
	_ FeatureAPI = (*FeatureService)(nil)
	_ Player     = (*PlayerService)(nil)
)
