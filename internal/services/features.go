package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/shared"
)

// noMoreTracks is the body the rating server returns once a feature is fully rated.
const noMoreTracks = "no more tracks"

// FeatureService is the typed client for the feature-rating server.
type FeatureService struct {
	api *APIService
}

// NewFeatureService wraps api with the rating endpoints.
func NewFeatureService(api *APIService) *FeatureService {
	return &FeatureService{api: api}
}

// API exposes the underlying raw client.
func (f *FeatureService) API() *APIService {
	return f.api
}

// ListFeatures fetches the feature names, preserving server order.
func (f *FeatureService) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	resp, err := f.call(ctx, "GET", "/api/features")
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(resp.Body, &names); err != nil {
		return nil, fmt.Errorf("%w: feature list: %v", shared.ErrMalformedResponse, err)
	}

	return models.FeaturesFromNames(names), nil
}

// SpotifyToken fetches the playback bearer token.
func (f *FeatureService) SpotifyToken(ctx context.Context) (string, error) {
	resp, err := f.call(ctx, "GET", "/api/spotify_token")
	if err != nil {
		return "", err
	}

	token := resp.Text()
	if token == "" {
		return "", fmt.Errorf("%w: server returned an empty spotify token", shared.ErrNotAuthenticated)
	}
	return token, nil
}

// RandomUntrained fetches a random track that has no rating for feature yet.
func (f *FeatureService) RandomUntrained(ctx context.Context, feature string) (*models.Track, error) {
	if feature == "" {
		return nil, fmt.Errorf("%w: feature", shared.ErrMissingArgument)
	}

	path := fmt.Sprintf("/api/features/%s/tracks/random_untrained", url.PathEscape(feature))
	resp, err := f.call(ctx, "GET", path)
	if err != nil {
		return nil, err
	}

	if !resp.IsJSON && strings.EqualFold(resp.Text(), noMoreTracks) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoUntrainedTracks, feature)
	}

	var track models.Track
	if err := json.Unmarshal(resp.Body, &track); err != nil {
		return nil, fmt.Errorf("%w: track: %v", shared.ErrMalformedResponse, err)
	}
	if err := track.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	return &track, nil
}

// Rate records rating for trackID within feature.
func (f *FeatureService) Rate(ctx context.Context, feature, trackID string, rating models.Rating) error {
	if feature == "" {
		return fmt.Errorf("%w: feature", shared.ErrMissingArgument)
	}
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	if !rating.Valid() {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRating, rating)
	}

	path := fmt.Sprintf("/api/features/%s/tracks/%s/rate/%s",
		url.PathEscape(feature), url.PathEscape(trackID), rating)
	_, err := f.call(ctx, "POST", path)
	return err
}

// CreateFeature registers a new, empty feature on the server.
func (f *FeatureService) CreateFeature(ctx context.Context, feature string) error {
	if strings.TrimSpace(feature) == "" {
		return fmt.Errorf("%w: feature", shared.ErrMissingArgument)
	}

	_, err := f.call(ctx, "POST", fmt.Sprintf("/api/features/%s/", url.PathEscape(feature)))
	return err
}

// Shutdown asks the rating server to stop gracefully.
func (f *FeatureService) Shutdown(ctx context.Context) error {
	_, err := f.call(ctx, "POST", "/api/shutdown")
	return err
}

// call performs a bodyless request and converts transport failures and non-2xx statuses into [shared.ErrAPIRequest].
func (f *FeatureService) call(ctx context.Context, method, path string) (*APIResponse, error) {
	var resp *APIResponse
	var err error

	switch method {
	case "GET":
		resp, err = f.api.Get(ctx, path)
	case "POST":
		resp, err = f.api.Post(ctx, path, nil)
	default:
		return nil, fmt.Errorf("%w: method %s", shared.ErrNotImplemented, method)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s %s: status %d, body: %s",
			shared.ErrAPIRequest, method, path, resp.StatusCode, resp.Text())
	}

	return resp, nil
}
