// Spotify Web API playback implementation of [Player]
//
// See https://developer.spotify.com/documentation/web-api/reference/start-a-users-playback
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const spotifyBaseURL = "https://api.spotify.com/v1/"

// PlayerService starts playback through the Spotify Web API.
// Uses a static [oauth2] bearer token per call; the token is never refreshed.
type PlayerService struct {
	baseURL    string
	uriScheme  string
	deviceID   string
	httpClient *http.Client
}

// NewPlayerService creates a player from the spotify section of the config.
//
// client is the base transport; nil uses [http.DefaultClient].
func NewPlayerService(cfg shared.SpotifyConfig, client *http.Client) *PlayerService {
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &PlayerService{
		baseURL:    baseURL,
		uriScheme:  cfg.URIScheme,
		deviceID:   cfg.DeviceID,
		httpClient: client,
	}
}

// Play issues PUT me/player/play with a single track URI.
func (p *PlayerService) Play(ctx context.Context, token string, track models.Track) error {
	if token == "" {
		return fmt.Errorf("%w: missing spotify token", shared.ErrNotAuthenticated)
	}
	if err := track.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	client := spotify.New(p.authedClient(ctx, token), spotify.WithBaseURL(p.baseURL))

	opts := &spotify.PlayOptions{
		URIs: []spotify.URI{spotify.URI(track.URI(p.uriScheme))},
	}
	if p.deviceID != "" {
		id := spotify.ID(p.deviceID)
		opts.DeviceID = &id
	}

	if err := client.PlayOpt(ctx, opts); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrPlaybackFailed, err)
	}

	return nil
}

// authedClient layers the bearer token and a JSON content type over the base client.
func (p *PlayerService) authedClient(ctx context.Context, token string) *http.Client {
	base := &http.Client{
		Timeout:   p.httpClient.Timeout,
		Transport: jsonContentType{base: p.httpClient.Transport},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, src)
}

// jsonContentType marks request bodies as JSON when the caller did not.
type jsonContentType struct {
	base http.RoundTripper
}

func (t jsonContentType) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Content-Type", "application/json")
	}

	return base.RoundTrip(req)
}
