package server

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/shared"
)

const noMoreTracks = "no more tracks"

// DemoTracks is the catalogue served when none is supplied.
var DemoTracks = []models.Track{
	{ID: "4uLU6hMCjMI75M1A2tKUQC", Name: "Never Gonna Give You Up", Artists: []models.Artist{{Name: "Rick Astley"}}},
	{ID: "7ouMYWpwJ422jRcDASZB7P", Name: "Knights of Cydonia", Artists: []models.Artist{{Name: "Muse"}}},
	{ID: "3n3Ppam7vgaVa1iaRUc9Lp", Name: "Mr. Brightside", Artists: []models.Artist{{Name: "The Killers"}}},
	{ID: "0VjIjW4GlUZAMYd2vXMi3b", Name: "Blinding Lights", Artists: []models.Artist{{Name: "The Weeknd"}}},
	{ID: "2TpxZ7JUBn3uw46aR7qd6V", Name: "All I Want for Christmas Is You", Artists: []models.Artist{{Name: "Mariah Carey"}}},
	{ID: "6habFhsOp2NvshLv26DqMb", Name: "Despacito", Artists: []models.Artist{{Name: "Luis Fonsi"}, {Name: "Daddy Yankee"}}},
}

// RatingAPI is an in-memory rating server.
//
// Features keep creation order. Requesting tracks for an unknown feature creates it.
type RatingAPI struct {
	logger *log.Logger
	token  string
	tracks []models.Track
	pick   func(n int) int

	mu       sync.Mutex
	features []string
	ratings  map[string]map[string]models.Rating

	stop     chan struct{}
	stopOnce sync.Once
}

// RatingAPIOpts configures [NewRatingAPI].
type RatingAPIOpts struct {
	Features []string
	Tracks   []models.Track // defaults to [DemoTracks]
	Token    string
	Logger   *log.Logger
	Pick     func(n int) int // index of the untrained track to serve; defaults to a uniform random pick
}

// NewRatingAPI creates a mock server seeded with opts.
func NewRatingAPI(opts RatingAPIOpts) *RatingAPI {
	if len(opts.Tracks) == 0 {
		opts.Tracks = DemoTracks
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}

	api := &RatingAPI{
		logger:  opts.Logger,
		token:   opts.Token,
		tracks:  slices.Clone(opts.Tracks),
		pick:    opts.Pick,
		ratings: map[string]map[string]models.Rating{},
		stop:    make(chan struct{}),
	}
	for _, f := range opts.Features {
		api.ensureFeature(f)
	}
	return api
}

// LoadTracks decodes a JSON array of tracks in the random_untrained response shape.
func LoadTracks(r io.Reader) ([]models.Track, error) {
	var tracks []models.Track
	if err := json.NewDecoder(r).Decode(&tracks); err != nil {
		return nil, fmt.Errorf("%w: track catalogue: %v", shared.ErrInvalidInput, err)
	}
	for i, t := range tracks {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: track %d: %v", shared.ErrInvalidInput, i, err)
		}
	}
	return tracks, nil
}

// Routes implements [Handler].
func (a *RatingAPI) Routes() []string {
	return []string{
		"GET /{$}",
		"GET /api/features",
		"POST /api/features/{feature}/{$}",
		"GET /api/features/{feature}/tracks/random_untrained",
		"POST /api/features/{feature}/tracks/{track}/rate/{rating}",
		"GET /api/spotify_token",
		"POST /api/shutdown",
	}
}

// ServeHTTP dispatches on the matched mux pattern.
func (a *RatingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /{$}":
		a.index(w, r)
	case "GET /api/features":
		a.listFeatures(w, r)
	case "POST /api/features/{feature}/{$}":
		a.createFeature(w, r)
	case "GET /api/features/{feature}/tracks/random_untrained":
		a.randomUntrained(w, r)
	case "POST /api/features/{feature}/tracks/{track}/rate/{rating}":
		a.rate(w, r)
	case "GET /api/spotify_token":
		writeText(w, http.StatusOK, a.token)
	case "POST /api/shutdown":
		a.Stop()
		writeText(w, http.StatusOK, "ok")
	default:
		http.NotFound(w, r)
	}
}

// Done is closed once a shutdown has been requested.
func (a *RatingAPI) Done() <-chan struct{} {
	return a.stop
}

// Stop requests shutdown; further calls are no-ops.
func (a *RatingAPI) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Features returns feature names in creation order.
func (a *RatingAPI) Features() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.features)
}

// Ratings returns a copy of the ratings recorded for feature.
func (a *RatingAPI) Ratings(feature string) map[string]models.Rating {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]models.Rating, len(a.ratings[feature]))
	for id, r := range a.ratings[feature] {
		out[id] = r
	}
	return out
}

func (a *RatingAPI) index(w http.ResponseWriter, _ *http.Request) {
	features := a.Features()
	page := fmt.Sprintf("trackrater mock server\n\n%d feature(s), %d track(s)\n", len(features), len(a.tracks))
	for _, f := range features {
		page += fmt.Sprintf("- %s: %d rated\n", f, len(a.Ratings(f)))
	}
	writeText(w, http.StatusOK, page)
}

func (a *RatingAPI) listFeatures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Features())
}

func (a *RatingAPI) createFeature(w http.ResponseWriter, r *http.Request) {
	feature := r.PathValue("feature")
	if feature == "" {
		writeText(w, http.StatusBadRequest, "missing feature")
		return
	}
	a.mu.Lock()
	a.ensureFeature(feature)
	a.mu.Unlock()

	a.logger.Debug("feature created", "feature", feature)
	writeText(w, http.StatusOK, "ok")
}

func (a *RatingAPI) randomUntrained(w http.ResponseWriter, r *http.Request) {
	feature := r.PathValue("feature")

	a.mu.Lock()
	a.ensureFeature(feature)
	rated := a.ratings[feature]
	var untrained []models.Track
	for _, t := range a.tracks {
		if _, ok := rated[t.ID]; !ok {
			untrained = append(untrained, t)
		}
	}
	a.mu.Unlock()

	if len(untrained) == 0 {
		writeText(w, http.StatusOK, noMoreTracks)
		return
	}

	i := a.pick(len(untrained))
	if i < 0 || i >= len(untrained) {
		i = 0
	}
	writeJSON(w, http.StatusOK, untrained[i])
}

func (a *RatingAPI) rate(w http.ResponseWriter, r *http.Request) {
	feature, track := r.PathValue("feature"), r.PathValue("track")

	rating, err := models.ParseRating(r.PathValue("rating"))
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	a.mu.Lock()
	a.ensureFeature(feature)
	a.ratings[feature][track] = rating
	a.mu.Unlock()

	a.logger.Debug("track rated", "feature", feature, "track", track, "rating", rating)
	writeText(w, http.StatusOK, "ok")
}

// ensureFeature must be called with mu held.
func (a *RatingAPI) ensureFeature(name string) {
	if _, ok := a.ratings[name]; ok {
		return
	}
	a.features = append(a.features, name)
	a.ratings[name] = map[string]models.Rating{}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
