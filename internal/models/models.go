// package models defines the data model for the track rating client
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/trackrater/internal/shared"
)

// DefaultURIScheme is the playback provider prefix used in track URIs.
const DefaultURIScheme = "spotify"

// Feature is a named track-rating game.
type Feature struct {
	Name string `json:"name"`
}

// FeaturesFromNames converts the feature-list response into [Feature] values, preserving order.
func FeaturesFromNames(names []string) []Feature {
	features := make([]Feature, len(names))
	for i, name := range names {
		features[i] = Feature{Name: name}
	}
	return features
}

// Artist is a track contributor; only the name is used.
type Artist struct {
	Name string `json:"name"`
}

// Track is a track returned by the random untrained endpoint.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
}

// ArtistNames returns artist names in response order.
func (t Track) ArtistNames() []string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}

// DisplayText formats the track as "A, B – Title".
func (t Track) DisplayText() string {
	return fmt.Sprintf("%s – %s", strings.Join(t.ArtistNames(), ", "), t.Name)
}

// URI returns "<scheme>:track:<id>". An empty scheme falls back to [DefaultURIScheme].
func (t Track) URI(scheme string) string {
	if scheme == "" {
		scheme = DefaultURIScheme
	}
	return fmt.Sprintf("%s:track:%s", scheme, t.ID)
}

// Validate reports whether the track can be displayed and rated.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("track has no id")
	}
	return nil
}

// Rating is a binary vote for a track.
type Rating uint8

const (
	Downvote Rating = 0
	Upvote   Rating = 1
)

// ParseRating accepts "0" or "1".
func ParseRating(s string) (Rating, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return Downvote, nil
	case "1":
		return Upvote, nil
	default:
		return 0, fmt.Errorf("%w: got %q", shared.ErrInvalidRating, s)
	}
}

// Valid reports whether r is 0 or 1.
func (r Rating) Valid() bool { return r == Downvote || r == Upvote }

// String renders the rating as used in the rate endpoint path.
func (r Rating) String() string { return fmt.Sprintf("%d", uint8(r)) }
