package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackrater/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgFeaturesFetched MsgKind = iota
	MsgTokenFetched
	MsgTrackLoaded
	MsgRated
	MsgPlayback
)

type featuresFetched struct {
	features []models.Feature
	err      error
}

type tokenFetched struct {
	token string
	err   error
}

type trackLoaded struct {
	seq     uint64
	feature string
	track   *models.Track
	err     error
}

type rated struct {
	feature string
	trackID string
	rating  models.Rating
	err     error
}

type playback struct {
	trackID string
	err     error
}

// featuresFetchedMsg is the constructor for [MsgFeaturesFetched]
func featuresFetchedMsg(features []models.Feature, err error) Msg {
	return Msg{kind: MsgFeaturesFetched, data: featuresFetched{features, err}}
}

// tokenFetchedMsg is the constructor for [MsgTokenFetched]
func tokenFetchedMsg(token string, err error) Msg {
	return Msg{kind: MsgTokenFetched, data: tokenFetched{token, err}}
}

// trackLoadedMsg is the constructor for [MsgTrackLoaded]
func trackLoadedMsg(seq uint64, feature string, track *models.Track, err error) Msg {
	return Msg{kind: MsgTrackLoaded, data: trackLoaded{seq, feature, track, err}}
}

// ratedMsg is the constructor for [MsgRated]
func ratedMsg(feature, trackID string, rating models.Rating, err error) Msg {
	return Msg{kind: MsgRated, data: rated{feature, trackID, rating, err}}
}

// playbackMsg is the constructor for [MsgPlayback]
func playbackMsg(trackID string, err error) Msg {
	return Msg{kind: MsgPlayback, data: playback{trackID, err}}
}
