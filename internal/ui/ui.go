package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/services"
	"github.com/desertthunder/trackrater/internal/shared"
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	api    services.FeatureAPI
	player services.Player
	logger *log.Logger

	session  Session
	current  *models.Track
	features []models.Feature
	page     Page

	loadSeq    uint64
	cancelLoad context.CancelFunc
	loading    bool
	ratedCount int

	status    string
	statusErr bool
	err       error

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// A nil logger discards log output.
func NewModel(ctx context.Context, api services.FeatureAPI, player services.Player, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{
		ctx:    ctx,
		api:    api,
		player: player,
		logger: logger,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Session returns a copy of the current session.
func (m *Model) Session() Session {
	return m.session
}

// Elements returns the current page body.
func (m *Model) Elements() []Element {
	return m.page.Elements()
}

// Err returns the error that stopped the page, if any.
func (m *Model) Err() error {
	return m.err
}

// Init clears the page and requests the feature list and the playback token.
func (m *Model) Init() tea.Cmd {
	m.page.Clear()
	m.session = Session{}
	m.current = nil
	return tea.Batch(m.fetchFeatures(), m.fetchToken())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgFeaturesFetched:
		data := msg.data.(featuresFetched)
		if data.err != nil {
			m.logger.Error("failed to fetch features", "error", data.err)
			m.err = data.err
			return m, nil
		}
		m.features = data.features
		m.logger.Info("features fetched", "count", len(data.features))
		if !m.session.Selected() {
			m.renderFeatureList()
		}
		return m, nil

	case MsgTokenFetched:
		data := msg.data.(tokenFetched)
		if data.err != nil {
			m.logger.Warn("failed to fetch spotify token, playback disabled", "error", data.err)
			m.setStatus(true, "playback disabled: %v", data.err)
			return m, nil
		}
		m.session.Token = data.token
		if m.current != nil {
			m.logger.Debug("token arrived after track, starting playback", "track", m.current.ID)
			return m, m.play(*m.current)
		}
		return m, nil

	case MsgTrackLoaded:
		return m.handleTrackLoaded(msg.data.(trackLoaded))

	case MsgRated:
		data := msg.data.(rated)
		if data.err != nil {
			m.logger.Error("failed to submit rating", "feature", data.feature, "track", data.trackID, "error", data.err)
			m.setStatus(true, "rating failed: %v", data.err)
			return m, nil
		}
		m.ratedCount++
		m.logger.Info("rated", "feature", data.feature, "track", data.trackID, "rating", data.rating)
		if data.feature != m.session.Feature {
			return m, nil
		}
		m.setStatus(false, "rated %d track(s)", m.ratedCount)
		return m, m.LoadRandomTrack(data.feature)

	case MsgPlayback:
		data := msg.data.(playback)
		if data.err != nil {
			m.logger.Warn("playback request failed", "track", data.trackID, "error", data.err)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleTrackLoaded(data trackLoaded) (tea.Model, tea.Cmd) {
	if data.seq != m.loadSeq || data.feature != m.session.Feature {
		m.logger.Debug("dropping stale track", "seq", data.seq, "current", m.loadSeq, "feature", data.feature)
		return m, nil
	}

	m.stopLoad()

	if data.err != nil {
		m.session.CurrentTrackID = ""
		m.current = nil
		m.page.SetTrackLabel("")
		if errors.Is(data.err, shared.ErrNoUntrainedTracks) {
			m.setStatus(false, "every track of %q is rated", data.feature)
			return m, nil
		}
		m.logger.Error("failed to load track", "feature", data.feature, "error", data.err)
		m.setStatus(true, "loading track failed: %v", data.err)
		return m, nil
	}

	m.page.SetTrackLabel(data.track.DisplayText())
	m.session.CurrentTrackID = data.track.ID
	m.current = data.track
	m.logger.Debug("track displayed", "feature", data.feature, "track", data.track.ID)

	return m, m.play(*data.track)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stopLoad()
		return m, tea.Quit
	}

	if m.err != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.left):
		m.page.FocusPrev()
	case key.Matches(msg, m.keys.right):
		m.page.FocusNext()
	case key.Matches(msg, m.keys.enter):
		return m, m.press()
	case key.Matches(msg, m.keys.downvote):
		if m.session.Selected() {
			return m, m.RateAndReload(models.Downvote)
		}
	case key.Matches(msg, m.keys.upvote):
		if m.session.Selected() {
			return m, m.RateAndReload(models.Upvote)
		}
	case key.Matches(msg, m.keys.back):
		if m.session.Selected() {
			m.stopLoad()
			m.session.reset()
			m.current = nil
			m.status = ""
			m.renderFeatureList()
		}
	}

	return m, nil
}

// press activates the focused button.
func (m *Model) press() tea.Cmd {
	e, ok := m.page.Focused()
	if !ok {
		return nil
	}

	switch e.Action {
	case SelectFeatureAction:
		return m.SelectFeature(e.Value)
	case RateAction:
		rating, err := models.ParseRating(e.Value)
		if err != nil {
			m.setStatus(true, "%v", err)
			return nil
		}
		return m.RateAndReload(rating)
	}
	return nil
}

// SelectFeature clears the page, renders the rating view for name and starts loading a track.
func (m *Model) SelectFeature(name string) tea.Cmd {
	m.page.Clear()
	m.session.selectFeature(name)
	m.current = nil
	m.status = ""
	m.page.Append(
		header(name),
		rateButton(models.Downvote.String()),
		rateButton(models.Upvote.String()),
		lineBreak(),
		trackLabel(),
	)
	m.logger.Info("feature selected", "feature", name)
	return m.LoadRandomTrack(name)
}

// LoadRandomTrack fetches a random untrained track for name.
//
// Any load still in flight is canceled and its result will be ignored.
func (m *Model) LoadRandomTrack(name string) tea.Cmd {
	m.stopLoad()

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelLoad = cancel
	m.loadSeq++
	m.loading = true

	seq, api := m.loadSeq, m.api
	return func() tea.Msg {
		track, err := api.RandomUntrained(ctx, name)
		return trackLoadedMsg(seq, name, track, err)
	}
}

// RateAndReload submits rating for the track displayed right now, then loads the next one.
func (m *Model) RateAndReload(rating models.Rating) tea.Cmd {
	feature, trackID := m.session.Feature, m.session.CurrentTrackID
	if feature == "" {
		return nil
	}
	if trackID == "" {
		m.setStatus(true, "no track to rate yet")
		return nil
	}

	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		err := api.Rate(ctx, feature, trackID, rating)
		return ratedMsg(feature, trackID, rating, err)
	}
}

// play issues a fire-and-forget play command; its outcome is only logged.
func (m *Model) play(track models.Track) tea.Cmd {
	if m.player == nil {
		return nil
	}
	token := m.session.Token
	if token == "" {
		m.logger.Debug("no spotify token, skipping playback", "track", track.ID)
		return nil
	}

	ctx, player := m.ctx, m.player
	return func() tea.Msg {
		return playbackMsg(track.ID, player.Play(ctx, token, track))
	}
}

func (m *Model) fetchFeatures() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		features, err := api.ListFeatures(ctx)
		return featuresFetchedMsg(features, err)
	}
}

func (m *Model) fetchToken() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		token, err := api.SpotifyToken(ctx)
		return tokenFetchedMsg(token, err)
	}
}

func (m *Model) renderFeatureList() {
	m.page.Clear()
	for _, f := range m.features {
		m.page.Append(featureButton(f.Name))
	}
}

func (m *Model) stopLoad() {
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	m.loading = false
}

func (m *Model) setStatus(isErr bool, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = isErr
}

// View renders the page, a status line and contextual help.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var b strings.Builder
	if !m.session.Selected() {
		b.WriteString(styles.title.Render("Pick a feature"))
		b.WriteString("\n")
		if len(m.features) == 0 {
			b.WriteString(styles.help.Render("loading features..."))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.page.Render(styles))

	if m.loading {
		b.WriteString(styles.help.Render("loading track..."))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(styles.warn.Render(m.status))
		} else {
			b.WriteString(styles.ok.Render(m.status))
		}
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.left, m.keys.right, m.keys.enter, m.keys.quit}
	if m.session.Selected() {
		helpKeys = []key.Binding{m.keys.downvote, m.keys.upvote, m.keys.back, m.keys.quit}
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))

	return b.String()
}
