// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/desertthunder/trackrater/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// RecordedRequest is a request captured by [RecordingServer].
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// RecordingServer wraps an [httptest.Server] and keeps every request it receives.
type RecordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewRecordingServer starts a server that records requests before delegating to h.
func NewRecordingServer(h http.Handler) *RecordingServer {
	rs := &RecordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.requests = append(rs.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		rs.mu.Unlock()
		h.ServeHTTP(w, r)
	}))
	return rs
}

// Requests returns a copy of the recorded requests in arrival order.
func (rs *RecordingServer) Requests() []RecordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]RecordedRequest, len(rs.requests))
	copy(out, rs.requests)
	return out
}

// RateCall is a rating recorded by [FakeFeatureAPI].
type RateCall struct {
	Feature string
	TrackID string
	Rating  models.Rating
}

// FakeFeatureAPI is a test double for services.FeatureAPI.
//
// Tracks are handed out in order per call to RandomUntrained; the last one repeats.
type FakeFeatureAPI struct {
	Features    []models.Feature
	Token       string
	Tracks      []models.Track
	FeaturesErr error
	TokenErr    error
	TrackErr    error
	RateErr     error

	mu         sync.Mutex
	trackCalls int
	TrackQuery []string
	RateCalls  []RateCall
}

func (f *FakeFeatureAPI) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	return f.Features, f.FeaturesErr
}

func (f *FakeFeatureAPI) SpotifyToken(ctx context.Context) (string, error) {
	return f.Token, f.TokenErr
}

func (f *FakeFeatureAPI) RandomUntrained(ctx context.Context, feature string) (*models.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TrackQuery = append(f.TrackQuery, feature)
	if f.TrackErr != nil {
		return nil, f.TrackErr
	}
	if len(f.Tracks) == 0 {
		return nil, errors.New("no tracks configured")
	}
	i := f.trackCalls
	if i >= len(f.Tracks) {
		i = len(f.Tracks) - 1
	}
	f.trackCalls++
	track := f.Tracks[i]
	return &track, nil
}

func (f *FakeFeatureAPI) Rate(ctx context.Context, feature, trackID string, rating models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RateCalls = append(f.RateCalls, RateCall{Feature: feature, TrackID: trackID, Rating: rating})
	return f.RateErr
}

// PlayCall is a play command recorded by [FakePlayer].
type PlayCall struct {
	Token   string
	TrackID string
}

// FakePlayer is a test double for services.Player.
type FakePlayer struct {
	Err error

	mu    sync.Mutex
	Calls []PlayCall
}

func (p *FakePlayer) Play(ctx context.Context, token string, track models.Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, PlayCall{Token: token, TrackID: track.ID})
	return p.Err
}
