package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/services"
	"github.com/desertthunder/trackrater/internal/shared"
	tu "github.com/desertthunder/trackrater/internal/testing"
)

// ratingServer serves the feature-rating endpoints with canned responses.
func ratingServer(t *testing.T) *tu.RecordingServer {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/features", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["pop","rock"]`))
	})
	mux.HandleFunc("GET /api/spotify_token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tok-123\n"))
	})
	mux.HandleFunc("GET /api/features/{feature}/tracks/random_untrained", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("feature") == "done" {
			w.Write([]byte("no more tracks"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"T1","name":"Song","artists":[{"name":"A"},{"name":"B"}]}`))
	})
	mux.HandleFunc("POST /api/features/{feature}/tracks/{id}/rate/{rating}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/features/{feature}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bye"))
	})
	mux.HandleFunc("POST /api/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"echo":true}`))
	})

	srv := tu.NewRecordingServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *shared.Config {
	config := shared.DefaultConfig()
	config.Server.BaseURL = baseURL
	config.Server.RateLimit = 0
	return config
}

// run executes the root command with args and returns what it wrote.
func run(t *testing.T, r *Runner, args ...string) (string, error) {
	t.Helper()
	out := r.output.(*bytes.Buffer)
	out.Reset()
	err := r.command().Run(context.Background(), append([]string{"trackrater"}, args...))
	return out.String(), err
}

func newTestRunner(srv *tu.RecordingServer, player services.Player) *Runner {
	return NewRunner(RunnerOpts{
		Config: testConfig(srv.URL),
		Player: player,
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: &bytes.Buffer{},
	})
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			features := services.NewFeatureService(services.NewAPIService("http://example.test", nil))
			player := &tu.FakePlayer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Features:   features,
				Player:     player,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.features != features {
				t.Error("expected features to be set")
			}
			if runner.player != player {
				t.Error("expected player to be set")
			}
			if !runner.configured {
				t.Error("expected runner with explicit config to be marked configured")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Fatal("expected default config to be set")
			}
			if runner.configured {
				t.Error("expected default config to be reloaded from flags")
			}
			if runner.features == nil || runner.player == nil {
				t.Error("expected clients to be built from the default config")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Server.TimeoutSeconds = 3
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient == nil {
				t.Fatal("expected httpClient to be set")
			}
			if runner.httpClient.Timeout != config.Server.Timeout() {
				t.Errorf("expected timeout %v, got %v", config.Server.Timeout(), runner.httpClient.Timeout)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"ui", "features", "track", "server", "api", "config"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestFeatureCommands(t *testing.T) {
	t.Run("list text", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "features", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "1. pop\n2. rock\n") {
			t.Errorf("expected features in server order, got %q", out)
		}
	})

	t.Run("list json", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "features", "list", "--json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var names []string
		if err := json.Unmarshal([]byte(out), &names); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", out, err)
		}
		if len(names) != 2 || names[0] != "pop" {
			t.Errorf("unexpected names %v", names)
		}
	})

	t.Run("list csv to file", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)
		path := filepath.Join(t.TempDir(), "features.csv")

		out, err := run(t, r, "features", "list", "--format", "csv", "--output", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, path) {
			t.Errorf("expected written path in output, got %q", out)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if string(data) != "Name\npop\nrock\n" {
			t.Errorf("unexpected CSV %q", string(data))
		}
	})

	t.Run("list with unknown format", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		_, err := run(t, r, "features", "list", "--format", "yaml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(srv.Requests()) != 0 {
			t.Error("expected no request for an invalid format")
		}
	})

	t.Run("create", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "features", "create", "chill vibes")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Created feature chill vibes") {
			t.Errorf("unexpected output %q", out)
		}

		reqs := srv.Requests()
		if len(reqs) != 1 {
			t.Fatalf("expected 1 request, got %d", len(reqs))
		}
		if reqs[0].Method != http.MethodPost || reqs[0].Path != "/api/features/chill%20vibes/" {
			t.Errorf("unexpected request %s %s", reqs[0].Method, reqs[0].Path)
		}
	})

	t.Run("create without name", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		_, err := run(t, r, "features", "create")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestTrackCommands(t *testing.T) {
	t.Run("next", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "track", "next", "--feature", "pop")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(out, "A, B – Song\n") {
			t.Errorf("expected display text, got %q", out)
		}
		if !strings.Contains(out, "spotify:track:T1") {
			t.Errorf("expected URI, got %q", out)
		}
	})

	t.Run("next json", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "track", "next", "--feature", "pop", "--json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var track models.Track
		if err := json.Unmarshal([]byte(out), &track); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", out, err)
		}
		if track.ID != "T1" || len(track.Artists) != 2 {
			t.Errorf("unexpected track %+v", track)
		}
	})

	t.Run("next with play", func(t *testing.T) {
		srv := ratingServer(t)
		player := &tu.FakePlayer{}
		r := newTestRunner(srv, player)

		if _, err := run(t, r, "track", "next", "--feature", "pop", "--play"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(player.Calls) != 1 {
			t.Fatalf("expected one play call, got %d", len(player.Calls))
		}
		if call := player.Calls[0]; call.Token != "tok-123" || call.TrackID != "T1" {
			t.Errorf("unexpected play call %+v", call)
		}
	})

	t.Run("next with failing playback still prints track", func(t *testing.T) {
		srv := ratingServer(t)
		player := &tu.FakePlayer{Err: shared.ErrPlaybackFailed}
		r := newTestRunner(srv, player)

		out, err := run(t, r, "track", "next", "--feature", "pop", "--play")
		if err != nil {
			t.Fatalf("expected playback failure to be non-fatal, got %v", err)
		}
		if !strings.Contains(out, "A, B – Song") {
			t.Errorf("expected track output, got %q", out)
		}
	})

	t.Run("next when every track is rated", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		_, err := run(t, r, "track", "next", "--feature", "done")
		if !errors.Is(err, shared.ErrNoUntrainedTracks) {
			t.Errorf("expected ErrNoUntrainedTracks, got %v", err)
		}
	})

	t.Run("next requires feature", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		if _, err := run(t, r, "track", "next"); err == nil {
			t.Error("expected error for missing --feature")
		}
	})

	t.Run("rate", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "track", "rate", "--feature", "rock", "--track", "T1", "--rating", "1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Rated T1 1 for rock") {
			t.Errorf("unexpected output %q", out)
		}

		reqs := srv.Requests()
		if len(reqs) != 1 || reqs[0].Path != "/api/features/rock/tracks/T1/rate/1" {
			t.Errorf("unexpected requests %+v", reqs)
		}
	})

	t.Run("rate rejects invalid rating", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		_, err := run(t, r, "track", "rate", "--feature", "rock", "--track", "T1", "--rating", "2")
		if !errors.Is(err, shared.ErrInvalidRating) {
			t.Errorf("expected ErrInvalidRating, got %v", err)
		}
		if len(srv.Requests()) != 0 {
			t.Error("expected no request for an invalid rating")
		}
	})
}

func TestTrackImport(t *testing.T) {
	t.Run("submits every row", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		dir := t.TempDir()
		path := filepath.Join(dir, "ratings.csv")
		if err := os.WriteFile(path, []byte("feature,track,rating\npop,T1,1\nrock,T2,0\n"), 0644); err != nil {
			t.Fatalf("failed to write ratings: %v", err)
		}
		manifest := filepath.Join(dir, "manifest.json")

		out, err := run(t, r, "track", "import", "--rate-limit", "1000", "--manifest", manifest, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Rated 2 of 2 track(s)") {
			t.Errorf("expected summary, got %q", out)
		}
		if _, err := os.Stat(manifest); err != nil {
			t.Errorf("expected manifest to be written: %v", err)
		}

		paths := map[string]bool{}
		for _, req := range srv.Requests() {
			paths[req.Path] = true
		}
		for _, want := range []string{"/api/features/pop/tracks/T1/rate/1", "/api/features/rock/tracks/T2/rate/0"} {
			if !paths[want] {
				t.Errorf("expected request to %s, got %v", want, paths)
			}
		}
	})

	t.Run("rejects malformed file", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		path := filepath.Join(t.TempDir(), "ratings.csv")
		if err := os.WriteFile(path, []byte("pop,T1,maybe\n"), 0644); err != nil {
			t.Fatalf("failed to write ratings: %v", err)
		}

		_, err := run(t, r, "track", "import", path)
		if !errors.Is(err, shared.ErrInvalidRating) {
			t.Errorf("expected ErrInvalidRating, got %v", err)
		}
		if len(srv.Requests()) != 0 {
			t.Error("expected nothing to be submitted from a malformed file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		if _, err := run(t, r, "track", "import", filepath.Join(t.TempDir(), "nope.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestServerCommands(t *testing.T) {
	t.Run("shutdown", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		if _, err := run(t, r, "server", "shutdown"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		reqs := srv.Requests()
		if len(reqs) != 1 || reqs[0].Method != http.MethodPost || reqs[0].Path != "/api/shutdown" {
			t.Errorf("unexpected requests %+v", reqs)
		}
	})

	t.Run("open", func(t *testing.T) {
		srv := ratingServer(t)
		var opened string
		r := NewRunner(RunnerOpts{
			Config: testConfig(srv.URL),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
			Open: func(url string) error {
				opened = url
				return nil
			},
		})

		if _, err := run(t, r, "server", "open"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if opened != srv.URL+"/" {
			t.Errorf("expected %s/ to be opened, got %q", srv.URL, opened)
		}
	})

	t.Run("open failure prints url", func(t *testing.T) {
		srv := ratingServer(t)
		r := NewRunner(RunnerOpts{
			Config: testConfig(srv.URL),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
			Open:   func(string) error { return fmt.Errorf("no browser") },
		})

		out, err := run(t, r, "server", "open")
		if err == nil {
			t.Fatal("expected error when the browser cannot be opened")
		}
		if !strings.Contains(out, srv.URL) {
			t.Errorf("expected fallback URL in output, got %q", out)
		}
	})
}

func TestServerMock(t *testing.T) {
	t.Run("serves until shutdown", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		addr := l.Addr().String()
		l.Close()

		r := NewRunner(RunnerOpts{
			Config: testConfig("http://" + addr),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		done := make(chan error, 1)
		go func() {
			done <- r.command().Run(context.Background(), []string{"trackrater", "server", "mock", "--feature", "pop", "--token", "tok"})
		}()

		client := services.NewFeatureService(services.NewAPIService("http://"+addr, &http.Client{Timeout: time.Second}))
		var features []models.Feature
		for range 50 {
			if features, err = client.ListFeatures(context.Background()); err == nil {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		if err != nil {
			t.Fatalf("mock server never came up: %v", err)
		}
		if len(features) != 1 || features[0].Name != "pop" {
			t.Errorf("expected [pop], got %v", features)
		}

		track, err := client.RandomUntrained(context.Background(), "pop")
		if err != nil {
			t.Fatalf("expected a demo track, got %v", err)
		}
		if err := client.Rate(context.Background(), "pop", track.ID, models.Upvote); err != nil {
			t.Fatalf("rate failed: %v", err)
		}

		if err := client.Shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown failed: %v", err)
		}
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean exit, got %v", err)
			}
		case <-time.After(10 * time.Second):
			t.Fatal("mock server did not stop")
		}
	})

	t.Run("rejects invalid catalogue", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.json")
		if err := os.WriteFile(path, []byte(`[{"name":"no id"}]`), 0644); err != nil {
			t.Fatal(err)
		}
		r := newTestRunner(ratingServer(t), nil)

		if _, err := run(t, r, "server", "mock", "--tracks", path); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("output failure stops before listening", func(t *testing.T) {
		srv := ratingServer(t)
		r := NewRunner(RunnerOpts{
			Config: testConfig(srv.URL),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &tu.FWriter{},
		})

		err := r.command().Run(context.Background(), []string{"trackrater", "server", "mock"})
		if err == nil || !strings.Contains(err.Error(), "write failed") {
			t.Errorf("expected write failure, got %v", err)
		}
	})

	t.Run("requires a listen address", func(t *testing.T) {
		r := NewRunner(RunnerOpts{
			Config: testConfig("not a url"),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		if _, err := run(t, r, "server", "mock"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestServerOpenOutputFailure(t *testing.T) {
	srv := ratingServer(t)
	r := NewRunner(RunnerOpts{
		Config: testConfig(srv.URL),
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: &tu.FWriter{},
		Open:   func(string) error { return fmt.Errorf("no browser") },
	})

	err := r.command().Run(context.Background(), []string{"trackrater", "server", "open"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to open browser") || !strings.Contains(err.Error(), "write failed") {
		t.Errorf("expected both the browser and the write failure, got %v", err)
	}
}

func TestAPICommands(t *testing.T) {
	t.Run("get json", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "api", "get", "--json", "api/features")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(out) != `["pop","rock"]` {
			t.Errorf("expected compact JSON, got %q", out)
		}
	})

	t.Run("get plain text", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "api", "get", "/api/spotify_token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out != "tok-123\n" {
			t.Errorf("expected token, got %q", out)
		}
	})

	t.Run("get non-2xx", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		_, err := run(t, r, "api", "get", "/api/missing")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("post with body", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		out, err := run(t, r, "api", "post", "--data", `{"a":1}`, "/api/echo")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, `"echo": true`) {
			t.Errorf("expected pretty JSON, got %q", out)
		}

		reqs := srv.Requests()
		if len(reqs) != 1 || reqs[0].Body != `{"a":1}` {
			t.Errorf("unexpected requests %+v", reqs)
		}
		if reqs[0].Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", reqs[0].Header.Get("Content-Type"))
		}
	})

	t.Run("post invalid JSON", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		_, err := run(t, r, "api", "post", "--data", "{nope", "/api/echo")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		srv := ratingServer(t)
		r := newTestRunner(srv, nil)

		_, err := run(t, r, "api", "get")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestConfigCommands(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		r := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})
		path := filepath.Join(t.TempDir(), "config.toml")

		if _, err := run(t, r, "config", "init", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load written config: %v", err)
		}
		if loaded.Server.BaseURL != shared.DefaultConfig().Server.BaseURL {
			t.Errorf("expected default base_url, got %q", loaded.Server.BaseURL)
		}

		if _, err := run(t, r, "config", "init", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("show", func(t *testing.T) {
		r := NewRunner(RunnerOpts{
			Config: testConfig("http://rater.test:9000"),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		out, err := run(t, r, "config", "show")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "http://rater.test:9000") {
			t.Errorf("expected base_url in output, got %q", out)
		}
		if !strings.Contains(out, "[spotify]") {
			t.Errorf("expected spotify table, got %q", out)
		}
	})

	t.Run("config flag", func(t *testing.T) {
		srv := ratingServer(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		contents := fmt.Sprintf("[server]\nbase_url = %q\nrate_limit = 0.0\n", srv.URL)
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		r := NewRunner(RunnerOpts{
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		out, err := run(t, r, "--config", path, "features", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "pop") {
			t.Errorf("expected features from configured server, got %q", out)
		}
		if r.config.Server.BaseURL != srv.URL {
			t.Errorf("expected loaded base_url %s, got %s", srv.URL, r.config.Server.BaseURL)
		}
	})

	t.Run("invalid config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[server\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		r := NewRunner(RunnerOpts{
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		if _, err := run(t, r, "-c", path, "config", "show"); err == nil {
			t.Error("expected error for unparseable config")
		}
	})
}
