// internal/source/source_test.go
package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// ---- fake backend ----

type fakeBackend struct {
	hits   atomic.Int32
	posts  atomic.Int32
	status int
	body   string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	if r.Method == http.MethodPost {
		f.posts.Add(1)
	}
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func newSource(t *testing.T, baseURL string, dirs ...string) *Source {
	t.Helper()
	s, err := New(Config{
		BaseURL:     baseURL,
		Timeout:     500 * time.Millisecond,
		Dirs:        dirs,
		ReadTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return s
}

func writeDoc(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// deadURL returns a base URL nothing listens on.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url + "/api"
}

// ---- tests ----

func TestFetch_API(t *testing.T) {
	be := &fakeBackend{status: http.StatusOK, body: `{"state":"normal"}`}
	srv := httptest.NewServer(be)
	defer srv.Close()

	s := newSource(t, srv.URL+"/api", t.TempDir())

	body, err := s.Fetch(context.Background(), Drowsiness)
	if err != nil {
		t.Fatalf("Fetch err=%v", err)
	}
	if string(body) != `{"state":"normal"}` {
		t.Fatalf("unexpected body %q", body)
	}
	if !s.APIAvailable() || s.Mode() != ModeAPI {
		t.Fatalf("api should still be available")
	}
}

func TestFetch_FallbackIsPermanent(t *testing.T) {
	be := &fakeBackend{status: http.StatusInternalServerError}
	srv := httptest.NewServer(be)
	defer srv.Close()

	dir := t.TempDir()
	writeDoc(t, dir, "status.json", `{"impact_detected":true}`)

	var fallbacks int
	s, err := New(Config{
		BaseURL:    srv.URL,
		Dirs:       []string{dir},
		OnFallback: func(Document, error) { fallbacks++ },
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	for i := 0; i < 5; i++ {
		body, err := s.Fetch(context.Background(), Status)
		if err != nil {
			t.Fatalf("Fetch #%d err=%v", i, err)
		}
		if string(body) != `{"impact_detected":true}` {
			t.Fatalf("unexpected body %q", body)
		}
	}

	if got := be.hits.Load(); got != 1 {
		t.Fatalf("api must be tried exactly once, got %d hits", got)
	}
	if fallbacks != 1 {
		t.Fatalf("expected 1 fallback notification, got %d", fallbacks)
	}
	if s.Mode() != ModeFile {
		t.Fatalf("expected file mode")
	}
}

func TestFetch_ResetAvailabilityRetriesAPI(t *testing.T) {
	be := &fakeBackend{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(be)
	defer srv.Close()

	dir := t.TempDir()
	writeDoc(t, dir, "drowsiness.json", `{}`)

	s := newSource(t, srv.URL, dir)

	_, _ = s.Fetch(context.Background(), Drowsiness)
	_, _ = s.Fetch(context.Background(), Drowsiness)
	if got := be.hits.Load(); got != 1 {
		t.Fatalf("expected 1 hit before reset, got %d", got)
	}

	s.ResetAvailability()
	if !s.APIAvailable() {
		t.Fatalf("reset must restore availability")
	}

	_, _ = s.Fetch(context.Background(), Drowsiness)
	if got := be.hits.Load(); got != 2 {
		t.Fatalf("expected api retry after reset, got %d hits", got)
	}
}

func TestFetch_MalformedAPIBodyFallsBack(t *testing.T) {
	be := &fakeBackend{status: http.StatusOK, body: `{"state":`}
	srv := httptest.NewServer(be)
	defer srv.Close()

	dir := t.TempDir()
	writeDoc(t, dir, "drowsiness.json", `{"state":"sleepy"}`)

	s := newSource(t, srv.URL, dir)

	body, err := s.Fetch(context.Background(), Drowsiness)
	if err != nil {
		t.Fatalf("Fetch err=%v", err)
	}
	if string(body) != `{"state":"sleepy"}` {
		t.Fatalf("expected file body, got %q", body)
	}
	if s.APIAvailable() {
		t.Fatalf("malformed body must disable api")
	}
}

func TestFetch_ConnectionRefusedFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "log_summary.json", `{"monthly_score":90}`)

	s := newSource(t, deadURL(t), dir)

	if _, err := s.Fetch(context.Background(), LogSummary); err != nil {
		t.Fatalf("Fetch err=%v", err)
	}
	if s.APIAvailable() {
		t.Fatalf("refused connection must disable api")
	}
}

func TestFetch_CandidateOrder(t *testing.T) {
	first := filepath.Join(t.TempDir(), "missing")
	second := t.TempDir()
	third := t.TempDir()

	writeDoc(t, second, "status.json", `{"broken":`)
	writeDoc(t, third, "status.json", `{"from":"third"}`)

	s := newSource(t, deadURL(t), first, second, third)

	body, err := s.Fetch(context.Background(), Status)
	if err != nil {
		t.Fatalf("Fetch err=%v", err)
	}
	if string(body) != `{"from":"third"}` {
		t.Fatalf("expected third candidate, got %q", body)
	}
}

func TestFetch_NoCandidate(t *testing.T) {
	s := newSource(t, deadURL(t), t.TempDir(), t.TempDir())

	_, err := s.Fetch(context.Background(), Status)
	if !errors.Is(err, ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}
}

func TestPost_API(t *testing.T) {
	be := &fakeBackend{status: http.StatusOK, body: `{"status":"ok"}`}
	srv := httptest.NewServer(be)
	defer srv.Close()

	dir := t.TempDir()
	s := newSource(t, srv.URL, dir)

	if err := s.Post(context.Background(), StopSpeaker, map[string]any{"stop": true}); err != nil {
		t.Fatalf("Post err=%v", err)
	}
	if be.posts.Load() != 1 {
		t.Fatalf("expected 1 api post, got %d", be.posts.Load())
	}
	if _, err := os.Stat(filepath.Join(dir, "stop_speaker.json")); !os.IsNotExist(err) {
		t.Fatalf("api mode must not write request file")
	}
}

func TestPost_CancelledCallerKeepsAPI(t *testing.T) {
	be := &fakeBackend{status: http.StatusOK, body: `{"state":"normal"}`}
	srv := httptest.NewServer(be)
	defer srv.Close()

	dir := t.TempDir()
	s := newSource(t, srv.URL, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Post(ctx, StopSpeaker, map[string]any{"stop": true}); err == nil {
		t.Fatalf("expected error for a cancelled post")
	}
	if !s.APIAvailable() {
		t.Fatalf("caller cancellation must not disable the api")
	}
	if _, err := os.Stat(filepath.Join(dir, "stop_speaker.json")); !os.IsNotExist(err) {
		t.Fatalf("cancelled post must not write the request file")
	}

	// The next call still goes to the healthy backend.
	if _, err := s.Fetch(context.Background(), Drowsiness); err != nil {
		t.Fatalf("Fetch err=%v", err)
	}
	if be.hits.Load() != 1 {
		t.Fatalf("backend hits: got=%d want=1", be.hits.Load())
	}
}

func TestFetch_CancelledCallerKeepsAPI(t *testing.T) {
	be := &fakeBackend{status: http.StatusOK, body: `{"state":"normal"}`}
	srv := httptest.NewServer(be)
	defer srv.Close()

	dir := t.TempDir()
	writeDoc(t, dir, "drowsiness.json", `{"state":"sleepy"}`)
	s := newSource(t, srv.URL, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Fetch(ctx, Drowsiness); err == nil {
		t.Fatalf("expected error for a cancelled fetch")
	}
	if !s.APIAvailable() || s.Mode() != ModeAPI {
		t.Fatalf("caller cancellation must not switch to file mode")
	}
}

func TestPost_CancelledCallerInFileModeWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s := newSource(t, deadURL(t), dir)

	// Switch to file mode first.
	if err := s.Post(context.Background(), StopSpeaker, map[string]any{"stop": true}); err != nil {
		t.Fatalf("Post err=%v", err)
	}
	if err := os.Remove(filepath.Join(dir, "stop_speaker.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Post(ctx, StopSpeaker, map[string]any{"stop": true}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "stop_speaker.json")); !os.IsNotExist(err) {
		t.Fatalf("cancelled post must not write the request file")
	}
}

func TestPost_FileModeWritesRequestFile(t *testing.T) {
	unwritable := filepath.Join(t.TempDir(), "file-not-dir")
	writeDoc(t, filepath.Dir(unwritable), "file-not-dir", "x")
	dir := t.TempDir()

	s := newSource(t, deadURL(t), unwritable, dir)

	payload := map[string]any{"responded": true, "timestamp": "2026-10-14 08:00:00"}
	if err := s.Post(context.Background(), UserResponse, payload); err != nil {
		t.Fatalf("Post err=%v", err)
	}
	if s.APIAvailable() {
		t.Fatalf("failed api post must disable api")
	}

	raw, err := os.ReadFile(filepath.Join(dir, "user_response.json"))
	if err != nil {
		t.Fatalf("request file missing: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("request file not json: %v", err)
	}
	if got["responded"] != true || got["timestamp"] != "2026-10-14 08:00:00" {
		t.Fatalf("unexpected request file %s", raw)
	}
	if _, err := os.Stat(filepath.Join(dir, "user_response.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestProbe_DoesNotChangeChannel(t *testing.T) {
	s := newSource(t, deadURL(t), t.TempDir())

	if err := s.Probe(context.Background()); err == nil {
		t.Fatalf("expected probe error")
	}
	if !s.APIAvailable() {
		t.Fatalf("probe must not flip the channel")
	}
}

func TestCandidateDirs_Order(t *testing.T) {
	dirs := CandidateDirs("/home/pi/iot/data")

	if dirs[0] != "/home/pi/iot/data" {
		t.Fatalf("device dir must come first, got %v", dirs)
	}
	if dirs[len(dirs)-1] != "data" {
		t.Fatalf("bare relative dir must come last, got %v", dirs)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Skip("no working directory")
	}
	if dirs[1] != filepath.Join(wd, "..", "data") || dirs[2] != filepath.Join(wd, "data") {
		t.Fatalf("unexpected working-directory candidates: %v", dirs)
	}
}
