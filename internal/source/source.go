// internal/source/source.go
package source

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrNoCandidate is returned when no file candidate yields a valid document.
	ErrNoCandidate = errors.New("source: no readable candidate")

	// ErrMalformed marks a body or file that is not valid JSON.
	ErrMalformed = errors.New("source: malformed json")
)

// Document names one backend resource. The same resource is reachable
// as an API endpoint (relative to the base URL) or as a file name
// inside one of the candidate data directories.
type Document struct {
	Name     string
	Endpoint string
	File     string
}

// Inbound state documents.
var (
	Drowsiness = Document{Name: "drowsiness", Endpoint: "/drowsiness", File: "drowsiness.json"}
	Status     = Document{Name: "status", Endpoint: "/status", File: "status.json"}
	LogSummary = Document{Name: "log_summary", Endpoint: "/log_summary", File: "log_summary.json"}
)

// Outbound acknowledgement requests.
var (
	StopSpeaker  = Document{Name: "stop_speaker", Endpoint: "/stop_speaker", File: "stop_speaker.json"}
	UserResponse = Document{Name: "user_response", Endpoint: "/user_response", File: "user_response.json"}
)

// Mode is the channel currently used to talk to the backend.
type Mode string

const (
	ModeAPI  Mode = "api"
	ModeFile Mode = "file"
)

// Config is the runtime config for a Source.
type Config struct {
	BaseURL     string
	Timeout     time.Duration // per API request
	Dirs        []string      // file candidates, in search order
	ReadTimeout time.Duration // per file read

	// OnFallback is called once per API -> file transition. Optional.
	OnFallback func(doc Document, err error)
}

// Source selects between the backend API and the shared data files.
//
// The API is tried while it is considered available. The first failure
// switches the Source to file mode permanently; only ResetAvailability
// brings the API back. Safe for concurrent use.
type Source struct {
	api         *apiClient
	dirs        []string
	readTimeout time.Duration
	onFallback  func(doc Document, err error)

	apiAvailable atomic.Bool
}

// New builds a Source. The API starts out available.
func New(cfg Config) (*Source, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("source: base url required")
	}
	if len(cfg.Dirs) == 0 {
		return nil, errors.New("source: at least one candidate directory required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 200 * time.Millisecond
	}

	s := &Source{
		api:         newAPIClient(cfg.BaseURL, cfg.Timeout),
		dirs:        append([]string(nil), cfg.Dirs...),
		readTimeout: cfg.ReadTimeout,
		onFallback:  cfg.OnFallback,
	}
	s.apiAvailable.Store(true)
	return s, nil
}

// Fetch returns the raw JSON body of doc from the current channel.
func (s *Source) Fetch(ctx context.Context, doc Document) ([]byte, error) {
	if s.apiAvailable.Load() {
		body, err := s.api.get(ctx, doc.Endpoint)
		if err == nil {
			return body, nil
		}
		if callerCancelled(ctx) {
			return nil, err
		}
		s.markUnavailable(doc, err)
	}
	return s.readFile(ctx, doc.File)
}

// Post delivers payload for doc through the current channel.
// An API failure flips the channel and the payload is written
// to the request file instead. A cancelled ctx delivers nothing.
func (s *Source) Post(ctx context.Context, doc Document, payload any) error {
	if s.apiAvailable.Load() {
		err := s.api.post(ctx, doc.Endpoint, payload)
		if err == nil {
			return nil
		}
		if callerCancelled(ctx) {
			return err
		}
		s.markUnavailable(doc, err)
	}

	if callerCancelled(ctx) {
		return ctx.Err()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.writeFile(doc.File, body)
}

// Probe checks the backend health route. It never changes the channel.
func (s *Source) Probe(ctx context.Context) error {
	return s.api.health(ctx)
}

// ResetAvailability allows the API to be tried again.
func (s *Source) ResetAvailability() {
	if !s.apiAvailable.Swap(true) {
		log.Printf("source: api availability reset")
	}
}

// APIAvailable reports whether the API channel is in use.
func (s *Source) APIAvailable() bool {
	return s.apiAvailable.Load()
}

// Mode reports the current channel.
func (s *Source) Mode() Mode {
	if s.apiAvailable.Load() {
		return ModeAPI
	}
	return ModeFile
}

// Dirs returns the file candidates in search order.
func (s *Source) Dirs() []string {
	return append([]string(nil), s.dirs...)
}

func (s *Source) markUnavailable(doc Document, err error) {
	// One-way: only the winning caller logs and reports the transition.
	if !s.apiAvailable.CompareAndSwap(true, false) {
		return
	}
	log.Printf("source: api unavailable, switching to file mode (doc=%s): %v", doc.Name, err)
	if s.onFallback != nil {
		s.onFallback(doc, err)
	}
}

// callerCancelled reports a cancellation that came from the caller.
// It says nothing about the backend, so the channel is left alone.
func callerCancelled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}
