// internal/session/session.go
package session

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/tamzrod/dashboard-sync/internal/arbiter"
	"github.com/tamzrod/dashboard-sync/internal/metrics"
	"github.com/tamzrod/dashboard-sync/internal/poller"
	"github.com/tamzrod/dashboard-sync/internal/status"
	"github.com/tamzrod/dashboard-sync/internal/writer"
)

// ErrClosed is returned by requests made after Run has returned.
var ErrClosed = errors.New("session: closed")

// Countdown is the response timer as the owner loop drives it.
type Countdown interface {
	arbiter.Countdown
	C() <-chan time.Time
	Advance()
}

// Source is the channel state shared with the poller.
type Source interface {
	APIAvailable() bool
	ResetAvailability()
}

// Config wires a session. Status, Renderer and Metrics are optional.
type Config struct {
	Countdown Countdown
	Reporter  arbiter.Reporter
	Source    Source

	Status   writer.StatusWriter
	Renderer Renderer
	Metrics  *metrics.Metrics
}

type ackRequest struct {
	ctx   context.Context
	alert arbiter.AlertKind
	reply chan ackReply
}

type ackReply struct {
	view arbiter.View
	err  error
}

// Session is the single owner of alert state. Run drives it; every other
// method is safe for concurrent use.
type Session struct {
	arb       *arbiter.Arbiter
	countdown Countdown
	source    Source
	status    writer.StatusWriter
	renderer  Renderer
	metrics   *metrics.Metrics

	acks chan ackRequest
	done chan struct{}
	view atomic.Pointer[arbiter.View]

	// owner-goroutine state
	rendered       *arbiter.View
	block          status.Block
	blockWritten   bool
	statusDirty    bool
	statusFailing  bool
	secondsInAlert uint16
	failing        map[string]bool
}

// New creates a session with nothing shown.
func New(cfg Config) (*Session, error) {
	if cfg.Countdown == nil {
		return nil, errors.New("session: countdown required")
	}
	if cfg.Reporter == nil {
		return nil, errors.New("session: reporter required")
	}
	if cfg.Source == nil {
		return nil, errors.New("session: source required")
	}

	s := &Session{
		arb:       arbiter.New(cfg.Countdown, cfg.Reporter),
		countdown: cfg.Countdown,
		source:    cfg.Source,
		status:    cfg.Status,
		renderer:  cfg.Renderer,
		metrics:   cfg.Metrics,
		acks:      make(chan ackRequest),
		done:      make(chan struct{}),
		failing:   map[string]bool{},
	}

	v := s.arb.View()
	s.view.Store(&v)
	return s, nil
}

// View returns the latest desired screen state.
func (s *Session) View() arbiter.View {
	return *s.view.Load()
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// AcknowledgeAccident hides the response modal after reporting "I'm okay".
func (s *Session) AcknowledgeAccident(ctx context.Context) (arbiter.View, error) {
	return s.ack(ctx, arbiter.AlertResponse)
}

// AcknowledgeSpeaker hides the speaker alert after reporting "stop".
func (s *Session) AcknowledgeSpeaker(ctx context.Context) (arbiter.View, error) {
	return s.ack(ctx, arbiter.AlertSpeaker)
}

// ResetSource re-enables the API channel.
func (s *Session) ResetSource() {
	s.source.ResetAvailability()
	s.metrics.SetAPIAvailable(true)
	log.Printf("source reset (channel=api)")
}

func (s *Session) ack(ctx context.Context, alert arbiter.AlertKind) (arbiter.View, error) {
	req := ackRequest{ctx: ctx, alert: alert, reply: make(chan ackReply, 1)}

	select {
	case s.acks <- req:
	case <-ctx.Done():
		return s.View(), ctx.Err()
	case <-s.done:
		return s.View(), ErrClosed
	}

	select {
	case r := <-req.reply:
		return r.view, r.err
	case <-ctx.Done():
		return s.View(), ctx.Err()
	case <-s.done:
		return s.View(), ErrClosed
	}
}

// ------------------------------------------------------------
// Owner loop
// ------------------------------------------------------------

// Run owns the arbiter until ctx is cancelled. Poll results, acks,
// countdown ticks and the 1 Hz status clock are all handled here.
// A closed in channel is ignored.
func (s *Session) Run(ctx context.Context, in <-chan poller.PollResult) {
	defer close(s.done)
	defer s.arb.Stop()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert).
	s.publish(s.arb.View(), nil)

	for {
		select {
		case <-ctx.Done():
			return

		case res, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			s.observePoll(res)
			v, events := s.arb.Apply(res.Snapshot)
			s.publish(v, events)

		case req := <-s.acks:
			s.handleAck(req)

		case <-s.countdown.C():
			s.countdown.Advance()
			v, events := s.arb.Flush()
			s.publish(v, events)

		case <-secTicker.C:
			// Tick 1 Hz while in Alert.
			v := s.View()
			if v.Display == arbiter.DisplayAlert && s.secondsInAlert < status.MaxRegister {
				s.secondsInAlert++
			}
			s.writeStatus(v, true)
		}
	}
}

func (s *Session) handleAck(req ackRequest) {
	var (
		v      arbiter.View
		events []arbiter.Event
		err    error
	)

	switch req.alert {
	case arbiter.AlertResponse:
		v, events, err = s.arb.AcknowledgeAccident(req.ctx)
	default:
		v, events, err = s.arb.AcknowledgeSpeaker(req.ctx)
	}

	s.metrics.SetAPIAvailable(s.source.APIAvailable())

	switch {
	case err == nil:
		s.metrics.Ack(string(req.alert), "ok")
		s.publish(v, events)
	case errors.Is(err, arbiter.ErrNoActiveAlert):
		s.metrics.Ack(string(req.alert), "none")
	default:
		s.metrics.Ack(string(req.alert), "error")
		log.Printf("ack failed (alert=%s): %v", req.alert, err)
	}

	req.reply <- ackReply{view: v, err: err}
}

func (s *Session) observePoll(res poller.PollResult) {
	s.metrics.ObservePoll(res.Failures)
	s.metrics.SetAPIAvailable(s.source.APIAvailable())

	// Log per-document transitions only.
	names := make([]string, 0, len(res.Failures))
	for name := range res.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !s.failing[name] {
			s.failing[name] = true
			log.Printf("document failed, using defaults (doc=%s): %v", name, res.Failures[name])
		}
	}
	for name := range s.failing {
		if _, still := res.Failures[name]; !still {
			delete(s.failing, name)
			log.Printf("document recovered (doc=%s)", name)
		}
	}
}

func (s *Session) publish(v arbiter.View, events []arbiter.Event) {
	for _, ev := range events {
		log.Printf("alert %s (alert=%s id=%s)", ev.Type, ev.Alert, ev.ActivationID)
		switch ev.Type {
		case arbiter.EventOpened:
			s.metrics.AlertOpened(string(ev.Alert))
		case arbiter.EventExpired:
			s.metrics.CountdownExpired()
		}
	}

	if v.Display != arbiter.DisplayAlert {
		s.secondsInAlert = 0
	}

	s.view.Store(&v)

	if s.renderer != nil && (s.rendered == nil || !sameView(*s.rendered, v)) {
		s.renderer.Render(v)
		rendered := v
		s.rendered = &rendered
	}

	s.writeStatus(v, false)
}

// writeStatus writes when the block changed. A failed write is retried
// only when retry is set, which the 1 Hz clock does.
func (s *Session) writeStatus(v arbiter.View, retry bool) {
	if s.status == nil {
		return
	}

	b := status.FromView(v, s.source.APIAvailable(), s.secondsInAlert)
	if s.blockWritten && b == s.block && !(retry && s.statusDirty) {
		return
	}

	s.block = b
	s.blockWritten = true

	if err := s.status.WriteStatus(b); err != nil {
		s.statusDirty = true
		if !s.statusFailing {
			log.Printf("status write failed: %v", err)
		}
		s.statusFailing = true
		return
	}

	if s.statusFailing {
		log.Printf("status write recovered")
	}
	s.statusDirty = false
	s.statusFailing = false
}

func sameView(a, b arbiter.View) bool {
	if a.Display != b.Display ||
		a.AccidentStatus != b.AccidentStatus ||
		a.AccelMagnitude != b.AccelMagnitude ||
		a.GPSPosition != b.GPSPosition ||
		a.MonthlyScore != b.MonthlyScore {
		return false
	}
	if (a.Speaker == nil) != (b.Speaker == nil) || (a.Speaker != nil && *a.Speaker != *b.Speaker) {
		return false
	}
	if (a.Response == nil) != (b.Response == nil) || (a.Response != nil && *a.Response != *b.Response) {
		return false
	}
	return true
}
