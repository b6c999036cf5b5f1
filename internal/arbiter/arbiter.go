// internal/arbiter/arbiter.go
package arbiter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tamzrod/dashboard-sync/internal/snapshot"
)

// ErrNoActiveAlert is returned when acknowledging an alert that is not shown.
var ErrNoActiveAlert = errors.New("arbiter: alert not shown")

// Countdown is the timer driving the response modal.
// Callbacks must run in the goroutine that owns the Arbiter.
type Countdown interface {
	Start(initialSeconds float64, onTick func(remaining float64), onExpire func())
	Stop()
}

// Reporter delivers operator acknowledgements to the backend.
type Reporter interface {
	AcknowledgeAccident(ctx context.Context) error
	AcknowledgeSpeaker(ctx context.Context) error
}

// Arbiter owns alert visibility. Not safe for concurrent use:
// one goroutine applies snapshots, acks and countdown ticks.
//
// Each prompt is shown at most once per activation. An activation ends
// on the falling edge of its trigger (alarm_on for the speaker,
// response_requested for the modal). Acknowledgement or expiry hides a
// prompt but keeps its activation consumed until that edge.
type Arbiter struct {
	countdown Countdown
	reporter  Reporter
	newID     func() string

	// speaker alert
	speakerShown    bool
	speakerConsumed bool
	speakerID       string
	speakerDuration float64

	// response modal
	responseShown     bool
	responseConsumed  bool
	responseID        string
	responseMessage   string
	responseRemaining float64

	summary View
	pending []Event // produced by countdown callbacks, drained by Flush
}

// New creates an arbiter with nothing shown.
func New(countdown Countdown, reporter Reporter) *Arbiter {
	return &Arbiter{
		countdown: countdown,
		reporter:  reporter,
		newID:     uuid.NewString,
		summary:   View{Display: DisplayWaiting, AccidentStatus: AccidentNone, AccelMagnitude: snapshot.DefaultAccelMagnitude},
	}
}

// Apply evaluates one snapshot and returns the desired view plus the
// transitions it caused. At most one prompt opens per call.
func (a *Arbiter) Apply(s snapshot.Snapshot) (View, []Event) {
	events := a.takePending()

	// Falling edge of the alarm ends the speaker activation in either branch.
	if !s.AlarmOn {
		if a.speakerShown {
			events = append(events, Event{Type: EventClosed, Alert: AlertSpeaker, ActivationID: a.speakerID})
		}
		a.speakerShown = false
		a.speakerConsumed = false
		a.speakerID = ""
	}

	if s.ResponseRequested {
		// 1. accident response, highest priority
		changed := s.ResponseMessage != a.responseMessage
		if changed || (!a.responseShown && !a.responseConsumed) {
			if a.responseShown {
				events = append(events, Event{Type: EventClosed, Alert: AlertResponse, ActivationID: a.responseID})
			}
			a.openResponse(s.ResponseMessage, s.ResponseRemaining)
			events = append(events, Event{Type: EventOpened, Alert: AlertResponse, ActivationID: a.responseID})
		}
	} else {
		// 2. speaker alert
		if a.responseShown {
			a.countdown.Stop()
			events = append(events, Event{Type: EventClosed, Alert: AlertResponse, ActivationID: a.responseID})
			a.responseShown = false
		}
		a.responseConsumed = false
		a.responseID = ""
		a.responseMessage = ""
		a.responseRemaining = 0

		if s.ShowSpeakerPopup && s.AlarmOn && !a.responseShown && !a.speakerShown && !a.speakerConsumed {
			a.speakerShown = true
			a.speakerID = a.newID()
			events = append(events, Event{Type: EventOpened, Alert: AlertSpeaker, ActivationID: a.speakerID})
		}
	}

	// A suppressed speaker alert keeps its last duration.
	if a.speakerShown && !a.responseShown {
		a.speakerDuration = s.AlarmDuration
	}

	// 3. status summary, always
	display, accident := Summarize(s)
	a.summary = View{
		Display:        display,
		AccidentStatus: accident,
		AccelMagnitude: s.AccelMagnitude,
		GPSPosition:    s.GPSPosition,
		MonthlyScore:   s.MonthlyScore,
	}

	return a.View(), events
}

// Flush returns the current view and any transitions raised by the
// countdown since the last call.
func (a *Arbiter) Flush() (View, []Event) {
	return a.View(), a.takePending()
}

// AcknowledgeAccident reports "I'm okay" and hides the response modal.
// On reporter failure nothing changes so the operator can retry.
func (a *Arbiter) AcknowledgeAccident(ctx context.Context) (View, []Event, error) {
	if !a.responseShown {
		return a.View(), nil, ErrNoActiveAlert
	}
	if err := a.reporter.AcknowledgeAccident(ctx); err != nil {
		return a.View(), nil, fmt.Errorf("arbiter: acknowledge accident: %w", err)
	}

	a.countdown.Stop()
	a.responseShown = false
	a.responseConsumed = true

	return a.View(), []Event{{Type: EventAcknowledged, Alert: AlertResponse, ActivationID: a.responseID}}, nil
}

// AcknowledgeSpeaker reports "stop the speaker" and hides the speaker alert.
// On reporter failure nothing changes so the operator can retry.
func (a *Arbiter) AcknowledgeSpeaker(ctx context.Context) (View, []Event, error) {
	if !a.speakerShown {
		return a.View(), nil, ErrNoActiveAlert
	}
	if err := a.reporter.AcknowledgeSpeaker(ctx); err != nil {
		return a.View(), nil, fmt.Errorf("arbiter: acknowledge speaker: %w", err)
	}

	a.speakerShown = false
	a.speakerConsumed = true

	return a.View(), []Event{{Type: EventAcknowledged, Alert: AlertSpeaker, ActivationID: a.speakerID}}, nil
}

// SpeakerShown reports whether the speaker alert is displayed.
func (a *Arbiter) SpeakerShown() bool { return a.speakerShown }

// ResponseShown reports whether the response modal is displayed.
func (a *Arbiter) ResponseShown() bool { return a.responseShown }

// Stop cancels the countdown. Used when the owning session ends.
func (a *Arbiter) Stop() {
	a.countdown.Stop()
}

// View returns the desired screen state.
func (a *Arbiter) View() View {
	v := a.summary

	if a.speakerShown {
		v.Speaker = &SpeakerAlert{
			ActivationID:  a.speakerID,
			AlarmDuration: a.speakerDuration,
			Suppressed:    a.responseShown,
		}
	}
	if a.responseShown {
		v.Response = &ResponseModal{
			ActivationID: a.responseID,
			Message:      a.responseMessage,
			Remaining:    a.responseRemaining,
		}
	}
	return v
}

func (a *Arbiter) openResponse(message string, remaining float64) {
	id := a.newID()

	a.responseShown = true
	a.responseConsumed = false
	a.responseID = id
	a.responseMessage = message
	a.responseRemaining = remaining

	// Callbacks compare ids so a superseded activation cannot touch state.
	a.countdown.Start(remaining,
		func(r float64) {
			if a.responseID == id {
				a.responseRemaining = r
			}
		},
		func() {
			if a.responseID != id || !a.responseShown {
				return
			}
			a.responseShown = false
			a.responseConsumed = true
			a.pending = append(a.pending, Event{Type: EventExpired, Alert: AlertResponse, ActivationID: id})
		},
	)
}

func (a *Arbiter) takePending() []Event {
	if len(a.pending) == 0 {
		return nil
	}
	out := a.pending
	a.pending = nil
	return out
}
