// internal/arbiter/view.go
package arbiter

import "github.com/tamzrod/dashboard-sync/internal/snapshot"

// DisplayState is the three-way driver status summary.
type DisplayState string

const (
	DisplayWaiting DisplayState = "Waiting"
	DisplayGood    DisplayState = "Good"
	DisplayAlert   DisplayState = "Alert"
)

// Accident status lines.
const (
	AccidentNone             = "No Accident"
	AccidentDetected         = "Accident Detected"
	AccidentResponseRequired = "Response Required"
)

// SpeakerAlert is the "stop the speaker" prompt.
type SpeakerAlert struct {
	ActivationID  string  `json:"activation_id"`
	AlarmDuration float64 `json:"alarm_duration"`

	// Suppressed is set while the response modal is active:
	// the prompt stays where it is but receives no updates.
	Suppressed bool `json:"suppressed"`
}

// ResponseModal is the accident-response countdown prompt.
type ResponseModal struct {
	ActivationID string  `json:"activation_id"`
	Message      string  `json:"message"`
	Remaining    float64 `json:"remaining"`
}

// View is the desired screen state. A renderer reconciles it against
// what is on screen; a changed ActivationID means a new prompt.
type View struct {
	Display        DisplayState `json:"display"`
	AccidentStatus string       `json:"accident_status"`

	// display-only passthrough
	AccelMagnitude float64 `json:"accel_magnitude"`
	GPSPosition    string  `json:"gps_position"`
	MonthlyScore   int     `json:"monthly_score"`

	Speaker  *SpeakerAlert  `json:"speaker,omitempty"`
	Response *ResponseModal `json:"response,omitempty"`
}

// Summarize computes the status summary of one snapshot.
func Summarize(s snapshot.Snapshot) (DisplayState, string) {
	display := DisplayWaiting
	switch {
	case s.Drowsiness == snapshot.Sleepy || s.AlarmOn:
		display = DisplayAlert
	case s.Drowsiness == snapshot.Normal:
		display = DisplayGood
	}

	accident := AccidentNone
	switch {
	case s.ResponseRequested:
		accident = AccidentResponseRequired
	case s.ImpactDetected:
		accident = AccidentDetected
	}

	return display, accident
}

// ---- events ----

// AlertKind names one of the two prompts.
type AlertKind string

const (
	AlertSpeaker  AlertKind = "speaker"
	AlertResponse AlertKind = "response"
)

// EventType is a visibility transition.
type EventType string

const (
	EventOpened       EventType = "opened"
	EventClosed       EventType = "closed"
	EventExpired      EventType = "expired"
	EventAcknowledged EventType = "acknowledged"
)

// Event reports one alert transition.
type Event struct {
	Type         EventType
	Alert        AlertKind
	ActivationID string
}
