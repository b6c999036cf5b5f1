// internal/snapshot/types.go
package snapshot

// DrowsinessState is the backend's driver state.
type DrowsinessState uint8

const (
	Unknown DrowsinessState = iota
	Normal
	Sleepy
)

func (s DrowsinessState) String() string {
	switch s {
	case Normal:
		return "normal"
	case Sleepy:
		return "sleepy"
	default:
		return "unknown"
	}
}

// MarshalText renders the state as its backend string.
func (s DrowsinessState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseState maps a backend state string. Anything unrecognized
// (e.g. "no_face") is Unknown.
func ParseState(s string) DrowsinessState {
	switch s {
	case "normal":
		return Normal
	case "sleepy":
		return Sleepy
	default:
		return Unknown
	}
}

// DailyScore is one entry of the log summary's daily_scores list.
type DailyScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Day   int    `json:"day"`
}

// Snapshot is one poll cycle's view of backend state.
// Immutable once built; absent fields hold the defaults of Default().
type Snapshot struct {
	// drowsiness document
	Drowsiness       DrowsinessState `json:"drowsiness"`
	AlarmOn          bool            `json:"alarm_on"`
	AlarmDuration    float64         `json:"alarm_duration"`
	ShowSpeakerPopup bool            `json:"show_speaker_popup"`
	EAR              float64         `json:"ear"`
	Threshold        float64         `json:"threshold"`
	Timestamp        string          `json:"timestamp"`

	// status document
	AccelMagnitude    float64 `json:"accel_magnitude"`
	ImpactDetected    bool    `json:"impact_detected"`
	ResponseRequested bool    `json:"response_requested"`
	ResponseMessage   string  `json:"response_message"`
	ResponseRemaining float64 `json:"response_remaining_time"`
	GPSPosition       string  `json:"gps_position_string"`
	SensorStatus      string  `json:"sensor_status"`

	// log summary document (display only)
	MonthlyScore int            `json:"monthly_score"`
	EventCounts  map[string]int `json:"event_counts,omitempty"`
	DailyScores  []DailyScore   `json:"daily_scores,omitempty"`
}

// DefaultAccelMagnitude is 1 g: a vehicle at rest.
const DefaultAccelMagnitude = 1.0

// Default returns the backend-neutral snapshot.
func Default() Snapshot {
	return Snapshot{
		Drowsiness:     Unknown,
		AccelMagnitude: DefaultAccelMagnitude,
	}
}
