// internal/status/snapshot.go
package status

import (
	"math"

	"github.com/tamzrod/dashboard-sync/internal/arbiter"
)

// Block represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Block struct {
	Display        uint16
	Accident       uint16
	Flags          uint16
	SecondsInAlert uint16
	Remaining      uint16
	Score          uint16
}

// FromView derives the live slots from a view.
// secondsInAlert is owned by the caller's 1 Hz clock.
func FromView(v arbiter.View, apiAvailable bool, secondsInAlert uint16) Block {
	var b Block

	switch v.Display {
	case arbiter.DisplayGood:
		b.Display = DisplayGood
	case arbiter.DisplayAlert:
		b.Display = DisplayAlert
	default:
		b.Display = DisplayWaiting
	}

	switch v.AccidentStatus {
	case arbiter.AccidentDetected:
		b.Accident = AccidentDetected
	case arbiter.AccidentResponseRequired:
		b.Accident = AccidentResponseRequired
	default:
		b.Accident = AccidentNone
	}

	if v.Speaker != nil {
		b.Flags |= FlagSpeakerShown
	}
	if v.Response != nil {
		b.Flags |= FlagResponseShown
		b.Remaining = clamp(math.Ceil(v.Response.Remaining))
	}
	if apiAvailable {
		b.Flags |= FlagAPIChannel
	}

	b.SecondsInAlert = secondsInAlert
	b.Score = clamp(float64(v.MonthlyScore))
	return b
}

func clamp(f float64) uint16 {
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= MaxRegister:
		return MaxRegister
	}
	return uint16(f)
}
