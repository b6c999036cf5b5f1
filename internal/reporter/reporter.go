// internal/reporter/reporter.go
package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/tamzrod/dashboard-sync/internal/source"
)

// TimestampLayout is the local datetime format the backend expects.
const TimestampLayout = "2006-01-02 15:04:05"

// Poster is the part of source.Source the reporter needs.
type Poster interface {
	Post(ctx context.Context, doc source.Document, payload any) error
}

// StopSpeakerRequest asks the backend to silence the speaker.
type StopSpeakerRequest struct {
	Stop      bool   `json:"stop"`
	Timestamp string `json:"timestamp"`
}

// UserResponseRequest tells the backend the driver responded.
type UserResponseRequest struct {
	Responded bool   `json:"responded"`
	Timestamp string `json:"timestamp"`
}

// Reporter sends operator acknowledgements through the source's
// current channel. Side effects only; it keeps no alert state.
type Reporter struct {
	out Poster
	now func() time.Time
}

func New(out Poster) *Reporter {
	return &Reporter{out: out, now: time.Now}
}

// AcknowledgeAccident reports "I'm okay".
func (r *Reporter) AcknowledgeAccident(ctx context.Context) error {
	req := UserResponseRequest{
		Responded: true,
		Timestamp: r.now().Format(TimestampLayout),
	}
	if err := r.out.Post(ctx, source.UserResponse, req); err != nil {
		return fmt.Errorf("reporter: user response: %w", err)
	}
	return nil
}

// AcknowledgeSpeaker reports "stop the speaker".
func (r *Reporter) AcknowledgeSpeaker(ctx context.Context) error {
	req := StopSpeakerRequest{
		Stop:      true,
		Timestamp: r.now().Format(TimestampLayout),
	}
	if err := r.out.Post(ctx, source.StopSpeaker, req); err != nil {
		return fmt.Errorf("reporter: stop speaker: %w", err)
	}
	return nil
}
