// internal/session/render.go
package session

import (
	"fmt"
	"log"

	"github.com/tamzrod/dashboard-sync/internal/arbiter"
)

// Renderer reconciles the screen against a desired view.
// Called from the session goroutine whenever the view changes.
type Renderer interface {
	Render(v arbiter.View)
}

// LogRenderer prints a line when the visible state changes.
// Countdown progress alone is not printed.
type LogRenderer struct {
	logf func(format string, args ...any)
	last string
}

// NewLogRenderer renders through the standard logger.
func NewLogRenderer() *LogRenderer {
	return &LogRenderer{logf: log.Printf}
}

func (r *LogRenderer) Render(v arbiter.View) {
	line := describe(v)
	if line == r.last {
		return
	}
	r.last = line
	r.logf("view: %s", line)
}

func describe(v arbiter.View) string {
	line := fmt.Sprintf("display=%s accident=%q score=%d", v.Display, v.AccidentStatus, v.MonthlyScore)
	if v.Speaker != nil {
		line += fmt.Sprintf(" speaker=%s", v.Speaker.ActivationID)
		if v.Speaker.Suppressed {
			line += "(suppressed)"
		}
	}
	if v.Response != nil {
		line += fmt.Sprintf(" response=%s message=%q", v.Response.ActivationID, v.Response.Message)
	}
	return line
}
