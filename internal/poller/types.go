// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/dashboard-sync/internal/snapshot"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	// Seq increases by one per cycle; results are delivered in Seq order.
	Seq uint64
	At  time.Time

	Snapshot snapshot.Snapshot

	// Failures lists documents that fell back to defaults this cycle.
	// The cycle itself never fails.
	Failures map[string]error
}

// OK reports whether every document was read.
func (r PollResult) OK() bool {
	return len(r.Failures) == 0
}
