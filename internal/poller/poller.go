// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/dashboard-sync/internal/snapshot"
)

// Reader abstracts the snapshot read the poller drives.
type Reader interface {
	Read(ctx context.Context) snapshot.Result
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration // bound for one cycle
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg    Config
	reader Reader
	seq    uint64
}

// New creates a poller with immutable config.
func New(cfg Config, reader Reader) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("poller: timeout must be > 0")
	}
	if reader == nil {
		return nil, errors.New("poller: reader required")
	}
	return &Poller{cfg: cfg, reader: reader}, nil
}

// Interval returns the poll period.
func (p *Poller) Interval() time.Duration {
	return p.cfg.Interval
}

// PollOnce performs exactly one poll cycle.
// Partial failures are carried in the result, never returned.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	at := time.Now()
	r := p.reader.Read(ctx)

	p.seq++
	return PollResult{
		Seq:      p.seq,
		At:       at,
		Snapshot: r.Snapshot,
		Failures: r.Failures,
	}
}
