// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/dashboard-sync/internal/config"
	"github.com/tamzrod/dashboard-sync/internal/snapshot"
	"github.com/tamzrod/dashboard-sync/internal/source"
)

// Build constructs the source and a Poller reading through it.
// The source is returned so acknowledgements share its channel.
// Config must be validated and normalized.
func Build(d cfg.DashboardConfig, onFallback func(source.Document, error)) (*Poller, *source.Source, error) {
	apiTimeout := time.Duration(d.API.TimeoutMs) * time.Millisecond
	readTimeout := time.Duration(d.Files.ReadTimeoutMs) * time.Millisecond

	src, err := source.New(source.Config{
		BaseURL:     d.API.BaseURL,
		Timeout:     apiTimeout,
		Dirs:        source.CandidateDirs(d.Files.DeviceDir),
		ReadTimeout: readTimeout,
		OnFallback:  onFallback,
	})
	if err != nil {
		return nil, nil, err
	}

	// Worst case per cycle: one API timeout (then file mode) plus a bounded
	// read per document and candidate.
	timeout := apiTimeout + time.Duration(len(src.Dirs())*3)*readTimeout

	p, err := New(
		Config{
			Interval: time.Duration(d.Poll.IntervalMs) * time.Millisecond,
			Timeout:  timeout,
		},
		snapshot.NewReader(src),
	)
	if err != nil {
		return nil, nil, err
	}

	return p, src, nil
}
