// internal/snapshot/reader.go
package snapshot

import (
	"context"

	"github.com/tamzrod/dashboard-sync/internal/source"
)

// Fetcher is the part of source.Source the reader needs.
type Fetcher interface {
	Fetch(ctx context.Context, doc source.Document) ([]byte, error)
}

// Result is one fresh snapshot plus the documents that could not be read.
type Result struct {
	Snapshot Snapshot
	Failures map[string]error // keyed by document name; nil when all succeeded
}

// Reader builds a Snapshot from the three backend documents.
// No caching: each Read fetches everything again.
type Reader struct {
	src Fetcher
}

func NewReader(src Fetcher) *Reader {
	return &Reader{src: src}
}

type docParser struct {
	doc   source.Document
	apply func([]byte, *Snapshot)
}

var parsers = []docParser{
	{source.Drowsiness, ApplyDrowsiness},
	{source.Status, ApplyStatus},
	{source.LogSummary, ApplyLogSummary},
}

// Read fetches all documents sequentially. A failing document leaves
// its fields at their defaults and is recorded in Failures.
func (r *Reader) Read(ctx context.Context) Result {
	res := Result{Snapshot: Default()}

	for _, p := range parsers {
		body, err := r.src.Fetch(ctx, p.doc)
		if err != nil {
			if res.Failures == nil {
				res.Failures = make(map[string]error)
			}
			res.Failures[p.doc.Name] = err
			continue
		}
		p.apply(body, &res.Snapshot)
	}

	return res
}
