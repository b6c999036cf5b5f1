// internal/source/files.go
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// maxDocumentBytes bounds a single state file.
const maxDocumentBytes = 1 << 20

var errTooLarge = errors.New("file exceeds size limit")

// CandidateDirs returns the data directories in search order:
// the device directory, <wd>/../data, <wd>/data, then bare "data".
func CandidateDirs(deviceDir string) []string {
	var dirs []string
	if deviceDir != "" {
		dirs = append(dirs, deviceDir)
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs,
			filepath.Join(wd, "..", "data"),
			filepath.Join(wd, "data"),
		)
	}
	return append(dirs, "data")
}

// readFile returns the first candidate that exists and holds valid JSON.
func (s *Source) readFile(ctx context.Context, name string) ([]byte, error) {
	var errs []string

	for _, dir := range s.dirs {
		path := filepath.Join(dir, name)

		b, err := readBounded(ctx, path, s.readTimeout)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if !jsoniter.Valid(b) {
			errs = append(errs, fmt.Sprintf("%s: %v", path, ErrMalformed))
			continue
		}
		return b, nil
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrNoCandidate, name, strings.Join(errs, " | "))
}

// readBounded reads path with a deadline and a size cap.
// A stalled read is abandoned once the deadline passes.
func readBounded(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		b   []byte
		err error
	}
	ch := make(chan result, 1)

	go func() {
		f, err := os.Open(path)
		if err != nil {
			ch <- result{err: err}
			return
		}
		defer f.Close()

		b, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
		if err == nil && len(b) > maxDocumentBytes {
			err = errTooLarge
		}
		ch <- result{b: b, err: err}
	}()

	select {
	case r := <-ch:
		return r.b, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// writeFile writes body into the first candidate directory that accepts it.
// Temp file + rename so the backend never reads a partial request.
func (s *Source) writeFile(name string, body []byte) error {
	var errs []string

	for _, dir := range s.dirs {
		path := filepath.Join(dir, name)

		if err := os.MkdirAll(dir, 0o755); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, body, 0o644); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		return nil
	}

	return fmt.Errorf("source: write %s failed: %s", name, strings.Join(errs, " | "))
}
