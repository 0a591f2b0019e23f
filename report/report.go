// Package report archives run reports to a storage backend.
//
// A report is a small JSON artifact summarizing one check run; backends
// only need to put named blobs. Keys are partitioned by day and run id so
// report stores accumulate cleanly across runs.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ContentTypeJSON is the content type for report artifacts.
const ContentTypeJSON = "application/json"

// Writer stores a named report artifact.
type Writer interface {
	// Put writes a report artifact. The filename must be a bare name,
	// no path separators or "..".
	Put(ctx context.Context, filename, contentType string, data []byte) error
}

// DeriveDay computes the day partition from run start time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(startTime time.Time) string {
	return startTime.UTC().Format("2006-01-02")
}

// validateFilename rejects names that would escape the report prefix.
func validateFilename(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || filename == ".." {
		return fmt.Errorf("invalid report filename %q", filename)
	}
	return nil
}

// DirWriter writes reports under a local directory, partitioned as
// <dir>/<day>/<run_id>/<filename>.
type DirWriter struct {
	dir   string
	day   string
	runID string
}

// NewDirWriter creates a directory-backed report writer.
func NewDirWriter(dir, day, runID string) *DirWriter {
	return &DirWriter{dir: dir, day: day, runID: runID}
}

// Put implements Writer.
func (w *DirWriter) Put(_ context.Context, filename, _ string, data []byte) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	dir := filepath.Join(w.dir, w.day, w.runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Stub records Put calls for testing.
type Stub struct {
	mu    sync.Mutex
	Files []StubRecord
}

// StubRecord is a recorded report write for testing.
type StubRecord struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewStub creates a new stub writer.
func NewStub() *Stub {
	return &Stub{}
}

// Put implements Writer by recording the call.
func (s *Stub) Put(_ context.Context, filename, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files = append(s.Files, StubRecord{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	})
	return nil
}

// Verify backends implement Writer.
var (
	_ Writer = (*DirWriter)(nil)
	_ Writer = (*Stub)(nil)
)
