package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink writes snapshots to a JSON file on disk. Every flush
// replaces the previous file contents in full; the document is never
// appended to or merged with prior state.
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink creates a FileSink targeting the given path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Flush serializes the snapshot and overwrites the target file.
// The write goes through a temp file and rename so a crash mid-flush
// cannot leave a truncated document behind. I/O failures are returned
// to the caller; silent telemetry loss would defeat its purpose.
func (s *FileSink) Flush(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write telemetry file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace telemetry file: %w", err)
	}
	return nil
}

// Path returns the target file path.
func (s *FileSink) Path() string {
	return s.path
}

// Ping checks that the target directory exists, for readiness probes.
func (s *FileSink) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("telemetry directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("telemetry path %s: parent is not a directory", s.path)
	}
	return nil
}
