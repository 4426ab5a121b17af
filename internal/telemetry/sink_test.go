package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileSink_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.json")
	sink := NewFileSink(path)

	s := NewStore()
	token := s.RecordRequestStart("catalog")
	s.RecordRequestEnd(token)
	s.RecordError("No course found with code 'X101'.")

	want := s.Snapshot()
	if err := sink.Flush(want); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read telemetry file: %v", err)
	}

	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to parse telemetry file: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("re-parsed document differs from snapshot:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestFileSink_OverwritesPreviousDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.json")
	sink := NewFileSink(path)

	s := NewStore()
	s.RecordError("first")
	if err := sink.Flush(s.Snapshot()); err != nil {
		t.Fatalf("first flush failed: %v", err)
	}

	s.RecordError("second")
	if err := sink.Flush(s.Snapshot()); err != nil {
		t.Fatalf("second flush failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read telemetry file: %v", err)
	}

	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to parse telemetry file: %v", err)
	}

	// The file is a full replacement, so it carries the complete current
	// state: both errors, not just the delta.
	if got.Errors["first"] != 1 || got.Errors["second"] != 1 {
		t.Errorf("expected full current state on disk, got %+v", got.Errors)
	}
}

func TestFileSink_FlushErrorPropagates(t *testing.T) {
	sink := NewFileSink(filepath.Join(t.TempDir(), "missing", "telemetry.json"))

	if err := sink.Flush(NewStore().Snapshot()); err == nil {
		t.Fatal("expected error flushing to a nonexistent directory, got nil")
	}
}

func TestFileSink_Ping(t *testing.T) {
	dir := t.TempDir()

	sink := NewFileSink(filepath.Join(dir, "telemetry.json"))
	if err := sink.Ping(t.Context()); err != nil {
		t.Errorf("expected ping to succeed, got %v", err)
	}

	sink = NewFileSink(filepath.Join(dir, "missing", "telemetry.json"))
	if err := sink.Ping(t.Context()); err == nil {
		t.Error("expected ping to fail for missing directory")
	}
}
