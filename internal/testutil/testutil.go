// Package testutil provides shared helpers for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/coursecat/coursecat/internal/model"
)

// NewCourse returns a populated course fixture for the given code.
func NewCourse(code string) model.Course {
	return model.Course{
		ID:            ulid.Make().String(),
		Code:          code,
		Name:          "Course " + code,
		Instructor:    "A. Instructor",
		Semester:      "Spring 2025",
		Schedule:      "MWF 10:00",
		Classroom:     "B-204",
		Prerequisites: "None",
		Grading:       "Relative",
		Description:   "Test course " + code + ".",
		CreatedAt:     time.Now().UTC(),
	}
}

// TempCatalog returns a catalog file path inside a per-test temp dir.
func TempCatalog(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "course_catalog.json")
}

// WriteCatalog seeds a catalog file with the given courses.
func WriteCatalog(t testing.TB, path string, courses ...model.Course) {
	t.Helper()
	data, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		t.Fatalf("marshal catalog fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write catalog fixture: %v", err)
	}
}

// ReadTelemetry parses the persisted telemetry document.
func ReadTelemetry(t testing.TB, path string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read telemetry file: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse telemetry file: %v", err)
	}
	return doc
}
