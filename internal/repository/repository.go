// Package repository provides the catalog persistence layer.
// Courses live in a single JSON array on disk, rewritten in full on
// every append.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coursecat/coursecat/internal/model"
)

// Common errors for course repository operations.
var (
	ErrCourseNotFound = errors.New("course not found")
)

// Repository is a file-backed course store. The read-modify-write
// cycle on Append is serialized under a mutex so concurrent submissions
// cannot drop each other's records.
type Repository struct {
	path string
	mu   sync.Mutex
}

// New creates a Repository targeting the given file path. The file is
// created lazily on first append; a missing file reads as an empty
// catalog.
func New(path string) *Repository {
	return &Repository{path: path}
}

// List returns all courses in insertion order.
func (r *Repository) List(ctx context.Context) ([]model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// GetByCode returns the first course with the given code.
// Returns ErrCourseNotFound if no course matches.
func (r *Repository) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].Code == code {
			return &courses[i], nil
		}
	}
	return nil, ErrCourseNotFound
}

// Append adds a course to the catalog. Existing records are never
// modified or removed.
func (r *Repository) Append(ctx context.Context, course *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load()
	if err != nil {
		return err
	}
	courses = append(courses, *course)

	data, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}

// Ping checks that the catalog location is usable, for readiness
// probes.
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("catalog directory: %w", err)
	}
	return nil
}

// Path returns the catalog file path.
func (r *Repository) Path() string {
	return r.path
}

// load reads the catalog file. Must be called with r.mu held.
func (r *Repository) load() ([]model.Course, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var courses []model.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return courses, nil
}
