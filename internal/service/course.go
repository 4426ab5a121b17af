// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/coursecat/coursecat/internal/model"
	"github.com/coursecat/coursecat/internal/repository"
)

// Service errors.
var (
	ErrCourseNotFound = errors.New("course not found")
)

// ValidationError reports the required form fields that were missing
// from a submission.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// CourseService handles course catalog business logic.
type CourseService struct {
	repo *repository.Repository
}

// NewCourseService creates a new CourseService.
func NewCourseService(repo *repository.Repository) *CourseService {
	return &CourseService{repo: repo}
}

// Create validates the input, assigns an ID and timestamp, and appends
// the course to the catalog. Returns a *ValidationError when required
// fields are missing.
func (s *CourseService) Create(ctx context.Context, input model.CourseInput) (*model.Course, error) {
	if result := input.Validate(); !result.Valid() {
		return nil, &ValidationError{Missing: result.Missing}
	}

	course := &model.Course{
		ID:            ulid.Make().String(),
		Code:          input.Code,
		Name:          input.Name,
		Instructor:    input.Instructor,
		Semester:      input.Semester,
		Schedule:      input.Schedule,
		Classroom:     input.Classroom,
		Prerequisites: input.Prerequisites,
		Grading:       input.Grading,
		Description:   input.Description,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Append(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	return course, nil
}

// List returns all courses in the catalog.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return courses, nil
}

// GetByCode returns the course with the given code.
// Returns ErrCourseNotFound if no course matches.
func (s *CourseService) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	course, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}
