// Package model defines domain entities for the application.
package model

import "time"

// Course represents one catalog entry.
type Course struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Instructor    string    `json:"instructor"`
	Semester      string    `json:"semester"`
	Schedule      string    `json:"schedule"`
	Classroom     string    `json:"classroom"`
	Prerequisites string    `json:"prerequisites"`
	Grading       string    `json:"grading"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

// CourseInput carries the submitted form fields for a new course.
// All fields are required.
type CourseInput struct {
	Code          string
	Name          string
	Instructor    string
	Semester      string
	Schedule      string
	Classroom     string
	Prerequisites string
	Grading       string
	Description   string
}

// ValidationResult reports which required fields were missing.
type ValidationResult struct {
	Missing []string
}

// Valid returns true if no required field was missing.
func (v ValidationResult) Valid() bool {
	return len(v.Missing) == 0
}

// Validate checks that every required field is non-empty and returns
// the list of missing field names in form order.
func (in CourseInput) Validate() ValidationResult {
	fields := []struct {
		name  string
		value string
	}{
		{"code", in.Code},
		{"name", in.Name},
		{"instructor", in.Instructor},
		{"semester", in.Semester},
		{"schedule", in.Schedule},
		{"classroom", in.Classroom},
		{"prerequisites", in.Prerequisites},
		{"grading", in.Grading},
		{"description", in.Description},
	}

	var result ValidationResult
	for _, f := range fields {
		if f.value == "" {
			result.Missing = append(result.Missing, f.name)
		}
	}
	return result
}
