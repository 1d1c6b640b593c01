package models

import (
	"strings"
	"time"
)

// Course is an offered course. isActive toggles public visibility; courses
// are never hard-deleted.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Duration    string    `db:"duration" json:"duration"`
	BatchSize   string    `db:"batch_size" json:"batchSize"`
	TargetGrade string    `db:"target_grade" json:"targetGrade"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// InsertCourseRequest is the insert shape for course creation. isActive is
// server-assigned (true) on create and only changeable via update.
type InsertCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Duration    string `json:"duration" validate:"required"`
	BatchSize   string `json:"batchSize" validate:"required"`
	TargetGrade string `json:"targetGrade" validate:"required"`
}

// Normalize trims all string fields.
func (r *InsertCourseRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Duration = strings.TrimSpace(r.Duration)
	r.BatchSize = strings.TrimSpace(r.BatchSize)
	r.TargetGrade = strings.TrimSpace(r.TargetGrade)
}

// UpdateCourseRequest carries partial update semantics: only non-nil fields
// change.
type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Duration    *string `json:"duration" validate:"omitempty,min=1"`
	BatchSize   *string `json:"batchSize" validate:"omitempty,min=1"`
	TargetGrade *string `json:"targetGrade" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"isActive"`
}

// Normalize trims supplied string fields.
func (r *UpdateCourseRequest) Normalize() {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*s)
		return &trimmed
	}
	r.Title = trim(r.Title)
	r.Description = trim(r.Description)
	r.Duration = trim(r.Duration)
	r.BatchSize = trim(r.BatchSize)
	r.TargetGrade = trim(r.TargetGrade)
}

// Empty reports whether the update supplies no fields at all.
func (r *UpdateCourseRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Duration == nil &&
		r.BatchSize == nil && r.TargetGrade == nil && r.IsActive == nil
}
