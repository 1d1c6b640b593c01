package models

import (
	"strings"
	"time"
)

// Enrollment captures a submitted enrollment form. Records are append-only:
// they are never updated or deleted once persisted.
type Enrollment struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Grade     string    `db:"grade" json:"grade"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Course    string    `db:"course" json:"course"`
	TimeSlot  string    `db:"time_slot" json:"timeSlot"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// InsertEnrollmentRequest is the insert shape accepted from the public form.
type InsertEnrollmentRequest struct {
	Name     string `json:"name" validate:"required"`
	Grade    string `json:"grade" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Course   string `json:"course" validate:"required"`
	TimeSlot string `json:"timeSlot" validate:"required"`
}

// Normalize trims all string fields so empty-after-trim input fails the
// required rule.
func (r *InsertEnrollmentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Grade = strings.TrimSpace(r.Grade)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Course = strings.TrimSpace(r.Course)
	r.TimeSlot = strings.TrimSpace(r.TimeSlot)
}
