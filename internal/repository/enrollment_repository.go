package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholars-edge/academy-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollment submissions.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create persists a new enrollment, filling the server-assigned id and
// timestamp. The insert is a single statement: either the full record lands
// or nothing does.
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	const query = `INSERT INTO enrollments (name, grade, email, phone, course, time_slot)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, e.Name, e.Grade, e.Email, e.Phone, e.Course, e.TimeSlot).
		Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// List returns all enrollments, most recent first.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.Enrollment, error) {
	const query = `SELECT id, name, grade, email, phone, course, time_slot, created_at
        FROM enrollments ORDER BY created_at DESC, id DESC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its id.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, name, grade, email, phone, course, time_slot, created_at
        FROM enrollments WHERE id = $1 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
