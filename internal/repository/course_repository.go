package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/scholars-edge/academy-api/internal/models"
)

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create persists a new course. is_active defaults true at the store level.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (title, description, duration, batch_size, target_grade)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, is_active, created_at`
	if err := r.db.QueryRowxContext(ctx, query, course.Title, course.Description, course.Duration, course.BatchSize, course.TargetGrade).
		Scan(&course.ID, &course.IsActive, &course.CreatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// List returns courses, most recent first. With activeOnly set only courses
// visible on the public listing are returned.
func (r *CourseRepository) List(ctx context.Context, activeOnly bool) ([]models.Course, error) {
	query := `SELECT id, title, description, duration, batch_size, target_grade, is_active, created_at FROM courses`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by its id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, title, description, duration, batch_size, target_grade, is_active, created_at
        FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Update applies the supplied fields only and returns the updated row.
// sql.ErrNoRows signals a missing course.
func (r *CourseRepository) Update(ctx context.Context, id int64, req models.UpdateCourseRequest) (*models.Course, error) {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Duration != nil {
		add("duration", *req.Duration)
	}
	if req.BatchSize != nil {
		add("batch_size", *req.BatchSize)
	}
	if req.TargetGrade != nil {
		add("target_grade", *req.TargetGrade)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE courses SET %s WHERE id = $%d
        RETURNING id, title, description, duration, batch_size, target_grade, is_active, created_at`,
		strings.Join(sets, ", "), len(args))

	var course models.Course
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&course); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return &course, nil
}
