package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholars-edge/academy-api/internal/models"
)

var courseColumns = []string{"id", "title", "description", "duration", "batch_size", "target_grade", "is_active", "created_at"}

func TestCourseCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "is_active", "created_at"}).AddRow(int64(3), true, now)
	mock.ExpectQuery("INSERT INTO courses").
		WithArgs("Math Intensive", "Problem solving drills", "3 months", "12", "10-12").
		WillReturnRows(rows)

	course := &models.Course{
		Title:       "Math Intensive",
		Description: "Problem solving drills",
		Duration:    "3 months",
		BatchSize:   "12",
		TargetGrade: "10-12",
	}
	err := repo.Create(context.Background(), course)
	require.NoError(t, err)
	assert.Equal(t, int64(3), course.ID)
	assert.True(t, course.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseListActiveOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(courseColumns).
		AddRow(int64(1), "Math", "desc", "3 months", "12", "10", true, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE")).
		WillReturnRows(rows)

	courses, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.True(t, courses[0].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdatePartial(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(courseColumns).
		AddRow(int64(1), "New Title", "desc", "3 months", "12", "10", false, now)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE courses SET title = $1, is_active = $2 WHERE id = $3")).
		WithArgs("New Title", false, int64(1)).
		WillReturnRows(rows)

	title := "New Title"
	inactive := false
	course, err := repo.Update(context.Background(), 1, models.UpdateCourseRequest{Title: &title, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "New Title", course.Title)
	assert.False(t, course.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateEmptyFallsBackToFind(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(courseColumns).
		AddRow(int64(1), "Math", "desc", "3 months", "12", "10", true, now)
	mock.ExpectQuery("SELECT (.+) FROM courses WHERE id = ").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	course, err := repo.Update(context.Background(), 1, models.UpdateCourseRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Math", course.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE courses SET title = $1 WHERE id = $2")).
		WithArgs("New Title", int64(77)).
		WillReturnError(sql.ErrNoRows)

	title := "New Title"
	_, err := repo.Update(context.Background(), 77, models.UpdateCourseRequest{Title: &title})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
