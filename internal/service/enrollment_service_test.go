package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholars-edge/academy-api/internal/models"
	appErrors "github.com/scholars-edge/academy-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments []models.Enrollment
	listErr     error
	createCalls int
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, e *models.Enrollment) error {
	m.createCalls++
	e.ID = int64(len(m.enrollments) + 1)
	e.CreatedAt = time.Now()
	m.enrollments = append(m.enrollments, *e)
	return nil
}

func (m *mockEnrollmentRepo) List(ctx context.Context) ([]models.Enrollment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.enrollments, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	for i := range m.enrollments {
		if m.enrollments[i].ID == id {
			return &m.enrollments[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func validEnrollmentRequest() models.InsertEnrollmentRequest {
	return models.InsertEnrollmentRequest{
		Name:     "Rani Putri",
		Grade:    "10",
		Email:    "rani@example.com",
		Phone:    "0812000111",
		Course:   "Mathematics Intensive",
		TimeSlot: "Mon 16:00",
	}
}

func TestEnrollmentCreateSuccess(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, validator.New(), zap.NewNop())

	enrollment, err := svc.Create(context.Background(), validEnrollmentRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), enrollment.ID)
	assert.Equal(t, "Rani Putri", enrollment.Name)
	assert.Equal(t, 1, repo.createCalls)
}

func TestEnrollmentCreateTrimsInput(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, validator.New(), zap.NewNop())

	req := validEnrollmentRequest()
	req.Name = "  Rani Putri  "
	req.TimeSlot = " Mon 16:00 "
	enrollment, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Rani Putri", enrollment.Name)
	assert.Equal(t, "Mon 16:00", enrollment.TimeSlot)
}

func TestEnrollmentCreateInvalidSkipsStore(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, validator.New(), zap.NewNop())

	req := validEnrollmentRequest()
	req.Email = "not-an-email"
	req.Grade = "   "
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "grade")
	assert.Zero(t, repo.createCalls)
}

func TestEnrollmentListEmpty(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, validator.New(), zap.NewNop())

	enrollments, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, enrollments)
	assert.Empty(t, enrollments)
}

func TestEnrollmentGetNotFound(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentExportCSV(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, validator.New(), zap.NewNop())
	_, err := svc.Create(context.Background(), validEnrollmentRequest())
	require.NoError(t, err)

	payload, contentType, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	content := string(payload)
	assert.True(t, strings.HasPrefix(content, "ID,Name,Grade,Email,Phone,Course,Time Slot,Submitted"))
	assert.Contains(t, content, "Rani Putri")
}

func TestEnrollmentExportDefaultsToCSV(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, validator.New(), zap.NewNop())

	_, contentType, err := svc.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
}

func TestEnrollmentExportPDF(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, validator.New(), zap.NewNop())
	_, err := svc.Create(context.Background(), validEnrollmentRequest())
	require.NoError(t, err)

	payload, contentType, err := svc.Export(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestEnrollmentExportUnknownFormat(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, validator.New(), zap.NewNop())

	_, _, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "format")
}
