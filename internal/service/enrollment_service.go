package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholars-edge/academy-api/internal/models"
	appErrors "github.com/scholars-edge/academy-api/pkg/errors"
	"github.com/scholars-edge/academy-api/pkg/export"
)

type enrollmentRepository interface {
	Create(ctx context.Context, e *models.Enrollment) error
	List(ctx context.Context) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
}

// EnrollmentService handles the public enrollment pipeline and the admin
// views over submitted enrollments.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, validator: validate, logger: logger}
}

// Create validates and persists a submission. Nothing is written when
// validation fails.
func (s *EnrollmentService) Create(ctx context.Context, req models.InsertEnrollmentRequest) (*models.Enrollment, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}

	enrollment := &models.Enrollment{
		Name:     req.Name,
		Grade:    req.Grade,
		Email:    req.Email,
		Phone:    req.Phone,
		Course:   req.Course,
		TimeSlot: req.TimeSlot,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
	}
	return enrollment, nil
}

// List returns all enrollments, newest first.
func (s *EnrollmentService) List(ctx context.Context) ([]models.Enrollment, error) {
	enrollments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	return enrollments, nil
}

// Get returns a single enrollment or a not-found error.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
	}
	return enrollment, nil
}

// Export renders the full enrollment list as CSV or PDF for download.
func (s *EnrollmentService) Export(ctx context.Context, format string) ([]byte, string, error) {
	enrollments, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Columns: []string{"ID", "Name", "Grade", "Email", "Phone", "Course", "Time Slot", "Submitted"},
	}
	for _, e := range enrollments {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Name,
			e.Grade,
			e.Email,
			e.Phone,
			e.Course,
			e.TimeSlot,
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	switch format {
	case "csv", "":
		payload, err := export.CSV(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.PDF(data, "Enrollments")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Validation("unsupported export format", map[string]string{
			"format": fmt.Sprintf("%q is not one of csv, pdf", format),
		})
	}
}
