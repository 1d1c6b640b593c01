package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholars-edge/academy-api/internal/models"
	"github.com/scholars-edge/academy-api/internal/service"
)

type enrollmentRepoStub struct {
	enrollments []models.Enrollment
}

func (s *enrollmentRepoStub) Create(ctx context.Context, e *models.Enrollment) error {
	e.ID = int64(len(s.enrollments) + 1)
	e.CreatedAt = time.Now()
	s.enrollments = append(s.enrollments, *e)
	return nil
}

func (s *enrollmentRepoStub) List(ctx context.Context) ([]models.Enrollment, error) {
	return s.enrollments, nil
}

func (s *enrollmentRepoStub) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	for i := range s.enrollments {
		if s.enrollments[i].ID == id {
			return &s.enrollments[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentRouter(repo *enrollmentRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(service.NewEnrollmentService(repo, validator.New(), zap.NewNop()))
	r := gin.New()
	r.POST("/api/enrollments", h.Create)
	r.GET("/api/enrollments", h.List)
	r.GET("/api/enrollments/export", h.Export)
	r.GET("/api/enrollments/:id", h.Get)
	return r
}

func TestEnrollmentCreateEndpoint(t *testing.T) {
	repo := &enrollmentRepoStub{}
	r := newEnrollmentRouter(repo)

	payload, _ := json.Marshal(models.InsertEnrollmentRequest{
		Name:     "Rani Putri",
		Grade:    "10",
		Email:    "rani@example.com",
		Phone:    "0812000111",
		Course:   "Mathematics Intensive",
		TimeSlot: "Mon 16:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/enrollments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.Enrollment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.ID)
	assert.Equal(t, "Mon 16:00", body.Data.TimeSlot)
	assert.False(t, body.Data.CreatedAt.IsZero())
}

func TestEnrollmentCreateEndpointValidation(t *testing.T) {
	repo := &enrollmentRepoStub{}
	r := newEnrollmentRouter(repo)

	payload, _ := json.Marshal(models.InsertEnrollmentRequest{Name: "Rani"})
	req := httptest.NewRequest(http.MethodPost, "/api/enrollments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.enrollments)
}

func TestEnrollmentCreateEndpointMalformedJSON(t *testing.T) {
	r := newEnrollmentRouter(&enrollmentRepoStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/enrollments", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentListEndpointEmpty(t *testing.T) {
	r := newEnrollmentRouter(&enrollmentRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/enrollments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestEnrollmentGetEndpointInvalidID(t *testing.T) {
	r := newEnrollmentRouter(&enrollmentRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/enrollments/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentGetEndpointNotFound(t *testing.T) {
	r := newEnrollmentRouter(&enrollmentRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/enrollments/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollmentExportEndpoint(t *testing.T) {
	repo := &enrollmentRepoStub{enrollments: []models.Enrollment{{
		ID: 1, Name: "Rani", Grade: "10", Email: "rani@example.com",
		Phone: "0812", Course: "Math", TimeSlot: "Mon 16:00", CreatedAt: time.Now(),
	}}}
	r := newEnrollmentRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/enrollments/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=enrollments.csv", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Rani")

	req = httptest.NewRequest(http.MethodGet, "/api/enrollments/export?format=pdf", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=enrollments.pdf", w.Header().Get("Content-Disposition"))

	req = httptest.NewRequest(http.MethodGet, "/api/enrollments/export?format=xlsx", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
