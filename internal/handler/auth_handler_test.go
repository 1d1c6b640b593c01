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

	"github.com/scholars-edge/academy-api/internal/middleware"
	"github.com/scholars-edge/academy-api/internal/models"
	"github.com/scholars-edge/academy-api/internal/service"
)

const testCookieName = "academy_session"

type userRepoStub struct {
	byName map[string]*models.User
	byMail map[string]*models.User
	byID   map[int64]*models.User
	nextID int64
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{
		byName: map[string]*models.User{},
		byMail: map[string]*models.User{},
		byID:   map[int64]*models.User{},
		nextID: 1,
	}
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	s.byName[user.Username] = user
	s.byMail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := s.byName[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byMail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type sessionStoreStub struct {
	sessions map[string]*models.Session
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: map[string]*models.Session{}}
}

func (s *sessionStoreStub) Create(ctx context.Context, session *models.Session) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *sessionStoreStub) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	if sess, ok := s.sessions[token]; ok {
		return sess, nil
	}
	return nil, sql.ErrNoRows
}

func (s *sessionStoreStub) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *sessionStoreStub) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type authTestEnv struct {
	router   *gin.Engine
	users    *userRepoStub
	sessions *sessionStoreStub
	svc      *service.AuthService
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newUserRepoStub()
	sessions := newSessionStoreStub()
	svc := service.NewAuthService(users, sessions, validator.New(), zap.NewNop(), time.Hour, nil)
	h := NewAuthHandler(svc, CookieSettings{Name: testCookieName})
	gate := middleware.RequireSession(svc, testCookieName)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", gate, h.Logout)
	r.GET("/api/auth/me", gate, h.Me)

	return &authTestEnv{router: r, users: users, sessions: sessions, svc: svc}
}

func (env *authTestEnv) do(method, path string, body interface{}, cookie string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			return c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func TestAuthRegisterEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Username: "amira",
		Email:    "amira@example.com",
		Password: "secret123",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	token := sessionCookie(t, w)
	assert.Contains(t, env.sessions.sessions, token)

	var body struct {
		Data models.UserInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "amira", body.Data.Username)
	assert.False(t, body.Data.IsAdmin)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestAuthRegisterDuplicateEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)

	payload := models.RegisterRequest{Username: "amira", Email: "amira@example.com", Password: "secret123"}
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/auth/register", payload, "").Code)

	w := env.do(http.MethodPost, "/api/auth/register", payload, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthLoginEndpoint(t *testing.T) {
	env := newAuthTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Username: "amira", Email: "amira@example.com", Password: "secret123",
	}, "").Code)

	w := env.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "amira", Password: "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	sessionCookie(t, w)

	bad := env.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "amira", Password: "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	unknown := env.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "ghost", Password: "secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, bad.Body.String(), unknown.Body.String())
}

func TestAuthMeRequiresSession(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/auth/me", nil, "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMeWithSession(t *testing.T) {
	env := newAuthTestEnv(t)
	reg := env.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Username: "amira", Email: "amira@example.com", Password: "secret123",
	}, "")
	token := sessionCookie(t, reg)

	w := env.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.UserInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "amira@example.com", body.Data.Email)
}

func TestAuthLogoutDestroysSession(t *testing.T) {
	env := newAuthTestEnv(t)
	reg := env.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Username: "amira", Email: "amira@example.com", Password: "secret123",
	}, "")
	token := sessionCookie(t, reg)

	w := env.do(http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, env.sessions.sessions, token)

	// The token is unusable afterwards.
	me := env.do(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestAuthExpiredSessionRejected(t *testing.T) {
	env := newAuthTestEnv(t)
	user := &models.User{Username: "amira", Email: "amira@example.com", PasswordHash: "hash"}
	require.NoError(t, env.users.Create(context.Background(), user))
	env.sessions.sessions["stale"] = &models.Session{Token: "stale", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}

	w := env.do(http.MethodGet, "/api/auth/me", nil, "stale")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, env.sessions.sessions, "stale")
}
