package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
	"foodgram/internal/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	tokens := jwt.New("handler-test-secret", time.Hour)
	svc := NewService(repository.NewUserRepository(db), repository.NewFollowRepository(db), tokens, nil)
	svc.cost = bcrypt.MinCost
	h := NewHandler(svc, 6)

	authn := middleware.NewAuthenticator(tokens, nil)
	r := gin.New()
	public := r.Group("/api", authn.Optional())
	h.RegisterPublicRoutes(public)
	protected := r.Group("/api", authn.Required())
	h.RegisterProtectedRoutes(protected)
	return r
}

func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccountFlow(t *testing.T) {
	r := setupRouter(t)

	w := performRequest(r, http.MethodPost, "/api/users", map[string]any{
		"email": "Chef@Example.com", "username": "chef", "first_name": "Gordon", "last_name": "R", "password": "kitchen-pass",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"email":"chef@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = performRequest(r, http.MethodPost, "/api/auth/token/login", map[string]any{
		"email": "chef@example.com", "password": "wrong-pass",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")

	w = performRequest(r, http.MethodPost, "/api/auth/token/login", map[string]any{
		"email": "chef@example.com", "password": "kitchen-pass",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Data TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AuthToken)

	w = performRequest(r, http.MethodGet, "/api/users/me", nil, login.Data.AuthToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"chef"`)
	assert.Contains(t, w.Body.String(), `"is_subscribed":false`)

	w = performRequest(r, http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, http.MethodPost, "/api/users/set_password", map[string]any{
		"current_password": "kitchen-pass", "new_password": "better-pass",
	}, login.Data.AuthToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodPost, "/api/auth/token/logout", nil, login.Data.AuthToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = performRequest(r, http.MethodGet, "/api/users/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegister_ValidationDetails(t *testing.T) {
	r := setupRouter(t)

	w := performRequest(r, http.MethodPost, "/api/users", map[string]any{
		"email": "not-an-email", "username": "bad name!", "first_name": "", "last_name": "x", "password": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, field := range []string{"email", "username", "first_name", "password"} {
		assert.Contains(t, body.Error.Details, field)
	}
}
