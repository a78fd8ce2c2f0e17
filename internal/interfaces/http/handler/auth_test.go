package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-test-secret-test-1234",
		Expiration: time.Hour,
		Issuer:     "storefront-backend",
	})
	authService := identityapp.NewAuthService(persistence.NewGormUserRepository(db), jwtService)
	h := NewAuthHandler(authService)

	authCfg := middleware.AuthConfig{JWTService: jwtService}

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/profile", middleware.RequireAuth(authCfg), h.Profile)
	r.PUT("/auth/password", middleware.RequireAuth(authCfg), h.ChangePassword)
	return r
}

func postJSON(r *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	r := newAuthTestRouter(t)

	w := postJSON(r, "/auth/register", `{"email":"shopper@example.com","password":"Sup3rSecret","name":"Test Shopper"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData[identityapp.AuthResponse](t, w)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "shopper@example.com", data.User.Email)
	assert.False(t, data.User.IsAdmin)

	// Same email again is rejected
	w = postJSON(r, "/auth/register", `{"email":"shopper@example.com","password":"An0therPass","name":"Imposter"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_ALREADY_EXISTS")

	w = postJSON(r, "/auth/login", `{"email":"shopper@example.com","password":"Sup3rSecret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decodeData[identityapp.AuthResponse](t, w)
	assert.NotEmpty(t, login.Token)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	r := newAuthTestRouter(t)

	postJSON(r, "/auth/register", `{"email":"shopper@example.com","password":"Sup3rSecret","name":"Test Shopper"}`, "")

	w := postJSON(r, "/auth/login", `{"email":"shopper@example.com","password":"WrongPass1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INVALID_CREDENTIALS")

	// Unknown accounts fail with the same error shape
	w = postJSON(r, "/auth/login", `{"email":"nobody@example.com","password":"WrongPass1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INVALID_CREDENTIALS")
}

func TestAuthHandler_Profile(t *testing.T) {
	r := newAuthTestRouter(t)

	w := postJSON(r, "/auth/register", `{"email":"shopper@example.com","password":"Sup3rSecret","name":"Test Shopper"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decodeData[identityapp.AuthResponse](t, w)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeData[identityapp.UserResponse](t, w)
	assert.Equal(t, registered.User.ID, profile.ID)
	assert.Equal(t, "Test Shopper", profile.Name)

	// No token, no profile
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	r := newAuthTestRouter(t)

	w := postJSON(r, "/auth/register", `{"email":"shopper@example.com","password":"Sup3rSecret","name":"Test Shopper"}`, "")
	registered := decodeData[identityapp.AuthResponse](t, w)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/auth/password", strings.NewReader(`{"old_password":"Sup3rSecret","new_password":"N3wPassword"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Old password no longer works, new one does
	w = postJSON(r, "/auth/login", `{"email":"shopper@example.com","password":"Sup3rSecret"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(r, "/auth/login", `{"email":"shopper@example.com","password":"N3wPassword"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
