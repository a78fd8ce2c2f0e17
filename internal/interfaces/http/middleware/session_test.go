package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/infrastructure/config"
)

var sessionIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName: "store_session",
		CookiePath: "/",
		SameSite:   "lax",
		CartTTL:    720 * time.Hour,
	}
}

func sessionTestRouter(cfg config.SessionConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(cfg))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": GetSessionID(c)})
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, cookie := range res.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestSession_MintsNewID(t *testing.T) {
	cfg := sessionTestConfig()
	r := sessionTestRouter(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	headerID := w.Header().Get(SessionHeaderKey)
	assert.Regexp(t, sessionIDPattern, headerID)

	cookie := sessionCookie(t, w, cfg.CookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, headerID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int(cfg.CartTTL.Seconds()), cookie.MaxAge)
}

func TestSession_ReusesCookie(t *testing.T) {
	cfg := sessionTestConfig()
	r := sessionTestRouter(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	first := sessionCookie(t, w, cfg.CookieName)
	require.NotNil(t, first)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: first.Value})
	r.ServeHTTP(w, req)

	assert.Equal(t, first.Value, w.Header().Get(SessionHeaderKey))
}

func TestSession_AcceptsHeader(t *testing.T) {
	cfg := sessionTestConfig()
	r := sessionTestRouter(cfg)

	id := "0123456789abcdef0123456789abcdef"
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeaderKey, id)
	r.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(SessionHeaderKey))
}

func TestSession_RejectsJunkIDs(t *testing.T) {
	cfg := sessionTestConfig()
	r := sessionTestRouter(cfg)

	for _, junk := range []string{
		"short",
		"0123456789ABCDEF0123456789ABCDEF",
		"zzzz56789abcdef0123456789abcdef0",
		"../../../etc/passwd-aaaaaaaaaaaa",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SessionHeaderKey, junk)
		r.ServeHTTP(w, req)

		minted := w.Header().Get(SessionHeaderKey)
		assert.NotEqual(t, junk, minted)
		assert.Regexp(t, sessionIDPattern, minted)
	}
}

func TestIsValidSessionID(t *testing.T) {
	assert.True(t, isValidSessionID("0123456789abcdef0123456789abcdef"))
	assert.False(t, isValidSessionID(""))
	assert.False(t, isValidSessionID("0123456789abcdef0123456789abcde"))
	assert.False(t, isValidSessionID("0123456789abcdef0123456789abcdefa"))
	assert.False(t, isValidSessionID("0123456789ABCDEF0123456789abcdef"))
}
