package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// SessionIDContextKey is the gin context key for the visitor session ID
const SessionIDContextKey = "session_id"

// SessionHeaderKey lets non-browser clients carry the session ID
// without cookies
const SessionHeaderKey = "X-Session-ID"

// Session resolves the visitor session for each request, minting a new
// one when none is presented. The session ID keys the visitor's cart;
// it carries no authentication weight.
//
// Resolution order: session cookie, then the X-Session-ID header. A
// fresh ID is set as a cookie and echoed in the response header either
// way, which also refreshes the cookie lifetime on every visit.
func Session(cfg config.SessionConfig) gin.HandlerFunc {
	maxAge := int(cfg.CartTTL.Seconds())

	return func(c *gin.Context) {
		sessionID, fromCookie := resolveSessionID(c, cfg.CookieName)
		if sessionID == "" {
			sessionID = generateSessionID()
		}

		c.Set(SessionIDContextKey, sessionID)
		c.Writer.Header().Set(SessionHeaderKey, sessionID)

		if !fromCookie || maxAge > 0 {
			c.SetSameSite(parseSameSite(cfg.SameSite))
			c.SetCookie(cfg.CookieName, sessionID, maxAge, cfg.CookiePath, "", cfg.Secure, true)
		}

		// Propagate into the request context for structured logging
		ctx, _ := logger.WithSessionID(c.Request.Context(), logger.FromContext(c.Request.Context()), sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSessionID returns the session ID set by the Session middleware
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDContextKey)
}

func resolveSessionID(c *gin.Context, cookieName string) (string, bool) {
	if cookie, err := c.Cookie(cookieName); err == nil && isValidSessionID(cookie) {
		return cookie, true
	}
	if header := c.GetHeader(SessionHeaderKey); isValidSessionID(header) {
		return header, false
	}
	return "", false
}

// isValidSessionID rejects anything that is not one of our own minted
// IDs, so junk from clients never becomes a cart key.
func isValidSessionID(id string) bool {
	if len(id) != 32 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func generateSessionID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failing is unrecoverable for session minting
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
