package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/pkg/jwt"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "nexa_session"

	// UserContextKey is the key used to store the signed-in identity in context
	UserContextKey = "nexa_user"
)

var (
	ErrSessionNotFound = errors.New("session not found in context")
	ErrInvalidSession  = errors.New("invalid session type")
)

// SessionOptions configures the session cookie
type SessionOptions struct {
	TokenManager *jwt.TokenManager
	CookieDomain string
	CookieSecure bool
}

// UserSessionMiddleware requires a valid session cookie and adds the
// identity to context
func UserSessionMiddleware(opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLanguage(c)

		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			_ = c.Error(fmt.Errorf("missing session cookie")) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, i18n.KeyErrUnauthorized)})
			return
		}

		claims, err := opts.TokenManager.ValidateToken(cookie)
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid session token: %w", err)) //nolint:errcheck

			ClearSessionCookie(c, opts.CookieDomain, opts.CookieSecure)

			key := i18n.KeyErrUnauthorized
			if errors.Is(err, jwt.ErrExpiredToken) {
				key = i18n.KeyErrSessionExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, key)})
			return
		}

		c.Set(UserContextKey, identityFromClaims(claims))
		c.Next()
	}
}

// OptionalUserSession adds the identity to context when a valid session
// cookie is present and never aborts
func OptionalUserSession(opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			if claims, err := opts.TokenManager.ValidateToken(cookie); err == nil {
				c.Set(UserContextKey, identityFromClaims(claims))
			}
		}
		c.Next()
	}
}

// GetUser extracts the signed-in identity from context
func GetUser(c *gin.Context) (*models.Identity, error) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	user, ok := val.(*models.Identity)
	if !ok {
		return nil, ErrInvalidSession
	}

	return user, nil
}

// SetSessionCookie sets the session cookie
func SetSessionCookie(c *gin.Context, token string, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, ttlSeconds, "/", domain, secure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", domain, secure, true)
}

func identityFromClaims(claims *jwt.SessionClaims) *models.Identity {
	return &models.Identity{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		PhotoURL:    claims.PhotoURL,
		Provider:    claims.Provider,
	}
}
