package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/pkg/auth"
)

// sessionContextKey is where JWTAuth stores the session in the gin context
const sessionContextKey = "session"

// AdminChecker authorizes admin-only routes
type AdminChecker interface {
	RequireAdmin(ctx context.Context, session auth.Session) error
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	admins     AdminChecker
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, admins AdminChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		admins:     admins,
	}
}

// tokenFromRequest reads the bearer token, accepting a raw JWT or a quoted
// header as some clients send them. The token query parameter is read only
// when allowQuery is set.
func tokenFromRequest(c *gin.Context, allowQuery bool) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" && allowQuery {
		authHeader = c.Query("token")
	}
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	if authHeader == "" {
		return "", false
	}

	token, err := auth.ExtractBearerToken(authHeader)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// setSession places the session in the gin context and the request context
func setSession(c *gin.Context, session auth.Session) {
	c.Set(sessionContextKey, session)
	c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFromRequest(c, false)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").
				WithDetails(errorDetails).
				WithSeverity(dto.ErrorSeverityError)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		setSession(c, claims.Session())
		c.Next()
	}
}

// OptionalAuth attaches a session when a valid token is present and lets the
// request through either way
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return m.optionalAuth(false)
}

// WebSocketAuth is OptionalAuth that also reads ?token=, since browsers
// cannot set headers on a WebSocket handshake
func (m *AuthMiddleware) WebSocketAuth() gin.HandlerFunc {
	return m.optionalAuth(true)
}

func (m *AuthMiddleware) optionalAuth(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := tokenFromRequest(c, allowQuery); ok {
			if claims, err := m.jwtService.ValidateAndExtractClaims(tokenString); err == nil {
				setSession(c, claims.Session())
			}
		}
		c.Next()
	}
}

// RequireAdmin re-checks the champion's admin flag. Must run after JWTAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.admins.RequireAdmin(c.Request.Context(), SessionFromContext(c)); err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the session set by JWTAuth or OptionalAuth, or
// the zero Session
func SessionFromContext(c *gin.Context) auth.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(auth.Session); ok {
			return s
		}
	}
	return auth.Session{}
}
