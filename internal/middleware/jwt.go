package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/pkg/response"
)

var errNoToken = errors.New("no token")

// Auth returns a middleware that requires a valid bearer token and attaches the caller's identity.
// Store faults while loading the account answer 500; token problems answer 401.
func Auth(authn Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			response.Unauthorized(c, "Not authorized, no token provided")
			c.Abort()
			return
		}
		id, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrUserNotFound):
				response.Unauthorized(c, "Not authorized, user not found")
			case apperr.Is(err, apperr.CodeInternal):
				response.Error(c, logger, err)
			default:
				response.Unauthorized(c, "Not authorized, token failed")
			}
			c.Abort()
			return
		}
		SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and otherwise lets the request through anonymously.
func OptionalAuth(authn Authenticator, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err == nil {
			id, err := authn.Authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				SetIdentity(c, id)
			case apperr.Is(err, apperr.CodeInternal):
				logger.Warn("optional auth: user lookup failed, continuing anonymously",
					zap.String("path", c.Request.URL.Path), zap.Error(err))
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errNoToken
	}
	return strings.TrimSpace(parts[1]), nil
}
