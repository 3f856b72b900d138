// Package middlewaretest provides request identities for handler tests.
// It must never be imported from a binary under cmd/.
package middlewaretest

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/casinohub/backend/internal/middleware"
)

// Admin is a fixed admin identity.
var Admin = middleware.Identity{UserID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), Username: "admin", IsAdmin: true}

// Editor is a fixed non-admin identity.
var Editor = middleware.Identity{UserID: uuid.MustParse("00000000-0000-0000-0000-0000000000e1"), Username: "editor"}

// WithIdentity attaches id to every request without checking a token.
func WithIdentity(id middleware.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, id)
		c.Next()
	}
}

// StaticAuthenticator maps literal tokens to identities.
type StaticAuthenticator map[string]middleware.Identity

// Authenticate implements middleware.Authenticator.
func (s StaticAuthenticator) Authenticate(_ context.Context, token string) (middleware.Identity, error) {
	id, ok := s[token]
	if !ok {
		return middleware.Identity{}, errors.New("unknown token")
	}
	return id, nil
}
