package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextIdentity is the gin context key holding the caller's Identity.
const ContextIdentity = "identity"

// ErrUserNotFound is returned by an Authenticator when the token's subject no longer exists.
var ErrUserNotFound = errors.New("user not found")

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID   uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"isAdmin"`
}

// Authenticator turns a bearer token into an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}

// SetIdentity attaches id to the request.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ContextIdentity, id)
}

// CurrentIdentity returns the identity attached by Auth or OptionalAuth.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// IsAdmin reports whether the request carries an admin identity.
func IsAdmin(c *gin.Context) bool {
	id, ok := CurrentIdentity(c)
	return ok && id.IsAdmin
}
