package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/middleware"
	"github.com/casinohub/backend/internal/models"
)

// UserStore is the user lookup the auth package needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.AdminUser, error)
}

// Authenticator validates bearer tokens and reloads the user so revoked or
// demoted accounts lose access before their token expires.
type Authenticator struct {
	jwt   *JWTService
	users UserStore
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(jwt *JWTService, users UserStore) *Authenticator {
	return &Authenticator{jwt: jwt, users: users}
}

// Authenticate implements middleware.Authenticator.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (middleware.Identity, error) {
	claims, err := a.jwt.Validate(token)
	if err != nil {
		return middleware.Identity{}, err
	}
	user, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return middleware.Identity{}, middleware.ErrUserNotFound
		}
		return middleware.Identity{}, apperr.Internal("failed to load user", err)
	}
	return middleware.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}
