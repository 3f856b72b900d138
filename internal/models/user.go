package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is an account that can sign in to the admin panel.
type AdminUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminUserPublic is AdminUser without the credential.
type AdminUserPublic struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"isAdmin"`
}

// ToPublic converts AdminUser to AdminUserPublic.
func (u *AdminUser) ToPublic() AdminUserPublic {
	return AdminUserPublic{
		ID:       u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}
