package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/middleware"
	"github.com/casinohub/backend/pkg/response"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body for POST /auth/register (admin only).
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	IsAdmin  bool   `json:"isAdmin"`
}

// TokenResponse is the login response.
type TokenResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	users  UserStore
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(users UserStore, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{users: users, jwt: jwt, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if !apperr.Is(err, apperr.CodeNotFound) {
			response.Error(c, h.logger, err)
			return
		}
		response.Unauthorized(c, "Invalid username or password")
		return
	}
	if !CheckPassword(req.Password, user.Password) {
		h.logger.Info("login rejected", zap.String("username", user.Username))
		response.Unauthorized(c, "Invalid username or password")
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		response.Error(c, h.logger, apperr.Internal("failed to generate token", err))
		return
	}
	response.OK(c, TokenResponse{Token: token, ID: user.ID.String(), Username: user.Username, IsAdmin: user.IsAdmin})
}

// Profile handles GET /auth/profile.
func (h *Handler) Profile(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Not authorized, no token provided")
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, user.ToPublic())
}

// Register handles POST /auth/register. Only admins may create accounts.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		response.Error(c, h.logger, apperr.Internal("failed to hash password", err))
		return
	}
	user, err := h.users.Create(c.Request.Context(), strings.TrimSpace(req.Username), hash, req.IsAdmin)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, user.ToPublic())
}
