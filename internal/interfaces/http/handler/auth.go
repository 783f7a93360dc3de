package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
)

// AuthHandler issues access tokens. The instance serves a single team, so
// every token carries the configured manager id alongside the salesman uid.
type AuthHandler struct {
	BaseHandler
	jwtManager      *auth.JWTManager
	managerID       string
	bootstrapSecret string
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(jwtManager *auth.JWTManager, managerID, bootstrapSecret string) *AuthHandler {
	return &AuthHandler{
		jwtManager:      jwtManager,
		managerID:       managerID,
		bootstrapSecret: bootstrapSecret,
	}
}

// LoginRequest is the token request payload
type LoginRequest struct {
	UID    string `json:"uid" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token     string `json:"token"`
	UID       string `json:"uid"`
	ManagerID string `json:"manager_id"`
}

// Login exchanges the shared bootstrap secret for a bearer token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "uid and secret are required")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.bootstrapSecret)) != 1 {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "invalid credentials")
		return
	}

	token, err := h.jwtManager.Generate(req.UID, h.managerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token:     token,
		UID:       req.UID,
		ManagerID: h.managerID,
	})
}
