package api

import (
	"errors"
	"net/http"
	"time"

	"lamx12/nutri-plan/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler exchanges client credentials for an access token.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type TokenRequest struct {
	ClientID     string `json:"clientId" binding:"required"`
	ClientSecret string `json:"clientSecret" binding:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken handles POST /api/v1/auth/token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "clientId and clientSecret are required")
		return
	}

	token, expiresAt, err := h.authService.IssueToken(req.ClientID, req.ClientSecret)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to issue token")
		}
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
