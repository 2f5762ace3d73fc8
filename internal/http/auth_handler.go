package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pix-api/internal/oauth"
	"pix-api/internal/service"
)

// AuthHandler mantiene dependencias para el flujo de login y sesión.
type AuthHandler struct {
	logger      *zap.Logger
	provider    oauth.Provider
	userServ    *service.UserService
	tokenServ   *service.TokenService
	states      service.StateStore
	frontendURL string
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(
	logger *zap.Logger,
	provider oauth.Provider,
	userServ *service.UserService,
	tokenServ *service.TokenService,
	states service.StateStore,
	frontendURL string,
) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		provider:    provider,
		userServ:    userServ,
		tokenServ:   tokenServ,
		states:      states,
		frontendURL: frontendURL,
	}
}

// GoogleLogin maneja GET /auth/google.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := service.NewState()
	if err != nil {
		h.logger.Error("state generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start login"})
		return
	}
	if err := h.states.Put(c.Request.Context(), state); err != nil {
		h.logger.Error("state store failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start login"})
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// GoogleCallback maneja GET /auth/google/callback.
// Secuencia completa: exchange + perfil, upsert de usuario, emision del token
// y cookie de sesión. Cualquier fallo aborta sin estado parcial.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no code"})
		return
	}

	ok, err := h.states.Consume(c.Request.Context(), c.Query("state"))
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	profile, err := h.provider.FetchProfile(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("oauth login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Google OAuth failed",
			"details": err.Error(),
		})
		return
	}

	user, err := h.userServ.UpsertFromProfile(c.Request.Context(), profile, h.provider.Name())
	if err != nil {
		h.logger.Error("user upsert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Google OAuth failed",
			"details": "could not persist user",
		})
		return
	}

	token, err := h.tokenServ.Issue(user.ID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Google OAuth failed",
			"details": "could not issue session token",
		})
		return
	}

	setSessionCookie(c.Writer, token, h.tokenServ.TTL())
	c.Redirect(http.StatusFound, h.frontendURL+"/v2/profile/google")
}

// Profile maneja GET /user/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.userServ.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("profile lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"email":    user.Email,
		"name":     user.Name,
		"picture":  user.Picture,
		"provider": user.Provider,
	}})
}

// Logout maneja POST /auth/logout. Siempre responde 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ListUsers maneja GET /users.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.userServ.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users."})
		return
	}
	c.JSON(http.StatusOK, users)
}
