package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pix-api/internal/service"
)

// AlbumHandler mantiene dependencias para endpoints de albumes.
type AlbumHandler struct {
	logger    *zap.Logger
	albumServ *service.AlbumService
	userServ  *service.UserService
}

// NewAlbumHandler crea una instancia de AlbumHandler.
func NewAlbumHandler(logger *zap.Logger, albumServ *service.AlbumService, userServ *service.UserService) *AlbumHandler {
	return &AlbumHandler{
		logger:    logger,
		albumServ: albumServ,
		userServ:  userServ,
	}
}

// CreateAlbum maneja POST /albums.
func (h *AlbumHandler) CreateAlbum(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Input: 'name' is required."})
		return
	}

	ownerID, _ := AuthUserID(c)
	album, err := h.albumServ.Create(c.Request.Context(), ownerID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrAlbumNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Input: 'name' is required."})
			return
		}
		h.logger.Error("create album failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add album."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Album created successfully.", "album": album})
}

// ListAlbums maneja GET /albums.
func (h *AlbumHandler) ListAlbums(c *gin.Context) {
	albums, err := h.albumServ.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list albums failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get albums."})
		return
	}
	c.JSON(http.StatusOK, albums)
}

// UpdateAlbum maneja PUT /albums/:albumId.
func (h *AlbumHandler) UpdateAlbum(c *gin.Context) {
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	album, err := h.albumServ.UpdateDescription(c.Request.Context(), c.Param("albumId"), req.Description)
	if err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Album not found."})
			return
		}
		h.logger.Error("update album failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update album."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Description updated.", "album": album})
}

// ShareAlbum maneja POST /albums/:albumId/share.
func (h *AlbumHandler) ShareAlbum(c *gin.Context) {
	var req struct {
		Emails []string `json:"emails"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emails must be a non-empty array"})
		return
	}

	userID, _ := AuthUserID(c)
	sharedBy, err := h.userServ.GetByID(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, service.ErrUserNotFound) {
		h.logger.Error("share album failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share album"})
		return
	}

	sharedUsers, err := h.albumServ.Share(c.Request.Context(), c.Param("albumId"), req.Emails, sharedBy)
	if err != nil {
		var invalid *service.InvalidEmailsError
		var missing *service.MissingUsersError
		switch {
		case errors.Is(err, service.ErrShareNoEmails):
			c.JSON(http.StatusBadRequest, gin.H{"error": "emails must be a non-empty array"})
		case errors.As(err, &invalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email(s) provided", "invalidEmails": invalid.Emails})
		case errors.As(err, &missing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Some users do not exist", "missingEmails": missing.Emails})
		case errors.Is(err, service.ErrAlreadyShared):
			c.JSON(http.StatusBadRequest, gin.H{"error": "All users are already shared with this album"})
		case errors.Is(err, service.ErrAlbumNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Album not found"})
		default:
			h.logger.Error("share album failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share album"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Album shared successfully", "sharedUsers": sharedUsers})
}

// DeleteAlbum maneja DELETE /albums/:albumId.
func (h *AlbumHandler) DeleteAlbum(c *gin.Context) {
	album, err := h.albumServ.Delete(c.Request.Context(), c.Param("albumId"))
	if err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Album not found."})
			return
		}
		h.logger.Error("delete album failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete album."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Album and all associated images deleted successfully.",
		"album":   album,
	})
}
