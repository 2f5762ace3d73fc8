package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pix-api/internal/service"
)

// ImageHandler mantiene dependencias para endpoints de imagenes.
type ImageHandler struct {
	logger    *zap.Logger
	imageServ *service.ImageService
}

// NewImageHandler crea una instancia de ImageHandler.
func NewImageHandler(logger *zap.Logger, imageServ *service.ImageService) *ImageHandler {
	return &ImageHandler{
		logger:    logger,
		imageServ: imageServ,
	}
}

// UploadImage maneja POST /albums/:albumId/images (multipart).
func (h *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	defer file.Close()

	tags, err := parseTags(c.PostFormArray("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid tags"})
		return
	}

	image, err := h.imageServ.Upload(c.Request.Context(), c.Param("albumId"), service.UploadInput{
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
		Tags:        tags,
		Person:      c.PostForm("person"),
		IsFavorite:  c.PostForm("isFavorite") == "true",
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlbumNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Album not found"})
		case errors.Is(err, service.ErrFileRequired),
			errors.Is(err, service.ErrFileType),
			errors.Is(err, service.ErrFileTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			h.logger.Error("upload image failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"message": "could not upload image"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Image uploaded successfully", "data": image})
}

// parseTags acepta valores repetidos del form o un unico valor JSON array.
func parseTags(values []string) ([]string, error) {
	if len(values) == 1 && len(values[0]) > 0 && values[0][0] == '[' {
		var tags []string
		if err := json.Unmarshal([]byte(values[0]), &tags); err != nil {
			return nil, err
		}
		return tags, nil
	}
	return values, nil
}

// ListImages maneja GET /albums/:albumId/images.
func (h *ImageHandler) ListImages(c *gin.Context) {
	images, err := h.imageServ.ListByAlbum(c.Request.Context(), c.Param("albumId"))
	if err != nil {
		h.logger.Error("list images failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not list images"})
		return
	}
	c.JSON(http.StatusOK, images)
}

// ListFavorites maneja GET /albums/:albumId/images/favorites.
func (h *ImageHandler) ListFavorites(c *gin.Context) {
	images, err := h.imageServ.ListFavorites(c.Request.Context(), c.Param("albumId"))
	if err != nil {
		h.logger.Error("list favorites failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not list favorites"})
		return
	}
	c.JSON(http.StatusOK, images)
}

// ListByTag maneja GET /albums/:albumId/images/by-tag.
func (h *ImageHandler) ListByTag(c *gin.Context) {
	images, err := h.imageServ.ListByTag(c.Request.Context(), c.Param("albumId"), c.Query("tags"))
	if err != nil {
		h.logger.Error("list by tag failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not list images"})
		return
	}
	c.JSON(http.StatusOK, images)
}

// ToggleFavorite maneja PUT /albums/:albumId/images/:imageId/favorite.
func (h *ImageHandler) ToggleFavorite(c *gin.Context) {
	favorite, err := h.imageServ.ToggleFavorite(c.Request.Context(), c.Param("albumId"), c.Param("imageId"))
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found in this album"})
			return
		}
		h.logger.Error("toggle favorite failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not update favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite status updated", "isFavorite": favorite})
}

// AddComment maneja POST /albums/:albumId/images/:imageId/comments.
func (h *ImageHandler) AddComment(c *gin.Context) {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment is required"})
		return
	}

	userID, _ := AuthUserID(c)
	comments, err := h.imageServ.AddComment(c.Request.Context(), c.Param("albumId"), c.Param("imageId"), req.Comment, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Comment is required"})
		case errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found in this album"})
		default:
			h.logger.Error("add comment failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"message": "could not add comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "comments": comments})
}

// DeleteImage maneja DELETE /albums/:albumId/images/:imageId.
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	err := h.imageServ.Delete(c.Request.Context(), c.Param("albumId"), c.Param("imageId"))
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found in this album"})
			return
		}
		h.logger.Error("delete image failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not delete image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
