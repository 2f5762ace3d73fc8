package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pix-api/internal/domain"
	"pix-api/internal/repository"
)

// ObjectStorage abstrae el almacenamiento de archivos de imagen.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MaxUploadSize limita el tamaño de archivo aceptado (5 MiB).
const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

var (
	ErrImageNotFound   = errors.New("image not found in this album")
	ErrFileRequired    = errors.New("no file uploaded")
	ErrFileType        = errors.New("only image file types are allowed (jpg, png, gif, webp)")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrCommentRequired = errors.New("comment is required")
)

// ImageService coordina subida, consulta y borrado de imagenes.
type ImageService struct {
	logger  *zap.Logger
	images  repository.ImageRepository
	albums  repository.AlbumRepository
	storage ObjectStorage
}

func NewImageService(
	logger *zap.Logger,
	images repository.ImageRepository,
	albums repository.AlbumRepository,
	storage ObjectStorage,
) *ImageService {
	return &ImageService{
		logger:  logger,
		images:  images,
		albums:  albums,
		storage: storage,
	}
}

// UploadInput describe el archivo recibido y su metadata.
type UploadInput struct {
	FileName    string
	Size        int64
	ContentType string
	Reader      io.Reader
	Tags        []string
	Person      string
	IsFavorite  bool
}

// Upload valida el archivo, lo sube al object storage y persiste la metadata.
func (s *ImageService) Upload(ctx context.Context, albumID string, input UploadInput) (domain.Image, error) {
	if _, err := s.albums.GetByID(ctx, albumID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Image{}, ErrAlbumNotFound
		}
		return domain.Image{}, err
	}

	if input.Reader == nil || input.FileName == "" {
		return domain.Image{}, ErrFileRequired
	}
	ext := strings.ToLower(filepath.Ext(input.FileName))
	if !allowedExtensions[ext] {
		return domain.Image{}, ErrFileType
	}
	if input.Size <= 0 || input.Size > MaxUploadSize {
		return domain.Image{}, ErrFileTooLarge
	}

	key := "albums/" + uuid.NewString() + ext
	url, err := s.storage.Upload(ctx, key, input.Reader, input.Size, input.ContentType)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("image upload failed", zap.Error(err), zap.String("album_id", albumID))
		}
		return domain.Image{}, err
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	image, err := s.images.Create(ctx, domain.Image{
		AlbumID:    albumID,
		ObjectKey:  key,
		ImageURL:   url,
		Name:       input.FileName,
		Size:       input.Size,
		Tags:       tags,
		Person:     input.Person,
		IsFavorite: input.IsFavorite,
	})
	if err != nil {
		// La fila no se creo: el objeto huerfano se limpia best-effort.
		if delErr := s.storage.Delete(ctx, key); delErr != nil && s.logger != nil {
			s.logger.Warn("orphan object cleanup failed", zap.Error(delErr), zap.String("key", key))
		}
		return domain.Image{}, err
	}
	return image, nil
}

func (s *ImageService) ListByAlbum(ctx context.Context, albumID string) ([]domain.Image, error) {
	return s.images.ListByAlbum(ctx, albumID)
}

func (s *ImageService) ListFavorites(ctx context.Context, albumID string) ([]domain.Image, error) {
	return s.images.ListFavorites(ctx, albumID)
}

// ListByTag filtra por tag; con tag vacio devuelve todas las imagenes del album.
func (s *ImageService) ListByTag(ctx context.Context, albumID, tag string) ([]domain.Image, error) {
	if strings.TrimSpace(tag) == "" {
		return s.images.ListByAlbum(ctx, albumID)
	}
	return s.images.ListByTag(ctx, albumID, tag)
}

// ToggleFavorite invierte el estado de favorito y devuelve el valor nuevo.
func (s *ImageService) ToggleFavorite(ctx context.Context, albumID, imageID string) (bool, error) {
	image, err := s.images.GetByID(ctx, albumID, imageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrImageNotFound
		}
		return false, err
	}

	next := !image.IsFavorite
	if err := s.images.SetFavorite(ctx, imageID, next); err != nil {
		return false, err
	}
	return next, nil
}

// AddComment agrega un comentario atribuido al usuario autenticado y
// devuelve la lista completa de comentarios de la imagen.
func (s *ImageService) AddComment(ctx context.Context, albumID, imageID, body, userID string) ([]domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrCommentRequired
	}

	if _, err := s.images.GetByID(ctx, albumID, imageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	if _, err := s.images.AddComment(ctx, domain.Comment{
		ImageID:     imageID,
		Body:        body,
		CommentedBy: userID,
	}); err != nil {
		return nil, err
	}

	return s.images.ListComments(ctx, imageID)
}

// Delete borra la fila y el objeto almacenado; el objeto es best-effort.
func (s *ImageService) Delete(ctx context.Context, albumID, imageID string) error {
	image, err := s.images.GetByID(ctx, albumID, imageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.images.Delete(ctx, imageID); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, image.ObjectKey); err != nil && s.logger != nil {
			s.logger.Warn("object delete failed", zap.Error(err), zap.String("key", image.ObjectKey))
		}
	}
	return nil
}
