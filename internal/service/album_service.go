package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pix-api/internal/domain"
	"pix-api/internal/email"
	"pix-api/internal/repository"
)

// AlbumService coordina reglas de negocio para albumes.
type AlbumService struct {
	logger      *zap.Logger
	albums      repository.AlbumRepository
	users       repository.UserRepository
	images      repository.ImageRepository
	storage     ObjectStorage
	emailSender email.Sender
}

func NewAlbumService(
	logger *zap.Logger,
	albums repository.AlbumRepository,
	users repository.UserRepository,
	images repository.ImageRepository,
	storage ObjectStorage,
	emailSender email.Sender,
) *AlbumService {
	return &AlbumService{
		logger:      logger,
		albums:      albums,
		users:       users,
		images:      images,
		storage:     storage,
		emailSender: emailSender,
	}
}

var (
	ErrAlbumNotFound     = errors.New("album not found")
	ErrAlbumNameRequired = errors.New("album name required")
	ErrShareNoEmails     = errors.New("emails must be a non-empty array")
	ErrAlreadyShared     = errors.New("all users are already shared with this album")
)

// InvalidEmailsError lista los emails con formato invalido en un share.
type InvalidEmailsError struct {
	Emails []string
}

func (e *InvalidEmailsError) Error() string {
	return fmt.Sprintf("invalid emails: %s", strings.Join(e.Emails, ", "))
}

// MissingUsersError lista los emails que no corresponden a usuarios existentes.
type MissingUsersError struct {
	Emails []string
}

func (e *MissingUsersError) Error() string {
	return fmt.Sprintf("users do not exist: %s", strings.Join(e.Emails, ", "))
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (s *AlbumService) Create(ctx context.Context, ownerID, name, description string) (domain.Album, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Album{}, ErrAlbumNameRequired
	}

	return s.albums.Create(ctx, domain.Album{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		SharedUsers: []string{},
	})
}

func (s *AlbumService) List(ctx context.Context) ([]domain.Album, error) {
	return s.albums.List(ctx)
}

func (s *AlbumService) UpdateDescription(ctx context.Context, albumID, description string) (domain.Album, error) {
	album, err := s.albums.UpdateDescription(ctx, albumID, description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Album{}, ErrAlbumNotFound
		}
		return domain.Album{}, err
	}
	return album, nil
}

// Share agrega destinatarios al album. Todos los emails deben tener formato
// valido y pertenecer a usuarios registrados; los ya compartidos se ignoran.
func (s *AlbumService) Share(ctx context.Context, albumID string, emails []string, sharedBy domain.User) ([]string, error) {
	if len(emails) == 0 {
		return nil, ErrShareNoEmails
	}

	var invalid []string
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if !emailPattern.MatchString(e) {
			invalid = append(invalid, e)
			continue
		}
		normalized = append(normalized, e)
	}
	if len(invalid) > 0 {
		return nil, &InvalidEmailsError{Emails: invalid}
	}

	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}

	existing, err := s.users.ListByEmails(ctx, normalized)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, u := range existing {
		known[u.Email] = true
	}
	var missing []string
	for _, e := range normalized {
		if !known[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingUsersError{Emails: missing}
	}

	shared := make(map[string]bool, len(album.SharedUsers))
	for _, e := range album.SharedUsers {
		shared[e] = true
	}
	var added []string
	for _, e := range normalized {
		if !shared[e] {
			shared[e] = true
			added = append(added, e)
		}
	}
	if len(added) == 0 {
		return nil, ErrAlreadyShared
	}

	sharedUsers := append(album.SharedUsers, added...)
	if err := s.albums.UpdateSharedUsers(ctx, albumID, sharedUsers); err != nil {
		return nil, err
	}

	s.notifyShared(ctx, album, added, sharedBy)

	return sharedUsers, nil
}

// notifyShared avisa por correo a los nuevos destinatarios, best-effort.
func (s *AlbumService) notifyShared(ctx context.Context, album domain.Album, added []string, sharedBy domain.User) {
	if s.emailSender == nil {
		return
	}
	sharedByName := sharedBy.Name
	if sharedByName == "" {
		sharedByName = sharedBy.Email
	}
	for _, to := range added {
		if err := s.emailSender.SendAlbumShared(ctx, to, album.Name, sharedByName); err != nil {
			if s.logger != nil {
				s.logger.Warn("album share notification failed",
					zap.Error(err),
					zap.String("album_id", album.ID),
					zap.String("to", to),
				)
			}
		}
	}
}

// Delete elimina el album, sus imagenes y los objetos almacenados.
// La eliminacion de objetos es best-effort: las filas se borran igual.
func (s *AlbumService) Delete(ctx context.Context, albumID string) (domain.Album, error) {
	keys, err := s.images.ListObjectKeysByAlbum(ctx, albumID)
	if err != nil {
		return domain.Album{}, err
	}

	album, err := s.albums.Delete(ctx, albumID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Album{}, ErrAlbumNotFound
		}
		return domain.Album{}, err
	}

	if s.storage != nil {
		for _, key := range keys {
			if err := s.storage.Delete(ctx, key); err != nil && s.logger != nil {
				s.logger.Warn("object delete failed", zap.Error(err), zap.String("key", key))
			}
		}
	}

	return album, nil
}
