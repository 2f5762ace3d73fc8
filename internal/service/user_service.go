package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pix-api/internal/domain"
	"pix-api/internal/oauth"
	"pix-api/internal/repository"
)

// UserService coordina el directorio de usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrDirectoryWrite = errors.New("user directory write failed")
)

// UpsertFromProfile crea o actualiza el usuario por email con los datos del
// proveedor. El upsert es una sola sentencia atomica del lado del storage:
// dos logins concurrentes de un email nuevo convergen al mismo registro.
func (s *UserService) UpsertFromProfile(ctx context.Context, profile oauth.Profile, provider string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	email := normalizeEmail(profile.Email)
	if email == "" {
		return domain.User{}, ErrInvalidEmail
	}

	user, err := s.users.Upsert(ctx, domain.User{
		Email:    email,
		Name:     strings.TrimSpace(profile.Name),
		Picture:  strings.TrimSpace(profile.Picture),
		Provider: provider,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("user upsert failed", zap.Error(err), zap.String("email", email))
		}
		return domain.User{}, ErrDirectoryWrite
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
