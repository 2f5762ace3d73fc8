package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pix-api/internal/domain"
)

// AlbumRepository define el contrato de persistencia para albumes.
type AlbumRepository interface {
	Create(ctx context.Context, album domain.Album) (domain.Album, error)
	GetByID(ctx context.Context, id string) (domain.Album, error)
	List(ctx context.Context) ([]domain.Album, error)
	UpdateDescription(ctx context.Context, id, description string) (domain.Album, error)
	UpdateSharedUsers(ctx context.Context, id string, sharedUsers []string) error
	Delete(ctx context.Context, id string) (domain.Album, error)
}

// PgAlbumRepository implementa AlbumRepository usando pgxpool.
type PgAlbumRepository struct {
	pool *pgxpool.Pool
}

func NewPgAlbumRepository(pool *pgxpool.Pool) *PgAlbumRepository {
	return &PgAlbumRepository{pool: pool}
}

func (r *PgAlbumRepository) Create(ctx context.Context, album domain.Album) (domain.Album, error) {
	const query = `
		INSERT INTO albums (name, description, owner_id, shared_users)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, owner_id, shared_users, created_at, updated_at
	`
	var a domain.Album
	err := r.pool.QueryRow(ctx, query,
		album.Name,
		album.Description,
		album.OwnerID,
		album.SharedUsers,
	).Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.OwnerID,
		&a.SharedUsers,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *PgAlbumRepository) GetByID(ctx context.Context, id string) (domain.Album, error) {
	const query = `
		SELECT id, name, description, owner_id, shared_users, created_at, updated_at
		FROM albums
		WHERE id = $1
	`
	var a domain.Album
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.OwnerID,
		&a.SharedUsers,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Album{}, err
	}
	return a, err
}

func (r *PgAlbumRepository) List(ctx context.Context) ([]domain.Album, error) {
	const query = `
		SELECT id, name, description, owner_id, shared_users, created_at, updated_at
		FROM albums
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []domain.Album
	for rows.Next() {
		var a domain.Album
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.OwnerID, &a.SharedUsers, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func (r *PgAlbumRepository) UpdateDescription(ctx context.Context, id, description string) (domain.Album, error) {
	const query = `
		UPDATE albums
		SET description = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, owner_id, shared_users, created_at, updated_at
	`
	var a domain.Album
	err := r.pool.QueryRow(ctx, query, id, description).Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.OwnerID,
		&a.SharedUsers,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *PgAlbumRepository) UpdateSharedUsers(ctx context.Context, id string, sharedUsers []string) error {
	const query = `
		UPDATE albums
		SET shared_users = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, sharedUsers)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgAlbumRepository) Delete(ctx context.Context, id string) (domain.Album, error) {
	const query = `
		DELETE FROM albums
		WHERE id = $1
		RETURNING id, name, description, owner_id, shared_users, created_at, updated_at
	`
	var a domain.Album
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.OwnerID,
		&a.SharedUsers,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
