package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pix-api/internal/domain"
)

// ImageRepository define el contrato de persistencia para imagenes y comentarios.
type ImageRepository interface {
	Create(ctx context.Context, image domain.Image) (domain.Image, error)
	GetByID(ctx context.Context, albumID, imageID string) (domain.Image, error)
	ListByAlbum(ctx context.Context, albumID string) ([]domain.Image, error)
	ListFavorites(ctx context.Context, albumID string) ([]domain.Image, error)
	ListByTag(ctx context.Context, albumID, tag string) ([]domain.Image, error)
	SetFavorite(ctx context.Context, imageID string, favorite bool) error
	Delete(ctx context.Context, imageID string) error
	ListObjectKeysByAlbum(ctx context.Context, albumID string) ([]string, error)
	AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	ListComments(ctx context.Context, imageID string) ([]domain.Comment, error)
}

// PgImageRepository implementa ImageRepository usando pgxpool.
type PgImageRepository struct {
	pool *pgxpool.Pool
}

func NewPgImageRepository(pool *pgxpool.Pool) *PgImageRepository {
	return &PgImageRepository{pool: pool}
}

const imageColumns = `id, album_id, object_key, image_url, name, size, tags, person, is_favorite, uploaded_at`

func scanImage(row pgx.Row) (domain.Image, error) {
	var img domain.Image
	err := row.Scan(
		&img.ID,
		&img.AlbumID,
		&img.ObjectKey,
		&img.ImageURL,
		&img.Name,
		&img.Size,
		&img.Tags,
		&img.Person,
		&img.IsFavorite,
		&img.UploadedAt,
	)
	return img, err
}

func (r *PgImageRepository) Create(ctx context.Context, image domain.Image) (domain.Image, error) {
	const query = `
		INSERT INTO images (album_id, object_key, image_url, name, size, tags, person, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + imageColumns
	return scanImage(r.pool.QueryRow(ctx, query,
		image.AlbumID,
		image.ObjectKey,
		image.ImageURL,
		image.Name,
		image.Size,
		image.Tags,
		image.Person,
		image.IsFavorite,
	))
}

func (r *PgImageRepository) GetByID(ctx context.Context, albumID, imageID string) (domain.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE id = $1 AND album_id = $2
	`
	return scanImage(r.pool.QueryRow(ctx, query, imageID, albumID))
}

func (r *PgImageRepository) ListByAlbum(ctx context.Context, albumID string) ([]domain.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE album_id = $1
		ORDER BY uploaded_at
	`
	return r.queryImages(ctx, query, albumID)
}

func (r *PgImageRepository) ListFavorites(ctx context.Context, albumID string) ([]domain.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE album_id = $1 AND is_favorite
		ORDER BY uploaded_at
	`
	return r.queryImages(ctx, query, albumID)
}

// ListByTag filtra por coincidencia parcial de tag, sin distinguir mayusculas.
func (r *PgImageRepository) ListByTag(ctx context.Context, albumID, tag string) ([]domain.Image, error) {
	const query = `
		SELECT ` + imageColumns + `
		FROM images
		WHERE album_id = $1
		  AND EXISTS (
			SELECT 1 FROM unnest(tags) AS t
			WHERE t ILIKE '%' || $2 || '%'
		  )
		ORDER BY uploaded_at
	`
	return r.queryImages(ctx, query, albumID, tag)
}

func (r *PgImageRepository) queryImages(ctx context.Context, query string, args ...any) ([]domain.Image, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *PgImageRepository) SetFavorite(ctx context.Context, imageID string, favorite bool) error {
	const query = `
		UPDATE images
		SET is_favorite = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, imageID, favorite)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgImageRepository) Delete(ctx context.Context, imageID string) error {
	const query = `
		DELETE FROM images
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, imageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgImageRepository) ListObjectKeysByAlbum(ctx context.Context, albumID string) ([]string, error) {
	const query = `
		SELECT object_key
		FROM images
		WHERE album_id = $1
	`
	rows, err := r.pool.Query(ctx, query, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *PgImageRepository) AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	const query = `
		INSERT INTO image_comments (image_id, body, commented_by)
		VALUES ($1, $2, $3)
		RETURNING id, image_id, body, commented_by, commented_at
	`
	var c domain.Comment
	err := r.pool.QueryRow(ctx, query,
		comment.ImageID,
		comment.Body,
		comment.CommentedBy,
	).Scan(
		&c.ID,
		&c.ImageID,
		&c.Body,
		&c.CommentedBy,
		&c.CommentedAt,
	)
	return c, err
}

func (r *PgImageRepository) ListComments(ctx context.Context, imageID string) ([]domain.Comment, error) {
	const query = `
		SELECT id, image_id, body, commented_by, commented_at
		FROM image_comments
		WHERE image_id = $1
		ORDER BY commented_at
	`
	rows, err := r.pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ImageID, &c.Body, &c.CommentedBy, &c.CommentedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
