package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    email text NOT NULL,
    name text NOT NULL DEFAULT '',
    picture text NOT NULL DEFAULT '',
    provider text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique
ON users (email);

CREATE TABLE IF NOT EXISTS albums (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL,
    description text NOT NULL DEFAULT '',
    owner_id uuid NOT NULL REFERENCES users(id),
    shared_users text[] NOT NULL DEFAULT '{}',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS images (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    album_id uuid NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
    object_key text NOT NULL,
    image_url text NOT NULL,
    name text NOT NULL,
    size bigint NOT NULL,
    tags text[] NOT NULL DEFAULT '{}',
    person text NOT NULL DEFAULT '',
    is_favorite boolean NOT NULL DEFAULT false,
    uploaded_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS images_album_id_idx
ON images (album_id);

CREATE TABLE IF NOT EXISTS image_comments (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    image_id uuid NOT NULL REFERENCES images(id) ON DELETE CASCADE,
    body text NOT NULL,
    commented_by uuid NOT NULL REFERENCES users(id),
    commented_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS image_comments_image_id_idx
ON image_comments (image_id);
`

// Migrate aplica el esquema de forma idempotente al iniciar el servicio.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaMigration)
	return err
}
