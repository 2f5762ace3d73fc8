package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"pix-api/internal/domain"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	nextID       int
	failUpsert   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Upsert(_ context.Context, user domain.User) (domain.User, error) {
	if m.failUpsert != nil {
		return domain.User{}, m.failUpsert
	}
	if id, ok := m.usersByEmail[user.Email]; ok {
		existing := m.usersByID[id]
		existing.Name = user.Name
		existing.Picture = user.Picture
		existing.Provider = user.Provider
		m.usersByID[id] = existing
		return existing, nil
	}
	m.nextID++
	user.ID = fmt.Sprintf("u%d", m.nextID)
	user.CreatedAt = time.Now().UTC()
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, u := range m.usersByID {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepo) ListByEmails(_ context.Context, emails []string) ([]domain.User, error) {
	var users []domain.User
	for _, e := range emails {
		if id, ok := m.usersByEmail[e]; ok {
			users = append(users, m.usersByID[id])
		}
	}
	return users, nil
}

type mockAlbumRepo struct {
	albums map[string]domain.Album
	nextID int
}

func newMockAlbumRepo() *mockAlbumRepo {
	return &mockAlbumRepo{albums: make(map[string]domain.Album)}
}

func (m *mockAlbumRepo) Create(_ context.Context, album domain.Album) (domain.Album, error) {
	m.nextID++
	album.ID = fmt.Sprintf("a%d", m.nextID)
	album.CreatedAt = time.Now().UTC()
	album.UpdatedAt = album.CreatedAt
	m.albums[album.ID] = album
	return album, nil
}

func (m *mockAlbumRepo) GetByID(_ context.Context, id string) (domain.Album, error) {
	album, ok := m.albums[id]
	if !ok {
		return domain.Album{}, pgx.ErrNoRows
	}
	return album, nil
}

func (m *mockAlbumRepo) List(_ context.Context) ([]domain.Album, error) {
	var albums []domain.Album
	for _, a := range m.albums {
		albums = append(albums, a)
	}
	return albums, nil
}

func (m *mockAlbumRepo) UpdateDescription(_ context.Context, id, description string) (domain.Album, error) {
	album, ok := m.albums[id]
	if !ok {
		return domain.Album{}, pgx.ErrNoRows
	}
	album.Description = description
	m.albums[id] = album
	return album, nil
}

func (m *mockAlbumRepo) UpdateSharedUsers(_ context.Context, id string, sharedUsers []string) error {
	album, ok := m.albums[id]
	if !ok {
		return pgx.ErrNoRows
	}
	album.SharedUsers = sharedUsers
	m.albums[id] = album
	return nil
}

func (m *mockAlbumRepo) Delete(_ context.Context, id string) (domain.Album, error) {
	album, ok := m.albums[id]
	if !ok {
		return domain.Album{}, pgx.ErrNoRows
	}
	delete(m.albums, id)
	return album, nil
}

type mockImageRepo struct {
	images   map[string]domain.Image
	comments map[string][]domain.Comment
	nextID   int
}

func newMockImageRepo() *mockImageRepo {
	return &mockImageRepo{
		images:   make(map[string]domain.Image),
		comments: make(map[string][]domain.Comment),
	}
}

func (m *mockImageRepo) Create(_ context.Context, image domain.Image) (domain.Image, error) {
	m.nextID++
	image.ID = fmt.Sprintf("i%d", m.nextID)
	image.UploadedAt = time.Now().UTC()
	m.images[image.ID] = image
	return image, nil
}

func (m *mockImageRepo) GetByID(_ context.Context, albumID, imageID string) (domain.Image, error) {
	image, ok := m.images[imageID]
	if !ok || image.AlbumID != albumID {
		return domain.Image{}, pgx.ErrNoRows
	}
	return image, nil
}

func (m *mockImageRepo) ListByAlbum(_ context.Context, albumID string) ([]domain.Image, error) {
	var images []domain.Image
	for _, img := range m.images {
		if img.AlbumID == albumID {
			images = append(images, img)
		}
	}
	return images, nil
}

func (m *mockImageRepo) ListFavorites(_ context.Context, albumID string) ([]domain.Image, error) {
	var images []domain.Image
	for _, img := range m.images {
		if img.AlbumID == albumID && img.IsFavorite {
			images = append(images, img)
		}
	}
	return images, nil
}

func (m *mockImageRepo) ListByTag(_ context.Context, albumID, tag string) ([]domain.Image, error) {
	var images []domain.Image
	for _, img := range m.images {
		if img.AlbumID != albumID {
			continue
		}
		for _, t := range img.Tags {
			if t == tag {
				images = append(images, img)
				break
			}
		}
	}
	return images, nil
}

func (m *mockImageRepo) SetFavorite(_ context.Context, imageID string, favorite bool) error {
	image, ok := m.images[imageID]
	if !ok {
		return pgx.ErrNoRows
	}
	image.IsFavorite = favorite
	m.images[imageID] = image
	return nil
}

func (m *mockImageRepo) Delete(_ context.Context, imageID string) error {
	if _, ok := m.images[imageID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.images, imageID)
	return nil
}

func (m *mockImageRepo) ListObjectKeysByAlbum(_ context.Context, albumID string) ([]string, error) {
	var keys []string
	for _, img := range m.images {
		if img.AlbumID == albumID {
			keys = append(keys, img.ObjectKey)
		}
	}
	return keys, nil
}

func (m *mockImageRepo) AddComment(_ context.Context, comment domain.Comment) (domain.Comment, error) {
	m.nextID++
	comment.ID = fmt.Sprintf("c%d", m.nextID)
	comment.CommentedAt = time.Now().UTC()
	m.comments[comment.ImageID] = append(m.comments[comment.ImageID], comment)
	return comment, nil
}

func (m *mockImageRepo) ListComments(_ context.Context, imageID string) ([]domain.Comment, error) {
	return m.comments[imageID], nil
}

type mockStorage struct {
	uploaded map[string]int64
	deleted  []string
	failPut  bool
}

func newMockStorage() *mockStorage {
	return &mockStorage{uploaded: make(map[string]int64)}
}

func (m *mockStorage) Upload(_ context.Context, key string, _ io.Reader, size int64, _ string) (string, error) {
	if m.failPut {
		return "", errors.New("storage unavailable")
	}
	m.uploaded[key] = size
	return "https://cdn.example.com/" + key, nil
}

func (m *mockStorage) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

type mockSender struct {
	sent []string
	fail bool
}

func (m *mockSender) SendAlbumShared(_ context.Context, toEmail, _ string, _ string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, toEmail)
	return nil
}
