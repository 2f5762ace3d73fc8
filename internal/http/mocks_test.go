package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pix-api/internal/domain"
	"pix-api/internal/oauth"
	"pix-api/internal/service"
)

type fakeProvider struct {
	profile    oauth.Profile
	fetchErr   error
	fetchCalls int
}

func (p *fakeProvider) Name() string { return "google" }

func (p *fakeProvider) AuthURL(state string) string {
	return "https://accounts.google.example/o/oauth2/auth?state=" + state
}

func (p *fakeProvider) FetchProfile(_ context.Context, _ string) (oauth.Profile, error) {
	p.fetchCalls++
	if p.fetchErr != nil {
		return oauth.Profile{}, p.fetchErr
	}
	return p.profile, nil
}

type stubUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	nextID       int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (r *stubUserRepo) Upsert(_ context.Context, user domain.User) (domain.User, error) {
	if id, ok := r.usersByEmail[user.Email]; ok {
		existing := r.usersByID[id]
		existing.Name = user.Name
		existing.Picture = user.Picture
		existing.Provider = user.Provider
		r.usersByID[id] = existing
		return existing, nil
	}
	r.nextID++
	user.ID = fmt.Sprintf("u%d", r.nextID)
	user.CreatedAt = time.Now().UTC()
	r.usersByID[user.ID] = user
	r.usersByEmail[user.Email] = user.ID
	return user, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := r.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := r.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return r.usersByID[id], nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, u := range r.usersByID {
		users = append(users, u)
	}
	return users, nil
}

func (r *stubUserRepo) ListByEmails(_ context.Context, emails []string) ([]domain.User, error) {
	var users []domain.User
	for _, e := range emails {
		if id, ok := r.usersByEmail[e]; ok {
			users = append(users, r.usersByID[id])
		}
	}
	return users, nil
}

type stubAlbumRepo struct {
	albums map[string]domain.Album
	nextID int
}

func newStubAlbumRepo() *stubAlbumRepo {
	return &stubAlbumRepo{albums: make(map[string]domain.Album)}
}

func (r *stubAlbumRepo) Create(_ context.Context, album domain.Album) (domain.Album, error) {
	r.nextID++
	album.ID = fmt.Sprintf("a%d", r.nextID)
	album.CreatedAt = time.Now().UTC()
	album.UpdatedAt = album.CreatedAt
	r.albums[album.ID] = album
	return album, nil
}

func (r *stubAlbumRepo) GetByID(_ context.Context, id string) (domain.Album, error) {
	album, ok := r.albums[id]
	if !ok {
		return domain.Album{}, pgx.ErrNoRows
	}
	return album, nil
}

func (r *stubAlbumRepo) List(_ context.Context) ([]domain.Album, error) {
	var albums []domain.Album
	for _, a := range r.albums {
		albums = append(albums, a)
	}
	return albums, nil
}

func (r *stubAlbumRepo) UpdateDescription(_ context.Context, id, description string) (domain.Album, error) {
	album, ok := r.albums[id]
	if !ok {
		return domain.Album{}, pgx.ErrNoRows
	}
	album.Description = description
	r.albums[id] = album
	return album, nil
}

func (r *stubAlbumRepo) UpdateSharedUsers(_ context.Context, id string, sharedUsers []string) error {
	album, ok := r.albums[id]
	if !ok {
		return pgx.ErrNoRows
	}
	album.SharedUsers = sharedUsers
	r.albums[id] = album
	return nil
}

func (r *stubAlbumRepo) Delete(_ context.Context, id string) (domain.Album, error) {
	album, ok := r.albums[id]
	if !ok {
		return domain.Album{}, pgx.ErrNoRows
	}
	delete(r.albums, id)
	return album, nil
}

type stubImageRepo struct {
	images   map[string]domain.Image
	comments map[string][]domain.Comment
	nextID   int
}

func newStubImageRepo() *stubImageRepo {
	return &stubImageRepo{
		images:   make(map[string]domain.Image),
		comments: make(map[string][]domain.Comment),
	}
}

func (r *stubImageRepo) Create(_ context.Context, image domain.Image) (domain.Image, error) {
	r.nextID++
	image.ID = fmt.Sprintf("i%d", r.nextID)
	image.UploadedAt = time.Now().UTC()
	r.images[image.ID] = image
	return image, nil
}

func (r *stubImageRepo) GetByID(_ context.Context, albumID, imageID string) (domain.Image, error) {
	image, ok := r.images[imageID]
	if !ok || image.AlbumID != albumID {
		return domain.Image{}, pgx.ErrNoRows
	}
	return image, nil
}

func (r *stubImageRepo) ListByAlbum(_ context.Context, albumID string) ([]domain.Image, error) {
	var images []domain.Image
	for _, img := range r.images {
		if img.AlbumID == albumID {
			images = append(images, img)
		}
	}
	return images, nil
}

func (r *stubImageRepo) ListFavorites(_ context.Context, albumID string) ([]domain.Image, error) {
	var images []domain.Image
	for _, img := range r.images {
		if img.AlbumID == albumID && img.IsFavorite {
			images = append(images, img)
		}
	}
	return images, nil
}

func (r *stubImageRepo) ListByTag(_ context.Context, albumID, tag string) ([]domain.Image, error) {
	var images []domain.Image
	for _, img := range r.images {
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

func (r *stubImageRepo) SetFavorite(_ context.Context, imageID string, favorite bool) error {
	image, ok := r.images[imageID]
	if !ok {
		return pgx.ErrNoRows
	}
	image.IsFavorite = favorite
	r.images[imageID] = image
	return nil
}

func (r *stubImageRepo) Delete(_ context.Context, imageID string) error {
	if _, ok := r.images[imageID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.images, imageID)
	return nil
}

func (r *stubImageRepo) ListObjectKeysByAlbum(_ context.Context, albumID string) ([]string, error) {
	var keys []string
	for _, img := range r.images {
		if img.AlbumID == albumID {
			keys = append(keys, img.ObjectKey)
		}
	}
	return keys, nil
}

func (r *stubImageRepo) AddComment(_ context.Context, comment domain.Comment) (domain.Comment, error) {
	r.nextID++
	comment.ID = fmt.Sprintf("c%d", r.nextID)
	comment.CommentedAt = time.Now().UTC()
	r.comments[comment.ImageID] = append(r.comments[comment.ImageID], comment)
	return comment, nil
}

func (r *stubImageRepo) ListComments(_ context.Context, imageID string) ([]domain.Comment, error) {
	return r.comments[imageID], nil
}

type stubStorage struct {
	uploaded map[string]int64
	deleted  []string
}

func newStubStorage() *stubStorage {
	return &stubStorage{uploaded: make(map[string]int64)}
}

func (s *stubStorage) Upload(_ context.Context, key string, _ io.Reader, size int64, _ string) (string, error) {
	s.uploaded[key] = size
	return "https://cdn.example.com/" + key, nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type stubSender struct {
	sent []string
}

func (s *stubSender) SendAlbumShared(_ context.Context, toEmail, _ string, _ string) error {
	s.sent = append(s.sent, toEmail)
	return nil
}

const testFrontendURL = "https://front.example.com"

// fixture arma el router completo con stubs en memoria para ejercitar
// los endpoints de punta a punta.
type fixture struct {
	router   *gin.Engine
	provider *fakeProvider
	tokens   *service.TokenService
	states   service.StateStore
	users    *stubUserRepo
	albums   *stubAlbumRepo
	images   *stubImageRepo
	storage  *stubStorage
	sender   *stubSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	users := newStubUserRepo()
	albums := newStubAlbumRepo()
	images := newStubImageRepo()
	storage := newStubStorage()
	sender := &stubSender{}
	provider := &fakeProvider{profile: oauth.Profile{
		Email:   "ana@example.com",
		Name:    "Ana",
		Picture: "https://lh3.example.com/ana.png",
	}}

	tokens := service.NewTokenService("test-secret", time.Hour)
	states := service.NewMemoryStateStore()
	userServ := service.NewUserService(logger, users)
	albumServ := service.NewAlbumService(logger, albums, users, images, storage, sender)
	imageServ := service.NewImageService(logger, images, albums, storage)

	authH := NewAuthHandler(logger, provider, userServ, tokens, states, testFrontendURL)
	albumH := NewAlbumHandler(logger, albumServ, userServ)
	imageH := NewImageHandler(logger, imageServ)

	return &fixture{
		router:   NewRouter(logger, tokens, authH, albumH, imageH, []string{testFrontendURL}),
		provider: provider,
		tokens:   tokens,
		states:   states,
		users:    users,
		albums:   albums,
		images:   images,
		storage:  storage,
		sender:   sender,
	}
}

// sessionCookie registra un usuario y devuelve una cookie de sesión valida.
func (f *fixture) sessionCookie(t *testing.T, email string) (*http.Cookie, domain.User) {
	t.Helper()
	user, err := f.users.Upsert(context.Background(), domain.User{
		Email:    email,
		Name:     "Test User",
		Provider: "google",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := f.tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return &http.Cookie{Name: SessionCookieName, Value: token}, user
}
