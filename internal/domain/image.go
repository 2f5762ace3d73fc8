package domain

import "time"

type Image struct {
	ID         string    `json:"id"`
	AlbumID    string    `json:"album_id"`
	ObjectKey  string    `json:"-"`
	ImageURL   string    `json:"image_url"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Tags       []string  `json:"tags"`
	Person     string    `json:"person,omitempty"`
	IsFavorite bool      `json:"is_favorite"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Comment struct {
	ID          string    `json:"id"`
	ImageID     string    `json:"image_id"`
	Body        string    `json:"body"`
	CommentedBy string    `json:"commented_by"`
	CommentedAt time.Time `json:"commented_at"`
}
