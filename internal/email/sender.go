package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para avisos de album compartido.
type Sender interface {
	SendAlbumShared(ctx context.Context, toEmail, albumName, sharedBy string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendAlbumShared(_ context.Context, _ string, _ string, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
