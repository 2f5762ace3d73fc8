package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 5 * time.Minute

// StateStore guarda states de OAuth de un solo uso con TTL.
// Un state consumido o vencido no vuelve a aceptarse.
type StateStore interface {
	Put(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}

// NewState genera un state aleatorio para el flujo de autorizacion.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type memoryStateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{
		items: make(map[string]time.Time),
	}
}

func (s *memoryStateStore) Put(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(state) == "" {
		return nil
	}
	s.items[state] = time.Now().UTC().Add(stateTTL)
	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false, nil
	}
	delete(s.items, state)
	if time.Now().UTC().After(exp) {
		return false, nil
	}
	return true, nil
}

type redisStateStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStateStore(client *redis.Client) StateStore {
	if client == nil {
		return NewMemoryStateStore()
	}
	return &redisStateStore{
		client: client,
		prefix: "oauth_state:",
	}
}

func (s *redisStateStore) Put(ctx context.Context, state string) error {
	if strings.TrimSpace(state) == "" {
		return nil
	}
	return s.client.Set(ctx, s.prefix+state, "1", stateTTL).Err()
}

func (s *redisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, s.prefix+state).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
