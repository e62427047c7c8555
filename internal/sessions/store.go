package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "diary:session:" // Key per session: diary:session:{token}

// ErrSessionNotFound is returned when a token has no live session.
var ErrSessionNotFound = errors.New("session not found")

// Session is what a login stores and what the auth middleware resolves.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Store keeps sessions in Redis with a sliding expiry.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store. ttl bounds how long a cookie stays
// valid without a new login.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Create stores sess under a fresh opaque token and returns the token.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	token := uuid.New().String()

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Get resolves a token to its session and refreshes the expiry.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Sliding expiry: active users stay logged in. A failed refresh does
	// not invalidate the resolved session, but it must be visible when
	// sessions start dropping early.
	if err := s.client.Expire(ctx, s.key(token), s.ttl).Err(); err != nil {
		log.Printf("[warn] operation=refresh_session message=failed to extend session ttl error=%v", err)
	}

	return &sess, nil
}

// Delete ends the session. Deleting an unknown token is a no-op.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// TTL returns the configured session lifetime, used for cookie max-age.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) key(token string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, token)
}
