package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"content-dashboard/internal/config"
	"content-dashboard/internal/dashboard"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyFmt = "dashboard:session:%s"

	errFailedPingRedisFmt    = "failed to ping redis: %w"
	errFailedSaveSessionFmt  = "failed to save session state: %w"
	errFailedLoadSessionFmt  = "failed to load session state: %w"
	errFailedCloseSessionFmt = "failed to close redis client: %w"
)

// SessionStore keeps per-session navigation-state blobs in Redis, keyed by
// session id and expiring with the session TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(cfg *config.RedisConfig) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf(errFailedPingRedisFmt, err)
	}

	return &SessionStore{client: client, ttl: cfg.SessionTTL}, nil
}

func (s *SessionStore) SaveState(ctx context.Context, sessionID string, state dashboard.DashboardState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf(errFailedSaveSessionFmt, err)
	}

	key := fmt.Sprintf(sessionKeyFmt, sessionID)
	if err := s.client.Set(ctx, key, blob, s.ttl).Err(); err != nil {
		return fmt.Errorf(errFailedSaveSessionFmt, err)
	}
	return nil
}

// LoadState returns (nil, nil) for an unknown session.
func (s *SessionStore) LoadState(ctx context.Context, sessionID string) (*dashboard.DashboardState, error) {
	key := fmt.Sprintf(sessionKeyFmt, sessionID)

	blob, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(errFailedLoadSessionFmt, err)
	}

	var state dashboard.DashboardState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf(errFailedLoadSessionFmt, err)
	}
	return &state, nil
}

func (s *SessionStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf(errFailedCloseSessionFmt, err)
	}
	return nil
}
