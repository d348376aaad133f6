package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/lifebots/assistant-api/internal/models"
)

// contextKeyFormat is the storage key layout for per-user documents.
const contextKeyFormat = "user:%s:context"

// Store is the durable mapping from user identifier to context document.
// Absence of a document is a valid state: Get materializes the canonical
// default instead of failing, and the default is not persisted until the
// first write.
type Store interface {
	// Get returns the stored document for the user, or the canonical
	// default when none exists. The second return reports whether a stored
	// document was found.
	Get(ctx context.Context, userID string) (*models.UserContext, bool, error)

	// Set replaces the stored document wholesale. Last-writer-wins.
	Set(ctx context.Context, userID string, doc *models.UserContext) error

	// ForEachUser visits every user ID with a stored document.
	ForEachUser(ctx context.Context, fn func(userID string) error) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// RedisStore persists context documents as JSON values in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client, so the context store and
// the rate limiter can share one connection pool.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Client exposes the underlying Redis client for components that share it.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.UserContext, bool, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(contextKeyFormat, userID)).Bytes()
	if err == redis.Nil {
		return models.DefaultUserContext(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user context: %w", err)
	}

	doc := &models.UserContext{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal user context: %w", err)
	}
	return doc, true, nil
}

func (s *RedisStore) Set(ctx context.Context, userID string, doc *models.UserContext) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal user context: %w", err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf(contextKeyFormat, userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user context: %w", err)
	}
	return nil
}

func (s *RedisStore) ForEachUser(ctx context.Context, fn func(userID string) error) error {
	iter := s.client.Scan(ctx, 0, fmt.Sprintf(contextKeyFormat, "*"), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		userID := strings.TrimSuffix(strings.TrimPrefix(key, "user:"), ":context")
		if userID == "" || userID == key {
			continue
		}
		if err := fn(userID); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan user contexts: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is an in-process Store used by tests and degraded local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*models.UserContext, bool, error) {
	s.mu.RLock()
	data, ok := s.docs[userID]
	s.mu.RUnlock()

	if !ok {
		return models.DefaultUserContext(), false, nil
	}
	doc := &models.UserContext{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal user context: %w", err)
	}
	return doc, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, userID string, doc *models.UserContext) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal user context: %w", err)
	}
	s.mu.Lock()
	s.docs[userID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ForEachUser(ctx context.Context, fn func(userID string) error) error {
	s.mu.RLock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
