package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisCodePrefix = "soratech:reset:"

// RedisCodeStore keeps pending codes in Redis so every storefront node sees
// the same state; TTL handles expiry.
type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(opts *redis.Options) *RedisCodeStore {
	return &RedisCodeStore{client: redis.NewClient(opts)}
}

func (s *RedisCodeStore) Put(ctx context.Context, email string, entry codeEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal reset entry: %w", err)
	}
	return s.client.Set(ctx, redisCodePrefix+email, data, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, email string) (codeEntry, error) {
	data, err := s.client.Get(ctx, redisCodePrefix+email).Bytes()
	if err == redis.Nil {
		return codeEntry{}, ErrCodeExpired
	}
	if err != nil {
		return codeEntry{}, err
	}
	var entry codeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return codeEntry{}, fmt.Errorf("decode reset entry: %w", err)
	}
	return entry, nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, redisCodePrefix+email).Err()
}

// MemoryCodeStore is the single-node fallback when Redis is not configured.
type MemoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryCodeEntry
}

type memoryCodeEntry struct {
	entry   codeEntry
	expires time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{entries: make(map[string]memoryCodeEntry)}
}

func (s *MemoryCodeStore) Put(ctx context.Context, email string, entry codeEntry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = memoryCodeEntry{entry: entry, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryCodeStore) Get(ctx context.Context, email string) (codeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	if !ok || time.Now().After(e.expires) {
		delete(s.entries, email)
		return codeEntry{}, ErrCodeExpired
	}
	return e.entry, nil
}

func (s *MemoryCodeStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
