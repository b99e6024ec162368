package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/graphwalk/store"
)

// RedisRunStore implements store.RunStore using Redis
type RedisRunStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "graphwalk:"
	TTL      time.Duration // Expiration for records, default 0 (no expiration)
}

// NewRedisRunStore creates a new Redis run store
func NewRedisRunStore(opts RedisOptions) *RedisRunStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "graphwalk:"
	}

	return &RedisRunStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// Close closes the underlying client
func (s *RedisRunStore) Close() error {
	return s.client.Close()
}

func (s *RedisRunStore) recordKey(id string) string {
	return fmt.Sprintf("%srun:%s", s.prefix, id)
}

func (s *RedisRunStore) sessionKey(id string) string {
	return fmt.Sprintf("%ssession:%s:runs", s.prefix, id)
}

// Save stores a record and indexes it under its session
func (s *RedisRunStore) Save(ctx context.Context, record *store.RunRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.recordKey(record.ID), data, s.ttl)

	if record.SessionID != "" {
		sessKey := s.sessionKey(record.SessionID)
		pipe.SAdd(ctx, sessKey, record.ID)
		if s.ttl > 0 {
			pipe.Expire(ctx, sessKey, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run record to redis: %w", err)
	}
	return nil
}

// Load retrieves a record by ID
func (s *RedisRunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	data, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run record from redis: %w", err)
	}

	var record store.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}

// List returns all records of a session, oldest first
func (s *RedisRunStore) List(ctx context.Context, sessionID string) ([]*store.RunRecord, error) {
	ids, err := s.client.SMembers(ctx, s.sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list run records for session %s: %w", sessionID, err)
	}

	records := []*store.RunRecord{}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}

	// MGet returns nil for keys that have expired since they were indexed.
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run records: %w", err)
	}

	for _, result := range results {
		data, ok := result.(string)
		if !ok {
			continue
		}

		var record store.RunRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	store.SortByTimestamp(records)
	return records, nil
}

// Delete removes a record and its session index entry
func (s *RedisRunStore) Delete(ctx context.Context, id string) error {
	record, err := s.Load(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.recordKey(id))
	if record.SessionID != "" {
		pipe.SRem(ctx, s.sessionKey(record.SessionID), id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records of a session
func (s *RedisRunStore) Clear(ctx context.Context, sessionID string) error {
	sessKey := s.sessionKey(sessionID)
	ids, err := s.client.SMembers(ctx, sessKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get run records for clearing: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.recordKey(id))
	}
	pipe.Del(ctx, sessKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear run records: %w", err)
	}
	return nil
}
