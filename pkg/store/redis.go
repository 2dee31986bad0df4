package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every gateway entry in Redis.
const keyPrefix = "offcache"

// RedisStore implements Store on a Redis backend.
// All entries of one cache generation share the tag segment of their Redis
// key, which makes whole-version deletion a prefix scan.
type RedisStore struct {
	redis   *redis.Client
	version string
}

// NewRedisStore creates a store bound to the given version tag.
// The tag must not contain ':' (it is a key segment).
func NewRedisStore(redisClient *redis.Client, version string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if version == "" || strings.Contains(version, ":") {
		panic(fmt.Sprintf("invalid version tag %q", version))
	}
	return &RedisStore{
		redis:   redisClient,
		version: version,
	}
}

// Version returns the version tag this store instance is bound to.
func (s *RedisStore) Version() string {
	return s.version
}

func (s *RedisStore) redisKey(key Key) string {
	return keyPrefix + ":" + s.version + ":" + key.String()
}

// Get retrieves a snapshot by key.
// Returns ErrMiss if the key doesn't exist.
func (s *RedisStore) Get(ctx context.Context, key Key) (*Snapshot, error) {
	data, err := s.redis.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			StoreMisses.Inc()
			return nil, ErrMiss
		}
		StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	StoreHits.WithLabelValues("redis").Inc()
	return &snap, nil
}

// Put stores a snapshot without expiry; entries live until their version
// is dropped at rotation.
func (s *RedisStore) Put(ctx context.Context, key Key, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		StoreErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.redis.Set(ctx, s.redisKey(key), data, 0).Err(); err != nil {
		StoreErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	StoreSize.WithLabelValues("redis").Add(float64(len(data)))
	return nil
}

// Delete removes a single entry.
func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := s.redis.Del(ctx, s.redisKey(key)).Err(); err != nil {
		StoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Versions enumerates all version tags that currently hold entries,
// sorted for determinism.
func (s *RedisStore) Versions(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	iter := s.redis.Scan(ctx, 0, keyPrefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		// offcache:<tag>:<method>:<url>
		parts := strings.SplitN(iter.Val(), ":", 3)
		if len(parts) < 3 {
			continue
		}
		seen[parts[1]] = true
	}
	if err := iter.Err(); err != nil {
		StoreErrors.WithLabelValues("versions").Inc()
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return tags, nil
}

// Drop deletes every entry belonging to the given version tag.
func (s *RedisStore) Drop(ctx context.Context, version string) error {
	iter := s.redis.Scan(ctx, 0, keyPrefix+":"+version+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			StoreErrors.WithLabelValues("drop").Inc()
			return fmt.Errorf("redis del %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		StoreErrors.WithLabelValues("drop").Inc()
		return fmt.Errorf("redis scan: %w", err)
	}

	VersionsDropped.Inc()
	return nil
}

// Ping reports whether Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
