package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

const sessionsIndexKey = "wizard:sessions"

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
	// TTL expires idle sessions; zero keeps them forever
	TTL time.Duration
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
	ttl          time.Duration
}

// NewRedisRepository creates a new Redis-backed snapshot repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = SystemClock()
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: timeProvider,
		ttl:          cfg.TTL,
	}
}

// key generates the Redis key for a session snapshot
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("wizard:session:%s", id)
}

// Create stores a new snapshot
func (r *redisRepo) Create(ctx context.Context, snapshot *Snapshot) error {
	if err := checkSnapshot(snapshot); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(snapshot.ID)).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check snapshot existence").
			WithMeta("session_id", snapshot.ID)
	}
	if exists > 0 {
		return alreadyExists(snapshot.ID)
	}

	now := r.timeProvider.Now()
	snapshot.CreatedAt = now
	snapshot.UpdatedAt = now

	return r.set(ctx, snapshot)
}

// Get retrieves a snapshot by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*Snapshot, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to get snapshot from Redis: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot data: %w", err)
	}

	return fromData(&data), nil
}

// Update replaces an existing snapshot, keeping its creation time
func (r *redisRepo) Update(ctx context.Context, snapshot *Snapshot) error {
	if err := checkSnapshot(snapshot); err != nil {
		return err
	}

	existing, err := r.Get(ctx, snapshot.ID)
	if err != nil {
		return err
	}

	snapshot.CreatedAt = existing.CreatedAt
	snapshot.UpdatedAt = r.timeProvider.Now()

	return r.set(ctx, snapshot)
}

// Delete removes a snapshot and its index entry
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, sessionsIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete snapshot from Redis: %w", err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}

	return nil
}

// List returns every indexed snapshot. Index entries whose key has expired
// are dropped from the index.
func (r *redisRepo) List(ctx context.Context) ([]*Snapshot, error) {
	ids, err := r.client.SMembers(ctx, sessionsIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session index from Redis: %w", err)
	}
	if len(ids) == 0 {
		return []*Snapshot{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, r.key(id))
	}
	// redis.Nil for expired keys is handled per command below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get snapshots from Redis: %w", err)
	}

	result := make([]*Snapshot, 0, len(ids))
	var expired []any
	for i, cmd := range cmds {
		raw, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			expired = append(expired, ids[i])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get snapshot %s: %w", ids[i], err)
		}

		var data Data
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", ids[i], err)
		}
		result = append(result, fromData(&data))
	}

	if len(expired) > 0 {
		if err := r.client.SRem(ctx, sessionsIndexKey, expired...).Err(); err != nil {
			log.Printf("failed to prune %d expired sessions from index: %v", len(expired), err)
		}
	}

	sortByCreated(result)
	return result, nil
}

func (r *redisRepo) set(ctx context.Context, snapshot *Snapshot) error {
	raw, err := json.Marshal(toData(snapshot))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot data: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(snapshot.ID), string(raw), r.ttl)
	pipe.SAdd(ctx, sessionsIndexKey, snapshot.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot in Redis: %w", err)
	}

	return nil
}
