package session

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-engine/internal/redis"
)

const (
	// Key pattern: session:{id}
	sessionKeyPrefix = "session:"
	sessionIndexKey  = "sessions"
)

// RedisConfig holds the dependencies for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a Redis-backed repository
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Save stores the snapshot and adds it to the index
func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Snapshot == nil {
		return nil, errors.InvalidArgument(errSnapshotNil)
	}
	if input.Snapshot.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	snap := *input.Snapshot
	snap.SavedAt = r.clock.Now().UTC()
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}

	data, err := json.Marshal(&snap)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session %s", snap.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.buildKey(snap.ID), data, 0)
	pipe.SAdd(ctx, sessionIndexKey, snap.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store session %s in Redis", snap.ID)
	}

	return &SaveOutput{Snapshot: &snap}, nil
}

// Get loads a snapshot by id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	data, err := r.client.Get(ctx, r.buildKey(input.ID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get session %s from Redis", input.ID)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal session")
	}

	return &GetOutput{Snapshot: &snap}, nil
}

// Delete removes a snapshot and its index entry
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.buildKey(input.ID))
	pipe.SRem(ctx, sessionIndexKey, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete session %s from Redis", input.ID)
	}
	if del.Val() == 0 {
		return nil, errors.NotFoundf("session %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

// List returns summaries of every indexed snapshot
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list sessions from Redis")
	}
	sort.Strings(ids)

	out := &ListOutput{Sessions: make([]Summary, 0, len(ids))}
	for _, id := range ids {
		got, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out.Sessions = append(out.Sessions, summarize(got.Snapshot))
	}

	return out, nil
}

// buildKey creates the Redis key for a session
func (r *redisRepository) buildKey(id string) string {
	return sessionKeyPrefix + id
}
