package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fundilink/models"

	"github.com/go-redis/redis/v8"
)

// ContextTTL bounds how long an idle conversation survives in the store. An
// abandoned flow simply ages out instead of lingering forever.
const ContextTTL = 30 * time.Minute

const contextKeyPrefix = "wa:ctx:"

// ErrVersionConflict is returned by CompareAndSwap when the stored context was
// modified since it was read.
var ErrVersionConflict = errors.New("conversation context was modified concurrently")

// ContextStore persists per-sender conversation state across process restarts
// and concurrently handling instances.
type ContextStore interface {
	// Get returns the stored context for a phone number, or (nil, nil) when
	// none exists.
	Get(ctx context.Context, phone string) (*models.ConversationContext, error)
	// Put writes the context unconditionally, bumping its version.
	Put(ctx context.Context, convCtx *models.ConversationContext) error
	// CompareAndSwap writes the context only if the stored version still
	// matches convCtx.Version, then bumps it. Returns ErrVersionConflict on a
	// concurrent modification.
	CompareAndSwap(ctx context.Context, convCtx *models.ConversationContext) error
}

// RedisContextStore implements ContextStore on a dedicated Redis database.
type RedisContextStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisContextStore(client *redis.Client) *RedisContextStore {
	return &RedisContextStore{Client: client, TTL: ContextTTL}
}

func (s *RedisContextStore) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return ContextTTL
}

func contextKey(phone string) string {
	return contextKeyPrefix + phone
}

func (s *RedisContextStore) Get(ctx context.Context, phone string) (*models.ConversationContext, error) {
	raw, err := s.Client.Get(ctx, contextKey(phone)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation context: %w", err)
	}
	var convCtx models.ConversationContext
	if err := json.Unmarshal([]byte(raw), &convCtx); err != nil {
		return nil, fmt.Errorf("failed to decode conversation context: %w", err)
	}
	return &convCtx, nil
}

func (s *RedisContextStore) Put(ctx context.Context, convCtx *models.ConversationContext) error {
	convCtx.Version++
	convCtx.UpdatedAt = time.Now()
	payload, err := json.Marshal(convCtx)
	if err != nil {
		return fmt.Errorf("failed to encode conversation context: %w", err)
	}
	if err := s.Client.Set(ctx, contextKey(convCtx.Phone), payload, s.ttl()).Err(); err != nil {
		return fmt.Errorf("failed to store conversation context: %w", err)
	}
	return nil
}

// CompareAndSwap uses WATCH so that a concurrent write to the same key between
// read and write aborts the transaction.
func (s *RedisContextStore) CompareAndSwap(ctx context.Context, convCtx *models.ConversationContext) error {
	key := contextKey(convCtx.Phone)

	err := s.Client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to load conversation context: %w", err)
		}
		if err != redis.Nil {
			var stored models.ConversationContext
			if decodeErr := json.Unmarshal([]byte(raw), &stored); decodeErr != nil {
				return fmt.Errorf("failed to decode conversation context: %w", decodeErr)
			}
			if stored.Version != convCtx.Version {
				return ErrVersionConflict
			}
		} else if convCtx.Version != 0 {
			// The context expired underneath us.
			return ErrVersionConflict
		}

		next := *convCtx
		next.Version = convCtx.Version + 1
		next.UpdatedAt = time.Now()
		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("failed to encode conversation context: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl())
			return nil
		})
		return err
	}, key)

	if err == redis.TxFailedErr {
		return ErrVersionConflict
	}
	if err != nil {
		return err
	}
	convCtx.Version++
	convCtx.UpdatedAt = time.Now()
	return nil
}
