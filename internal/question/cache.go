package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/scoring"
)

const defaultCacheTTL = 5 * time.Minute

// KeyCache caches quiz answer keys. Get returns nil, nil on a miss.
type KeyCache interface {
	Get(ctx context.Context, quizID uuid.UUID) ([]scoring.Key, error)
	Set(ctx context.Context, quizID uuid.UUID, keys []scoring.Key) error
	Invalidate(ctx context.Context, quizID uuid.UUID) error
}

// Cache provides a Redis-backed answer key cache to offload attempt scoring from Postgres.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ KeyCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(quizID uuid.UUID) string {
	return "answerkey:" + quizID.String()
}

func (c *Cache) Get(ctx context.Context, quizID uuid.UUID) ([]scoring.Key, error) {
	data, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var keys []scoring.Key
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *Cache) Set(ctx context.Context, quizID uuid.UUID, keys []scoring.Key) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(quizID), data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, quizID uuid.UUID) error {
	return c.client.Del(ctx, c.key(quizID)).Err()
}

// KeyStore reads a quiz's answer key from durable storage.
type KeyStore interface {
	ListAnswerKey(ctx context.Context, quizID uuid.UUID) ([]scoring.Key, error)
}

// AnswerKeys loads answer keys cache-aside. Cache failures are logged and bypassed.
type AnswerKeys struct {
	store  KeyStore
	cache  KeyCache
	logger zerolog.Logger
}

func NewAnswerKeys(store KeyStore, cache KeyCache, logger zerolog.Logger) *AnswerKeys {
	return &AnswerKeys{
		store:  store,
		cache:  cache,
		logger: logger.With().Str("component", "answer_keys").Logger(),
	}
}

func (a *AnswerKeys) Load(ctx context.Context, quizID uuid.UUID) ([]scoring.Key, error) {
	if a.cache != nil {
		keys, err := a.cache.Get(ctx, quizID)
		if err != nil {
			a.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("answer key cache read failed")
		} else if keys != nil {
			return keys, nil
		}
	}

	keys, err := a.store.ListAnswerKey(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	if keys == nil {
		keys = []scoring.Key{}
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, quizID, keys); err != nil {
			a.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("answer key cache write failed")
		}
	}
	return keys, nil
}

// Invalidate drops the cached key after the quiz's questions change.
func (a *AnswerKeys) Invalidate(ctx context.Context, quizID uuid.UUID) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Invalidate(ctx, quizID); err != nil {
		a.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("answer key cache invalidation failed")
	}
}
