package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "availability"
	generationKey = keyPrefix + ":generation"
)

// RedisClient часть redis.Cmdable, которой хватает кэшу
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// AvailabilityCache хранит ответы доступности в Redis.
// Ключи содержат номер поколения: создание события увеличивает его,
// и старые записи просто истекают по TTL
type AvailabilityCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewAvailabilityCache(client RedisClient, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// Generation возвращает текущее поколение кэша. Его читают один раз на запрос
// и передают в Get и Set, чтобы ответ не попал в поколение новее данных
func (c *AvailabilityCache) Generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("get cache generation: %w", err)
	}
	return generation, nil
}

func (c *AvailabilityCache) Get(ctx context.Context, generation int64, startsAt time.Time) ([]model.DayAvailability, bool, error) {
	data, err := c.client.Get(ctx, entryKey(generation, startsAt)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get availability from cache: %w", err)
	}

	var days []model.DayAvailability
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, false, fmt.Errorf("decode cached availability: %w", err)
	}

	return days, true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, generation int64, startsAt time.Time, days []model.DayAvailability) error {
	data, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}

	if err := c.client.Set(ctx, entryKey(generation, startsAt), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set availability to cache: %w", err)
	}
	return nil
}

// Invalidate делает все закэшированные ответы недоступными
func (c *AvailabilityCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("invalidate availability cache: %w", err)
	}
	return nil
}

func entryKey(generation int64, startsAt time.Time) string {
	return keyPrefix + ":" + strconv.FormatInt(generation, 10) + ":" + strconv.FormatInt(startsAt.Unix(), 10)
}
