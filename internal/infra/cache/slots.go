package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss возвращается, когда записи по ключу нет
var ErrCacheMiss = errors.New("slots.cache: cache miss")

// SlotCache кэш свободных слотов в Redis с коротким TTL.
// Слоты пересчитываются при каждом изменении расписания, поэтому TTL
// держится малым и кэш носит строго вспомогательный характер.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotCache создает кэш слотов поверх Redis
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

// Key строит ключ кэша для запроса свободных слотов
func Key(locationID, serviceID, date string, staffID *string) string {
	staff := "any"
	if staffID != nil {
		staff = *staffID
	}
	return fmt.Sprintf("slots:%s:%s:%s:%s", locationID, serviceID, date, staff)
}

// Get читает закэшированное значение по ключу и десериализует его в dest
func (c *SlotCache) Get(ctx context.Context, key string, dest interface{}) error {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("slots.cache: get %q: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("slots.cache: unmarshal %q: %w", key, err)
	}
	return nil
}

// Set сериализует значение и сохраняет его с настроенным TTL
func (c *SlotCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("slots.cache: marshal %q: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("slots.cache: set %q: %w", key, err)
	}
	return nil
}

// InvalidateResource удаляет закэшированные слоты, затронутые изменением
// расписания по паре услуга-локация
func (c *SlotCache) InvalidateResource(ctx context.Context, locationID, serviceID string) error {
	pattern := fmt.Sprintf("slots:%s:%s:*", locationID, serviceID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("slots.cache: scan %q: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("slots.cache: delete %d keys: %w", len(keys), err)
	}
	return nil
}
