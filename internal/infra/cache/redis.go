package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "slotengine:mirror:"

// Redis зеркало, общее для нескольких экземпляров сервиса
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает клиента и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrCache, addr, err)
	}
	return client, nil
}

// NewRedis создает зеркало поверх клиента
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func redisKey(key Key) string {
	return redisKeyPrefix + key.String()
}

// Get читает снимок; отсутствие ключа не ошибка
func (r *Redis) Get(ctx context.Context, key Key) (*Snapshot, bool, error) {
	data, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrCache, key, err)
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

// Put записывает снимок целиком одной командой
func (r *Redis) Put(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrCache, snapshot.Key, err)
	}

	if err := r.client.Set(ctx, redisKey(snapshot.Key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCache, snapshot.Key, err)
	}
	return nil
}

// Invalidate удаляет снимок
func (r *Redis) Invalidate(ctx context.Context, key Key) error {
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrCache, key, err)
	}
	return nil
}

// Close закрывает соединение
func (r *Redis) Close() error {
	return r.client.Close()
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &snapshot, nil
}
