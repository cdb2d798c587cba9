package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAPI is the part of the go-redis client the queue uses.
type RedisAPI interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// NewRedisClient connects to the server named by a redis:// URL and pings it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisQueue is a FIFO on a Redis list: LPUSH to enqueue, BRPOP to dequeue.
type RedisQueue struct {
	rdb RedisAPI
	key string
}

var (
	_ Queue    = (*RedisQueue)(nil)
	_ Consumer = (*RedisQueue)(nil)
)

// NewRedisQueue creates a queue on the list at key.
func NewRedisQueue(rdb RedisAPI, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

// Enqueue pushes task as JSON.
func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", q.key, err)
	}
	return nil
}

// Dequeue pops the oldest task, blocking up to wait.
func (q *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (Task, error) {
	res, err := q.rdb.BRPop(ctx, wait, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return Task{}, ErrEmpty
	}
	if err != nil {
		return Task{}, fmt.Errorf("brpop %s: %w", q.key, err)
	}
	if len(res) != 2 {
		return Task{}, fmt.Errorf("brpop %s: unexpected reply %v", q.key, res)
	}

	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	return task, nil
}
