package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis models a single Redis list.
type fakeRedis struct {
	lists   map[string][]string
	pushErr error
}

func (f *fakeRedis) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.pushErr != nil {
		cmd.SetErr(f.pushErr)
		return cmd
	}
	for _, v := range values {
		f.lists[key] = append([]string{string(v.([]byte))}, f.lists[key]...)
	}
	cmd.SetVal(int64(len(f.lists[key])))
	return cmd
}

func (f *fakeRedis) BRPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx)
	for _, key := range keys {
		list := f.lists[key]
		if len(list) == 0 {
			continue
		}
		last := list[len(list)-1]
		f.lists[key] = list[:len(list)-1]
		cmd.SetVal([]string{key, last})
		return cmd
	}
	cmd.SetErr(redis.Nil)
	return cmd
}

func TestRedisQueueFIFO(t *testing.T) {
	ctx := context.Background()
	rdb := &fakeRedis{lists: map[string][]string{}}
	q := NewRedisQueue(rdb, "orceu:imports")

	require.NoError(t, q.Enqueue(ctx, Task{ImportID: "a", Kind: "analytics"}))
	require.NoError(t, q.Enqueue(ctx, Task{ImportID: "b", Kind: "markdown"}))

	var stored Task
	require.NoError(t, json.Unmarshal([]byte(rdb.lists["orceu:imports"][1]), &stored))
	assert.Equal(t, "a", stored.ImportID)

	first, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "a", first.ImportID)

	second, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "markdown", second.Kind)

	_, err = q.Dequeue(ctx, time.Second)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRedisQueueErrors(t *testing.T) {
	ctx := context.Background()
	rdb := &fakeRedis{lists: map[string][]string{"k": {"not json"}}, pushErr: errors.New("connection refused")}
	q := NewRedisQueue(rdb, "k")

	err := q.Enqueue(ctx, Task{ImportID: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lpush k")

	_, err = q.Dequeue(ctx, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode task")
}
