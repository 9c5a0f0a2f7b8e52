package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis реализует DraftStore в памяти через конструкторы команд go-redis
type fakeRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStatusCmd(ctx)
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	default:
		cmd.SetErr(assert.AnError)
		return cmd
	}
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	if data, ok := f.data[key]; ok {
		cmd.SetVal(string(data))
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	var deleted int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			delete(f.ttls, key)
			deleted++
		}
	}
	cmd.SetVal(deleted)
	return cmd
}

func (f *fakeRedis) TTL(ctx context.Context, key string) *redis.DurationCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewDurationCmd(ctx, time.Second)
	if ttl, ok := f.ttls[key]; ok {
		cmd.SetVal(ttl)
	} else {
		cmd.SetVal(-2 * time.Second)
	}
	return cmd
}

func TestDraftSaveGet(t *testing.T) {
	store := newFakeRedis()
	svc := NewDraftService(store, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, 100, 1, 3, map[string]any{"name": "Ivan"}))

	draft, err := svc.Get(ctx, 100, 1)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, int64(3), draft.TemplateID)
	assert.Equal(t, "Ivan", draft.Answers["name"])
	assert.Equal(t, int64((24 * time.Hour).Seconds()), draft.TTLSeconds)
	assert.False(t, draft.UpdatedAt.IsZero())
}

func TestDraftGetMissing(t *testing.T) {
	svc := NewDraftService(newFakeRedis(), time.Hour)

	draft, err := svc.Get(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestDraftSaveLastWriterWins(t *testing.T) {
	store := newFakeRedis()
	svc := NewDraftService(store, time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, 100, 1, 3, map[string]any{"name": "Ivan"}))
	require.NoError(t, svc.Save(ctx, 100, 1, 3, map[string]any{"name": "Petr"}))

	draft, err := svc.Get(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, "Petr", draft.Answers["name"])
}

func TestDraftKeysIsolatedByUserAndFaculty(t *testing.T) {
	store := newFakeRedis()
	svc := NewDraftService(store, time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, 100, 1, 3, map[string]any{"name": "Ivan"}))
	require.NoError(t, svc.Save(ctx, 100, 2, 4, map[string]any{"name": "Petr"}))

	draft, err := svc.Get(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", draft.Answers["name"])

	other, err := svc.Get(ctx, 101, 1)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestDraftDelete(t *testing.T) {
	store := newFakeRedis()
	svc := NewDraftService(store, time.Hour)
	ctx := context.Background()

	// Удаление отсутствующего черновика — не ошибка
	deleted, err := svc.Delete(ctx, 100, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, svc.Save(ctx, 100, 1, 3, map[string]any{}))

	deleted, err = svc.Delete(ctx, 100, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	draft, err := svc.Get(ctx, 100, 1)
	require.NoError(t, err)
	assert.Nil(t, draft)
}
