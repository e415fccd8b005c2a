package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intent-insights/internal/common/config"
	"intent-insights/internal/common/database"
)

func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewRedisStore(database.NewRedis(config.RedisConfig{Address: mr.Addr()}))
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_AddCreatesDistinctDocuments(t *testing.T) {
	s, mr := newMiniredisStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()

	doc := map[string]interface{}{"summary": "same report"}
	id1, err := s.Add(ctx, "insights", doc)
	require.NoError(t, err)
	id2, err := s.Add(ctx, "insights", doc)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.True(t, mr.Exists("insights:"+id1))
	assert.True(t, mr.Exists("insights:"+id2))

	members, err := mr.ZMembers("insights:index")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{id1, id2}, members)

	score, err := mr.ZScore("insights:index", id1)
	require.NoError(t, err)
	assert.Equal(t, float64(1700000000000), score)
}

func TestRedisStore_Get(t *testing.T) {
	s, _ := newMiniredisStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "insights", map[string]string{"productName": "CRM"})
	require.NoError(t, err)

	var doc map[string]string
	require.NoError(t, s.Get(ctx, "insights", id, &doc))
	assert.Equal(t, "CRM", doc["productName"])

	assert.ErrorIs(t, s.Get(ctx, "insights", "nope", &doc), ErrNotFound)
}

func TestRedisStore_WriteFailure(t *testing.T) {
	s, mr := newMiniredisStore(t)
	mr.SetError("READONLY You can't write against a read only replica")

	_, err := s.Add(context.Background(), "insights", map[string]string{})
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestRedisStore_GetReadError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(&database.RedisClient{Client: db})

	mock.ExpectGet("insights:abc").SetErr(errors.New("i/o timeout"))

	var doc map[string]string
	err := s.Get(context.Background(), "insights", "abc", &doc)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "i/o timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
