package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intent-insights/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAll_ReportsOnlyFailures(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rdb.Close()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(assert.AnError)
	pg := &PostgresClient{DB: db}

	failures := CheckAll(context.Background(), time.Second, rdb, pg, nil)

	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures["postgres"], assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElasticsearchPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, es.Ping(context.Background()))
	assert.Equal(t, "elasticsearch", es.Name())
}

func TestRedisPing_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	rdb := NewRedis(config.RedisConfig{Address: addr})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	assert.Error(t, rdb.Ping(ctx))
}

func TestNewElasticsearch_RequiresAddress(t *testing.T) {
	_, err := NewElasticsearch(config.ElasticsearchConfig{})
	assert.ErrorContains(t, err, "no addresses")
}
