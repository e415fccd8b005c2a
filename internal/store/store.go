// Package store persists insight documents. Every Add creates a new document
// with a store-assigned id; there is no deduplication.
package store

import (
	"context"
	"errors"
	"fmt"

	"intent-insights/internal/common/config"
	"intent-insights/internal/common/database"
	apperrors "intent-insights/internal/common/errors"
)

var (
	ErrNotFound    = errors.New("DOCUMENT_NOT_FOUND")
	ErrWriteFailed = errors.New("STORE_WRITE_FAILED")
)

// Store is a collection-oriented document store.
type Store interface {
	// Add writes doc as a new document and returns its id.
	Add(ctx context.Context, collection string, doc interface{}) (string, error)
	// Get decodes the document with the given id into out.
	Get(ctx context.Context, collection, id string, out interface{}) error
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

// Open connects the driver selected by cfg.Store.Driver. Client construction
// failures are reported as STORE_CONNECTION_FAILED.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, apperrors.NewStoreConnectionFailedError(cfg.Store.Driver, err)
		}
		return NewPostgresStore(pg), nil
	case "elasticsearch":
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, apperrors.NewStoreConnectionFailedError(cfg.Store.Driver, err)
		}
		return NewElasticsearchStore(es), nil
	case "redis":
		return NewRedisStore(database.NewRedis(cfg.Database.Redis)), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
