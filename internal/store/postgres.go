package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"intent-insights/internal/common/database"
)

// PostgresStore keeps one table per collection with the document in a JSONB
// column. Ids come from gen_random_uuid().
type PostgresStore struct {
	client *database.PostgresClient
}

func NewPostgresStore(client *database.PostgresClient) *PostgresStore {
	return &PostgresStore{client: client}
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

func (s *PostgresStore) Close() error { return s.client.Close() }

// Migrate creates the collection table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context, collection string) error {
	table := pq.QuoteIdentifier(collection)
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC)`,
			pq.QuoteIdentifier(collection+"_created_at_idx"), table),
	}
	for _, stmt := range stmts {
		if _, err := s.client.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", collection, err)
		}
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, doc interface{}) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", ErrWriteFailed, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (document) VALUES ($1) RETURNING id`, pq.QuoteIdentifier(collection))

	var id string
	if err := s.client.DB.QueryRowContext(ctx, query, body).Scan(&id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, pq.QuoteIdentifier(collection))

	var body []byte
	err := s.client.DB.QueryRowContext(ctx, query, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal(body, out)
}
