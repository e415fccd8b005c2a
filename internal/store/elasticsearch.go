package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"intent-insights/internal/common/database"
)

// ElasticsearchStore indexes each collection into an index of the same
// (lowercased) name and lets the cluster assign document ids.
type ElasticsearchStore struct {
	client *database.ElasticsearchClient
}

func NewElasticsearchStore(client *database.ElasticsearchClient) *ElasticsearchStore {
	return &ElasticsearchStore{client: client}
}

func (s *ElasticsearchStore) Name() string { return "elasticsearch" }

func (s *ElasticsearchStore) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

func (s *ElasticsearchStore) Close() error { return s.client.Close() }

func indexName(collection string) string {
	return strings.ToLower(collection)
}

func (s *ElasticsearchStore) Add(ctx context.Context, collection string, doc interface{}) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", ErrWriteFailed, err)
	}

	es := s.client.Client
	res, err := es.Index(
		indexName(collection),
		bytes.NewReader(body),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("%w: index %s: %s: %s", ErrWriteFailed, indexName(collection), res.Status(), strings.TrimSpace(string(msg)))
	}

	var indexed struct {
		ID string `json:"_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&indexed); err != nil {
		return "", fmt.Errorf("%w: decode index response: %v", ErrWriteFailed, err)
	}
	if indexed.ID == "" {
		return "", fmt.Errorf("%w: index response carried no _id", ErrWriteFailed)
	}
	return indexed.ID, nil
}

func (s *ElasticsearchStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	es := s.client.Client
	res, err := es.Get(indexName(collection), id, es.Get.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.IsError() {
		return fmt.Errorf("get %s/%s: %s", collection, id, res.Status())
	}

	var found struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&found); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	if !found.Found {
		return ErrNotFound
	}
	return json.Unmarshal(found.Source, out)
}
