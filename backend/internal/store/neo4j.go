package store

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore keeps each document as a (:Document {name, body, updated_at}) node
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jStore creates the uniqueness constraint and wraps the driver. The store
// owns the driver and closes it when setup fails.
func NewNeo4jStore(ctx context.Context, driver neo4j.DriverWithContext) (*Neo4jStore, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`CREATE CONSTRAINT document_name IF NOT EXISTS FOR (d:Document) REQUIRE d.name IS UNIQUE`, nil)
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to create document constraint: %w", err)
	}
	return &Neo4jStore{driver: driver}, nil
}

// Load reads a document body
func (s *Neo4jStore) Load(ctx context.Context, name string) ([]byte, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (d:Document {name: $name}) RETURN d.body AS body`,
		map[string]interface{}{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, ErrNotFound
	}

	body, _ := result.Record().Get("body")
	text, ok := body.(string)
	if !ok {
		return nil, fmt.Errorf("document %s has no body", name)
	}
	return []byte(text), nil
}

// Save merges the document node and replaces its body
func (s *Neo4jStore) Save(ctx context.Context, name string, data []byte) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MERGE (d:Document {name: $name})
		SET d.body = $body, d.updated_at = $updatedAt`,
		map[string]interface{}{
			"name":      name,
			"body":      string(data),
			"updatedAt": time.Now().UTC().Format(time.RFC3339Nano),
		})
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	_, err = result.Consume(ctx)
	return err
}

// Close closes the Neo4j driver connection
func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}
