package store

import (
	"context"
	"errors"
	"fmt"

	"pung-bot/backend/pkg/config"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrNotFound is returned by Load when a document has never been saved
var ErrNotFound = errors.New("document not found")

// DocumentStore persists whole JSON documents by name
type DocumentStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}

// Open builds the document store selected by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config) (DocumentStore, error) {
	switch cfg.StoreBackend {
	case config.StoreFile, "":
		return NewFileStore(cfg.DataDir)
	case config.StoreSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.StoreNeo4j:
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			_ = driver.Close(ctx)
			return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
		}
		return NewNeo4jStore(ctx, driver)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
