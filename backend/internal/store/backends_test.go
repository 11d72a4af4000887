package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseDocumentStore(t *testing.T, s DocumentStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "memories", []byte(`{"a":1}`)))
	require.NoError(t, s.Save(ctx, "memories", []byte(`{"a":2}`)))

	data, err := s.Load(ctx, "memories")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()

	exerciseDocumentStore(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "memories.json", entries[0].Name())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "pung.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseDocumentStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pung.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "community", []byte(`{"games":{}}`)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Load(ctx, "community")
	require.NoError(t, err)
	assert.JSONEq(t, `{"games":{}}`, string(data))
}

// TestNeo4jStore requires a running Neo4j instance
func TestNeo4jStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set")
	}

	ctx := context.Background()
	driver, err := neo4j.NewDriverWithContext(uri,
		neo4j.BasicAuth(os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"), ""))
	require.NoError(t, err)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}

	s, err := NewNeo4jStore(ctx, driver)
	require.NoError(t, err)
	defer s.Close()

	exerciseDocumentStore(t, s)
}

type failingSession struct {
	neo4j.SessionWithContext
}

func (failingSession) Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error) {
	return nil, errors.New("constraint rejected")
}

func (failingSession) Close(ctx context.Context) error { return nil }

type closeCountingDriver struct {
	neo4j.DriverWithContext
	closed int
}

func (d *closeCountingDriver) NewSession(ctx context.Context, config neo4j.SessionConfig) neo4j.SessionWithContext {
	return failingSession{}
}

func (d *closeCountingDriver) Close(ctx context.Context) error {
	d.closed++
	return nil
}

func TestNewNeo4jStore_ClosesDriverOnSetupFailure(t *testing.T) {
	driver := &closeCountingDriver{}

	s, err := NewNeo4jStore(context.Background(), driver)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "constraint rejected")
	assert.Equal(t, 1, driver.closed)
}
