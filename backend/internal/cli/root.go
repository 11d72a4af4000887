// Package cli implements pungctl, the offline admin tool. It works on the
// store directly, so run it while the bot is stopped.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"pung-bot/backend/internal/store"
	"pung-bot/backend/pkg/config"

	"github.com/spf13/cobra"
)

type options struct {
	storeBackend string
	dataDir      string
	sqlitePath   string
	neo4jURI     string
}

// NewRootCmd builds the pungctl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "pungctl",
		Short:         "Inspect and maintain the pung.io bot's stored documents",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&opts.storeBackend, "store", "", "Store backend: file, sqlite or neo4j (default: $STORE_BACKEND)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory of the file store (default: $DATA_DIR)")
	root.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database path (default: $SQLITE_PATH)")
	root.PersistentFlags().StringVar(&opts.neo4jURI, "neo4j-uri", "", "Neo4j URI (default: $NEO4J_URI)")

	root.AddCommand(
		newKnowledgeCmd(opts),
		newMemoryCmd(opts),
		newExportCmd(opts),
		newMigrateCmd(opts),
	)
	return root
}

// config resolves the environment and applies flag overrides
func (o *options) config() (*config.Config, error) {
	cfg := config.FromEnv()
	if o.storeBackend != "" {
		cfg.StoreBackend = o.storeBackend
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.sqlitePath != "" {
		cfg.SQLitePath = o.sqlitePath
	}
	if o.neo4jURI != "" {
		cfg.Neo4jURI = o.neo4jURI
	}
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withDatabase opens the configured store, runs fn and flushes on the way out
func (o *options) withDatabase(ctx context.Context, fn func(db *store.Database) error) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	docs, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	db := store.NewDatabase(ctx, docs)

	runErr := fn(db)
	if err := db.Close(ctx); err != nil && runErr == nil {
		return fmt.Errorf("close store: %w", err)
	}
	return runErr
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
