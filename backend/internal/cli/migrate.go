package cli

import (
	"context"
	"errors"
	"fmt"

	"pung-bot/backend/internal/constants"
	"pung-bot/backend/internal/store"
	"pung-bot/backend/pkg/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *options) *cobra.Command {
	var target options
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every document from the configured store to another backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := opts.config()
			if err != nil {
				return err
			}
			to, err := target.overlay(from)
			if err != nil {
				return err
			}
			if from.StoreBackend == to.StoreBackend && from.DataDir == to.DataDir &&
				from.SQLitePath == to.SQLitePath && from.Neo4jURI == to.Neo4jURI {
				return errors.New("source and target store are the same")
			}

			ctx := cmd.Context()
			src, err := store.Open(ctx, from)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer src.Close()
			dst, err := store.Open(ctx, to)
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer dst.Close()

			copied, err := copyDocuments(ctx, src, dst)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "copied %d documents from %s to %s\n",
				copied, from.StoreBackend, to.StoreBackend)
			return err
		},
	}
	cmd.Flags().StringVar(&target.storeBackend, "to", "", "Target backend: file, sqlite or neo4j")
	cmd.Flags().StringVar(&target.dataDir, "to-data-dir", "", "Target file store directory")
	cmd.Flags().StringVar(&target.sqlitePath, "to-sqlite", "", "Target SQLite path")
	cmd.Flags().StringVar(&target.neo4jURI, "to-neo4j-uri", "", "Target Neo4j URI")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// overlay applies the target flags on top of the source configuration
func (o *options) overlay(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.StoreBackend = o.storeBackend
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
	return &cfg, nil
}

// copyDocuments moves each persisted document byte for byte. Documents the
// source never saved are skipped.
func copyDocuments(ctx context.Context, src, dst store.DocumentStore) (int, error) {
	copied := 0
	for _, name := range constants.Documents {
		data, err := src.Load(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("load %s: %w", name, err)
		}
		if err := dst.Save(ctx, name, data); err != nil {
			return copied, fmt.Errorf("save %s: %w", name, err)
		}
		copied++
	}
	return copied, nil
}
