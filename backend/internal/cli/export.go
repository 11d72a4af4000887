package cli

import (
	"fmt"
	"slices"

	"pung-bot/backend/internal/constants"
	"pung-bot/backend/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "export <document>",
		Short:     "Print a stored document (memories, analytics or community)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: constants.Documents,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !slices.Contains(constants.Documents, name) {
				return fmt.Errorf("unknown document %q", name)
			}
			return opts.withDatabase(cmd.Context(), func(db *store.Database) error {
				data, err := db.Export(name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	}
}
