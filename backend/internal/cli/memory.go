package cli

import (
	"pung-bot/backend/internal/store"

	"github.com/spf13/cobra"
)

func newMemoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Show remembered facts about users and guilds",
	}

	user := &cobra.Command{
		Use:   "user <id>",
		Short: "Facts about a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(db *store.Database) error {
				return printJSON(cmd.OutOrStdout(), nonNil(db.UserMemory(args[0])))
			})
		},
	}

	var add string
	guild := &cobra.Command{
		Use:   "guild <id>",
		Short: "Facts about a guild, optionally adding one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(db *store.Database) error {
				if add != "" {
					db.AddServerMemory(args[0], add)
				}
				return printJSON(cmd.OutOrStdout(), nonNil(db.ServerMemory(args[0])))
			})
		},
	}
	guild.Flags().StringVar(&add, "add", "", "Fact to remember first")

	cmd.AddCommand(user, guild)
	return cmd
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
