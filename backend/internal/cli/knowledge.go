package cli

import (
	"fmt"

	"pung-bot/backend/internal/store"

	"github.com/spf13/cobra"
)

func newKnowledgeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "List, add and search learned pung.io knowledge",
	}
	cmd.AddCommand(newKnowledgeListCmd(opts), newKnowledgeAddCmd(opts), newKnowledgeSearchCmd(opts))
	return cmd
}

func newKnowledgeListCmd(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print learned knowledge as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(db *store.Database) error {
				all := db.AllKnowledge()
				var out any
				switch category {
				case "":
					out = all
				case store.CategorySkins:
					out = all.Skins
				case store.CategoryAbilities:
					out = all.Abilities
				case store.CategoryStats:
					out = all.Stats
				case store.CategoryGeneral:
					out = all.General
				case store.CategoryTips:
					out = all.Tips
				default:
					return fmt.Errorf("%w: %s", store.ErrUnknownCategory, category)
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this category")
	return cmd
}

func newKnowledgeAddCmd(opts *options) *cobra.Command {
	var (
		entry   store.Entry
		addedBy string
	)
	cmd := &cobra.Command{
		Use:   "add <category> [name]",
		Short: "Teach a fact; tips take their text from --text",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return opts.withDatabase(cmd.Context(), func(db *store.Database) error {
				if err := db.AddKnowledge(args[0], name, entry, addedBy); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "learned %s %s\n", args[0], name)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&entry.Price, "price", "", "Skin price")
	cmd.Flags().StringVar(&entry.Cost, "cost", "", "Ability cost")
	cmd.Flags().StringVar(&entry.Description, "description", "", "Description")
	cmd.Flags().StringVar(&entry.Info, "info", "", "Free-form info")
	cmd.Flags().StringVar(&entry.Text, "text", "", "Tip text")
	cmd.Flags().StringVar(&addedBy, "by", "pungctl", "Recorded author")
	return cmd
}

func newKnowledgeSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search learned knowledge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(db *store.Database) error {
				results := db.SearchKnowledge(args[0])
				if results == nil {
					results = []store.SearchResult{}
				}
				return printJSON(cmd.OutOrStdout(), results)
			})
		},
	}
}
