package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/cashbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "cashbook",
		Short:   "Double-entry account book backed by SQLite",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "project directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand(&dir))
	rootCmd.AddCommand(newCommodityCommand(&dir))
	rootCmd.AddCommand(newSplitCommand(&dir))
	rootCmd.AddCommand(newExportCommand(&dir))
	rootCmd.AddCommand(newImportCommand(&dir))

	return rootCmd
}
