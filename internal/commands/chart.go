package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/cashbook/internal/accounts"
)

func newExportCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Write the chart of accounts to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, false, func(p *project) error {
				svc := accounts.NewService(p.book)
				if err := svc.Save(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d accounts to %s\n", len(p.book.Accounts()), args[0])
				return nil
			})
		},
	}
}

func newImportCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create the accounts listed in a chart-of-accounts CSV",
		Long: "Create the accounts listed in a chart-of-accounts CSV. Parents must be listed\n" +
			"before their children. Nothing is saved if any row fails.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				created, err := accounts.NewService(p.book).Load(args[0])
				if err != nil {
					return err
				}
				p.log.Info("chart imported", zap.String("file", args[0]), zap.Int("accounts", len(created)))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", len(created))
				return nil
			})
		},
	}
}
