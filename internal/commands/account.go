package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/cashbook/internal/accounts"
	"github.com/cleared-dev/cashbook/internal/model"
)

func newAccountCommand(dir *string) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
		Long: `Manage the chart of accounts.

Commands that take an <account> accept its full name, such as
"Assets:Current Assets:Checking Account", or its GUID with or without dashes.`,
	}
	accountCmd.AddCommand(newAccountAddCommand(dir))
	accountCmd.AddCommand(newAccountListCommand(dir))
	accountCmd.AddCommand(newAccountBalanceCommand(dir))
	accountCmd.AddCommand(newAccountRenameCommand(dir))
	accountCmd.AddCommand(newAccountMoveCommand(dir))
	accountCmd.AddCommand(newAccountDeleteCommand(dir))
	return accountCmd
}

func newAccountAddCommand(dir *string) *cobra.Command {
	var row accounts.Row

	cmd := &cobra.Command{
		Use:   "add <full name>",
		Short: "Create an account; its parent must exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row.FullName = args[0]
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				created, err := accounts.NewService(p.book).Import([]accounts.Row{row})
				if err != nil {
					return err
				}
				acc := created[0]
				p.log.Info("account created", zap.String("account", acc.FullName()), zap.String("guid", acc.GUID()))
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", acc, acc.GUID())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&row.Type, "type", "t", "", "account type, e.g. BANK or EXPENSE (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&row.Commodity, "commodity", "", "commodity, MNEMONIC for currencies or NAMESPACE:MNEMONIC (default: book currency)")
	cmd.Flags().StringVar(&row.Code, "code", "", "account code")
	cmd.Flags().StringVar(&row.Description, "description", "", "description")
	cmd.Flags().BoolVar(&row.Hidden, "hidden", false, "hide the account")
	cmd.Flags().BoolVar(&row.Placeholder, "placeholder", false, "mark as placeholder")
	cmd.Flags().Int64Var(&row.SCU, "scu", 0, "smallest commodity unit, overriding the commodity's fraction")

	return cmd
}

func newAccountListCommand(dir *string) *cobra.Command {
	var typ string
	var all bool
	var totals bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, false, func(p *project) error {
				accts := p.book.Accounts()
				if typ != "" {
					t, err := model.ParseAccountType(typ)
					if err != nil {
						return err
					}
					accts = accounts.NewService(p.book).ByType(t)
				}

				var approx map[string]float64
				if totals {
					var err error
					if approx, err = p.store.AccountTotals(cmd.Context()); err != nil {
						return err
					}
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				header := "ACCOUNT\tTYPE\tCOMMODITY\tCODE\tFLAGS"
				if totals {
					header += "\tTOTAL"
				}
				fmt.Fprintln(w, header)
				for _, acc := range accts {
					if acc.Hidden() && !all {
						continue
					}
					line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", acc.FullName(), acc.Type(), commodityName(acc.Commodity()), acc.Code(), flags(acc))
					if totals {
						line += fmt.Sprintf("\t%.2f", approx[acc.GUID()])
					}
					fmt.Fprintln(w, line)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "only list accounts of this type")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden accounts")
	cmd.Flags().BoolVar(&totals, "totals", false, "show approximate split totals computed by the database")

	return cmd
}

func newAccountBalanceCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show the exact balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, false, func(p *project) error {
				acc, err := p.book.FindAccount(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", acc.Balance().String(), commodityName(acc.Commodity()))
				return nil
			})
		},
	}
}

func newAccountRenameCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account> <new name>",
		Short: "Rename an account in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				acc, err := p.book.FindAccount(args[0])
				if err != nil {
					return err
				}
				if err := acc.SetName(args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", acc.FullName())
				return nil
			})
		},
	}
}

func newAccountMoveCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "move <account> <new parent>",
		Short: `Move an account under another; use "" for the top level`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				acc, err := p.book.FindAccount(args[0])
				if err != nil {
					return err
				}
				parent := p.book.Root()
				if args[1] != "" {
					if parent, err = p.book.FindAccount(args[1]); err != nil {
						return err
					}
				}
				if err := acc.SetParent(parent); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s\n", acc.FullName())
				return nil
			})
		},
	}
}

func newAccountDeleteCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account and all its sub-accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				acc, err := p.book.FindAccount(args[0])
				if err != nil {
					return err
				}
				n := len(acc.Descendants()) + 1
				if err := p.book.DeleteAccount(acc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d account(s)\n", n)
				return nil
			})
		},
	}
}

func commodityName(c *model.Commodity) string {
	switch {
	case c == nil:
		return "-"
	case c.Namespace == model.NamespaceCurrency:
		return c.Mnemonic
	default:
		return c.Namespace + ":" + c.Mnemonic
	}
}

func flags(acc *model.Account) string {
	var f []string
	if acc.Placeholder() {
		f = append(f, "placeholder")
	}
	if acc.Hidden() {
		f = append(f, "hidden")
	}
	return strings.Join(f, ",")
}
