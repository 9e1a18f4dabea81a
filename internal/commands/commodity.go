package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/cashbook/internal/book"
	"github.com/cleared-dev/cashbook/internal/lookup"
	"github.com/cleared-dev/cashbook/internal/model"
)

func newCommodityCommand(dir *string) *cobra.Command {
	commodityCmd := &cobra.Command{
		Use:   "commodity",
		Short: "Manage currencies and other commodities",
	}
	commodityCmd.AddCommand(newCommodityAddCommand(dir))
	commodityCmd.AddCommand(newCommodityListCommand(dir))
	commodityCmd.AddCommand(newCommodityDeleteCommand(dir))
	return commodityCmd
}

func newCommodityAddCommand(dir *string) *cobra.Command {
	var namespace, fullname, cusip string
	var fraction int64

	cmd := &cobra.Command{
		Use:   "add <mnemonic>",
		Short: "Add a commodity; ISO currencies are filled in automatically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic := strings.ToUpper(args[0])
			ns := strings.ToUpper(namespace)
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				c := model.NewCommodity(ns, mnemonic, fullname, fraction)
				if ns == model.NamespaceCurrency {
					if iso, ok := book.ISOCurrency(mnemonic); ok {
						c = iso
						if fullname != "" {
							c.Fullname = fullname
						}
						if cmd.Flags().Changed("fraction") {
							c.Fraction = fraction
						}
					}
				}
				c.CUSIP = cusip
				if err := p.book.AddCommodity(c); err != nil {
					return err
				}
				p.log.Info("commodity added", zap.Stringer("commodity", c))
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", c)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", model.NamespaceCurrency, "commodity namespace, e.g. CURRENCY or NASDAQ")
	cmd.Flags().StringVar(&fullname, "fullname", "", "full name")
	cmd.Flags().StringVar(&cusip, "cusip", "", "CUSIP or ISIN")
	cmd.Flags().Int64Var(&fraction, "fraction", 100, "smallest fraction, e.g. 100 for cents")

	return cmd
}

func newCommodityListCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List commodities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, false, func(p *project) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAMESPACE\tMNEMONIC\tNAME\tFRACTION\tACCOUNTS")
				for c := range p.book.Commodities().All() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", c.Namespace, c.Mnemonic, c.Fullname, c.Fraction, c.Accounts().Len())
				}
				return w.Flush()
			})
		},
	}
}

func newCommodityDeleteCommand(dir *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <mnemonic | namespace:mnemonic>",
		Short: "Delete a commodity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				c, err := findCommodity(p.book, args[0])
				if err != nil {
					return err
				}
				if n := c.Accounts().Len(); n > 0 && !force {
					return fmt.Errorf("%s is used by %d account(s); pass --force to delete them too", c, n)
				}
				if err := p.book.DeleteCommodity(c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", c)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "also delete the accounts using the commodity")

	return cmd
}

// findCommodity looks up an existing commodity without the currency
// fallback, so a typo never adds one.
func findCommodity(b *book.Book, ref string) (*model.Commodity, error) {
	ns, mnemonic, ok := strings.Cut(strings.ToUpper(ref), ":")
	if !ok {
		ns, mnemonic = model.NamespaceCurrency, ns
	}
	if found := b.Commodities().Filter(lookup.Criteria{"namespace": ns, "mnemonic": mnemonic}); len(found) > 0 {
		return found[0], nil
	}
	return nil, fmt.Errorf("commodity %s: %w", ref, lookup.ErrNotFound)
}
