package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/cashbook/internal/importer"
	"github.com/cleared-dev/cashbook/internal/model"
)

func newSplitCommand(dir *string) *cobra.Command {
	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Post amounts to accounts",
	}
	splitCmd.AddCommand(newSplitAddCommand(dir))
	splitCmd.AddCommand(newSplitImportCommand(dir))
	return splitCmd
}

func newSplitAddCommand(dir *string) *cobra.Command {
	var memo string

	cmd := &cobra.Command{
		Use:   "add <account> <amount>",
		Short: "Post an exact decimal amount to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				acc, err := p.book.FindAccount(args[0])
				if err != nil {
					return err
				}
				if acc.Placeholder() {
					return fmt.Errorf("%s: %w", acc.FullName(), model.ErrPlaceholder)
				}
				sp, err := model.NewSplit(args[1], memo)
				if err != nil {
					return err
				}
				acc.AddSplit(sp)
				p.log.Debug("split posted", zap.String("account", acc.FullName()), zap.Stringer("value", sp.Value))
				fmt.Fprintf(cmd.OutOrStdout(), "%s balance %s %s\n", acc.FullName(), acc.Balance(), commodityName(acc.Commodity()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&memo, "memo", "m", "", "memo")

	return cmd
}

func newSplitImportCommand(dir *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <account> <statement.csv>",
		Short: "Post every line of a bank statement CSV to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (known: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			entries, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[1], err)
			}

			return withProject(cmd.Context(), *dir, true, func(p *project) error {
				acc, err := p.book.FindAccount(args[0])
				if err != nil {
					return err
				}
				splits, err := importer.Post(acc, entries)
				if err != nil {
					return err
				}
				p.log.Info("statement imported",
					zap.String("account", acc.FullName()),
					zap.String("format", parser.Format()),
					zap.Int("splits", len(splits)),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Posted %d splits to %s, balance %s %s\n",
					len(splits), acc.FullName(), acc.Balance(), commodityName(acc.Commodity()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "generic", "statement format")

	return cmd
}
