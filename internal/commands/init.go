package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/cashbook/internal/accounts"
	"github.com/cleared-dev/cashbook/internal/book"
	"github.com/cleared-dev/cashbook/internal/config"
	"github.com/cleared-dev/cashbook/internal/logging"
	"github.com/cleared-dev/cashbook/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var chart string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new cashbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, currency, chart)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "book name (defaults to the directory name)")
	cmd.Flags().StringVar(&currency, "currency", config.FallbackCurrency, "default currency of the book")
	cmd.Flags().StringVar(&chart, "chart", "personal", "starter chart of accounts: personal or business")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name, currency, chart string) error {
	if name == "" {
		name = filepath.Base(dir)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfg := config.Default(name, currency)
	cfg.Book.Chart = chart

	cur, ok := book.ISOCurrency(cfg.Book.DefaultCurrency)
	if !ok {
		return fmt.Errorf("%w: %s", book.ErrUnknownCurrency, cfg.Book.DefaultCurrency)
	}
	b, err := book.New(cur)
	if err != nil {
		return err
	}
	created, err := accounts.NewService(b).Import(accounts.DefaultChart(chart))
	if err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s, err := store.Open(ctx, cfg.DBPath(dir), log)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveBook(ctx, b); err != nil {
		return err
	}

	// Written last so a failed init leaves no config behind.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log.Debug("project initialized", zap.String("dir", dir), zap.String("chart", chart))
	fmt.Fprintf(out, "Initialized cashbook at %s (%d accounts, %s)\n", dir, len(created), cur.Mnemonic)
	return nil
}
