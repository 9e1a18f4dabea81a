package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cleared-dev/cashbook/internal/book"
	"github.com/cleared-dev/cashbook/internal/config"
	"github.com/cleared-dev/cashbook/internal/logging"
	"github.com/cleared-dev/cashbook/internal/store"
)

// ErrNotInitialized is returned when the project directory has no config.
var ErrNotInitialized = errors.New("not a cashbook project (run cashbook init)")

// project is an opened cashbook directory: its config, logger, store and
// the book loaded from it.
type project struct {
	dir   string
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	book  *book.Book
}

func openProject(ctx context.Context, dir string) (*project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", absDir, ErrNotInitialized)
		}
		return nil, err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, cfg.DBPath(absDir), log)
	if err != nil {
		return nil, err
	}

	b, err := s.LoadBook(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	return &project{dir: absDir, cfg: cfg, log: log, store: s, book: b}, nil
}

func (p *project) save(ctx context.Context) error {
	return p.store.SaveBook(ctx, p.book)
}

func (p *project) close() {
	if err := p.store.Close(); err != nil {
		p.log.Warn("closing store", zap.Error(err))
	}
	_ = p.log.Sync()
}

// withProject opens dir, runs fn and, when write is set and fn succeeds,
// saves the book back.
func withProject(ctx context.Context, dir string, write bool, fn func(p *project) error) error {
	p, err := openProject(ctx, dir)
	if err != nil {
		return err
	}
	defer p.close()

	if err := fn(p); err != nil {
		return err
	}
	if !write {
		return nil
	}
	return p.save(ctx)
}
