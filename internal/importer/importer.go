package importer

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cashbook/internal/model"
)

// Entry is one line of a bank statement.
type Entry struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
	Type        string
}

// Memo is the split memo an entry is posted with: the statement date, the
// description and, when the bank reports one, the transaction type.
func (e Entry) Memo() string {
	memo := e.Date.Format(time.DateOnly) + " " + e.Description
	if e.Type != "" {
		memo += " [" + e.Type + "]"
	}
	return memo
}

// Parser converts a bank CSV file into statement entries.
type Parser interface {
	Parse(r io.Reader) ([]Entry, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered formats, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&GenericParser{})
	return r
}

// Post posts every entry to acc as a split. Either all entries are posted
// or, on error, none.
func Post(acc *model.Account, entries []Entry) ([]*model.Split, error) {
	if acc.Placeholder() {
		return nil, fmt.Errorf("%s: %w", acc.FullName(), model.ErrPlaceholder)
	}

	splits := make([]*model.Split, 0, len(entries))
	for i, e := range entries {
		sp, err := model.NewSplit(e.Amount, e.Memo())
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i+1, e.Reference, err)
		}
		splits = append(splits, sp)
	}
	for _, sp := range splits {
		acc.AddSplit(sp)
	}
	return splits, nil
}
