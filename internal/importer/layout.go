package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// layout describes where a bank's CSV export keeps each field.
// Column indexes are zero-based; kind is -1 when the export has no
// transaction type column.
type layout struct {
	format     string
	header     []string // lower-cased, compared after trimming
	dateFormat string
	date       int
	desc       int
	amount     int
	kind       int
}

// parse reads the whole file, checks the header row and converts every
// following row. The first bad row aborts the parse.
func (l layout) parse(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(l.header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", l.format, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := l.checkHeader(records[0]); err != nil {
		return nil, err
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := l.entry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (l layout) checkHeader(row []string) error {
	for i, want := range l.header {
		if strings.ToLower(strings.TrimSpace(row[i])) != want {
			return fmt.Errorf("unexpected header %v for %s, want %v", row, l.format, l.header)
		}
	}
	return nil
}

func (l layout) entry(rec []string) (Entry, error) {
	date, err := time.Parse(l.dateFormat, strings.TrimSpace(rec[l.date]))
	if err != nil {
		return Entry{}, fmt.Errorf("parsing date %q: %w", rec[l.date], err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(rec[l.amount]))
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", rec[l.amount], err)
	}

	e := Entry{
		Date:        date,
		Description: strings.TrimSpace(rec[l.desc]),
		Amount:      amount,
	}
	if l.kind >= 0 {
		e.Type = strings.TrimSpace(rec[l.kind])
	}
	e.Reference = l.reference(e)
	return e, nil
}

// reference builds a key like chase_20250103_GITHUBPROS from the date and
// the first ten alphanumerics of the description.
func (l layout) reference(e Entry) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, e.Description)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("%s_%s_%s", l.format, e.Date.Format("20060102"), prefix)
}
