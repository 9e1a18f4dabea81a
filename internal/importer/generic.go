package importer

import (
	"io"
	"time"
)

// GenericParser reads a plain "date,description,amount" CSV with ISO dates.
type GenericParser struct{}

var genericLayout = layout{
	format:     "generic",
	header:     []string{"date", "description", "amount"},
	dateFormat: time.DateOnly,
	date:       0,
	desc:       1,
	amount:     2,
	kind:       -1,
}

// Format returns the parser name.
func (p *GenericParser) Format() string { return genericLayout.format }

// Parse reads the CSV and returns its entries in file order.
func (p *GenericParser) Parse(r io.Reader) ([]Entry, error) {
	return genericLayout.parse(r)
}
