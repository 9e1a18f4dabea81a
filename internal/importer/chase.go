package importer

import "io"

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

var chaseLayout = layout{
	format:     "chase",
	header:     []string{"details", "posting date", "description", "amount", "type", "balance", "check or slip #"},
	dateFormat: "01/02/2006",
	date:       1,
	desc:       2,
	amount:     3,
	kind:       4,
}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return chaseLayout.format }

// Parse reads a Chase CSV and returns its entries in file order. The Type
// column (ACH_DEBIT, DEBIT_CARD, ...) ends up in each entry's memo.
func (p *ChaseParser) Parse(r io.Reader) ([]Entry, error) {
	return chaseLayout.parse(r)
}
