package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	numFields      = 9
	colGUID        = 0
	colFullName    = 1
	colType        = 2
	colCommodity   = 3
	colCode        = 4
	colDesc        = 5
	colHidden      = 6
	colPlaceholder = 7
	colSCU         = 8
)

// Header is the CSV header of a chart-of-accounts file.
var Header = []string{"guid", "full_name", "type", "commodity", "code", "description", "hidden", "placeholder", "commodity_scu"}

// Row is one account in chart-of-accounts.csv. SCU is 0 when the account
// uses its commodity's fraction. GUID may be empty for new accounts.
type Row struct {
	GUID        string
	FullName    string
	Type        string
	Commodity   string // "EUR" for currencies, "NAMESPACE:MNEMONIC" otherwise
	Code        string
	Description string
	Hidden      bool
	Placeholder bool
	SCU         int64
}

// ReadChart reads chart-of-accounts.csv.
func ReadChart(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteChart writes chart-of-accounts.csv.
func WriteChart(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[colGUID] = row.GUID
	rec[colFullName] = row.FullName
	rec[colType] = row.Type
	rec[colCommodity] = row.Commodity
	rec[colCode] = row.Code
	rec[colDesc] = row.Description
	rec[colHidden] = strconv.FormatBool(row.Hidden)
	rec[colPlaceholder] = strconv.FormatBool(row.Placeholder)
	if row.SCU != 0 {
		rec[colSCU] = strconv.FormatInt(row.SCU, 10)
	}
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(rec []string) (Row, error) {
	if len(rec) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	hidden, err := parseBool(rec[colHidden])
	if err != nil {
		return Row{}, fmt.Errorf("parsing hidden %q: %w", rec[colHidden], err)
	}
	placeholder, err := parseBool(rec[colPlaceholder])
	if err != nil {
		return Row{}, fmt.Errorf("parsing placeholder %q: %w", rec[colPlaceholder], err)
	}

	var scu int64
	if rec[colSCU] != "" {
		scu, err = strconv.ParseInt(rec[colSCU], 10, 64)
		if err != nil {
			return Row{}, fmt.Errorf("parsing commodity_scu %q: %w", rec[colSCU], err)
		}
	}

	return Row{
		GUID:        rec[colGUID],
		FullName:    rec[colFullName],
		Type:        rec[colType],
		Commodity:   rec[colCommodity],
		Code:        rec[colCode],
		Description: rec[colDesc],
		Hidden:      hidden,
		Placeholder: placeholder,
		SCU:         scu,
	}, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
