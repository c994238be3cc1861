package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// Header is the CSV header for journal exports. Each row is one line; rows
// of the same entry are contiguous.
const Header = "entry_id,transaction_id,date,narration,depreciation,line_id,account_id,account_name,code,debit,credit"

const (
	numFields       = 11
	colEntryID      = 0
	colTxnID        = 1
	colDate         = 2
	colNarration    = 3
	colDepreciation = 4
	colLineID       = 5
	colAcctID       = 6
	colAcctName     = 7
	colCode         = 8
	colDebit        = 9
	colCredit       = 10
)

// ReadEntries reads a journal CSV, grouping contiguous rows by entry_id.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		entry, line, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if n := len(entries); n > 0 && entries[n-1].ID == entry.ID {
			entries[n-1].Lines = append(entries[n-1].Lines, line)
			continue
		}
		entry.Lines = []model.JournalLine{line}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal CSV writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, e := range entries {
		for _, l := range e.Lines {
			if err := cw.Write(MarshalRow(e, l)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts one line of an entry to a CSV row.
func MarshalRow(e model.JournalEntry, l model.JournalLine) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colTxnID] = e.TransactionID
	row[colDate] = e.Date.String()
	row[colNarration] = e.Narration
	if e.IsDepreciationEntry {
		row[colDepreciation] = "true"
	}
	row[colLineID] = l.ID
	row[colAcctID] = l.AccountID
	row[colAcctName] = l.AccountName
	row[colCode] = l.Code

	switch l.Type {
	case model.Debit:
		row[colDebit] = l.Amount.StringFixed(2)
	case model.Credit:
		row[colCredit] = l.Amount.StringFixed(2)
	}
	return row
}

// UnmarshalRow converts a CSV row to its entry header and line.
func UnmarshalRow(record []string) (model.JournalEntry, model.JournalLine, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colEntryID] == "" {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("missing entry_id")
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return model.JournalEntry{}, model.JournalLine{}, err
	}

	var depreciation bool
	if record[colDepreciation] != "" {
		depreciation, err = strconv.ParseBool(record[colDepreciation])
		if err != nil {
			return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing depreciation %q: %w", record[colDepreciation], err)
		}
	}

	line := model.JournalLine{
		ID:          record[colLineID],
		AccountID:   record[colAcctID],
		AccountName: record[colAcctName],
		Code:        record[colCode],
	}
	hasDebit, hasCredit := record[colDebit] != "", record[colCredit] != ""
	switch {
	case hasDebit && !hasCredit:
		line.Type = model.Debit
		line.Amount, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	case hasCredit && !hasDebit:
		line.Type = model.Credit
		line.Amount, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	default:
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("line must have exactly one of debit or credit")
	}

	return model.JournalEntry{
		ID:                  record[colEntryID],
		TransactionID:       record[colTxnID],
		Date:                date,
		Narration:           record[colNarration],
		IsDepreciationEntry: depreciation,
	}, line, nil
}
