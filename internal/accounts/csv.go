package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

const (
	numFields         = 7
	colID             = 0
	colCode           = 1
	colName           = 2
	colType           = 3
	colClassification = 4
	colCategory       = 5
	colDesc           = 6
)

// Header is the chart-of-accounts CSV header row.
var Header = []string{"account_id", "code", "account_name", "account_type", "classification", "final_category", "description"}

// ReadAccounts reads a chart-of-accounts CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart-of-accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colClassification] = string(acct.Classification)
	row[colCategory] = string(acct.FinalAccountCategory)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return model.Account{}, fmt.Errorf("missing account_id")
	}

	t, err := model.ParseAccountType(record[colType])
	if err != nil {
		return model.Account{}, err
	}
	c, err := model.ParseClassification(record[colClassification])
	if err != nil {
		return model.Account{}, err
	}
	cat, err := model.ParseFinalCategory(record[colCategory])
	if err != nil {
		return model.Account{}, err
	}

	return model.Account{
		ID:                   record[colID],
		Code:                 record[colCode],
		Name:                 record[colName],
		Type:                 t,
		Classification:       c,
		FinalAccountCategory: cat,
		Description:          record[colDesc],
	}, nil
}
