package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// DefaultSuspenseAccount receives statement lines until they are
// reclassified with a journal entry.
const DefaultSuspenseAccount = "Bank Suspense A/c"

// StatementParser parses a bank statement export with columns
// Date,Narration,Ref No,Withdrawal,Deposit,Balance. Deposits become bank
// receipts and withdrawals bank payments, all against Account.
type StatementParser struct {
	Account string
}

const (
	stmtDateFormat = "02/01/2006"
	stmtNumFields  = 6
	stmtColDate    = 0
	stmtColDesc    = 1
	stmtColRef     = 2
	stmtColDebit   = 3
	stmtColCredit  = 4
)

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Matches reports whether header has the statement's date, withdrawal and
// deposit columns in place.
func (p *StatementParser) Matches(header []string) bool {
	h := normalizeHeader(header)
	return len(h) == stmtNumFields &&
		strings.HasPrefix(h[stmtColDate], "date") &&
		strings.HasPrefix(h[stmtColDebit], "withdrawal") &&
		strings.HasPrefix(h[stmtColCredit], "deposit")
}

func (p *StatementParser) account() string {
	if p.Account != "" {
		return p.Account
	}
	return DefaultSuspenseAccount
}

// Parse reads a statement CSV and returns one voucher per line.
func (p *StatementParser) Parse(r io.Reader) ([]model.CashBookEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = stmtNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var vouchers []model.CashBookEntry
	for i, rec := range records[1:] {
		v, err := p.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, nil
}

func (p *StatementParser) parseRow(rec []string) (model.CashBookEntry, error) {
	t, err := time.Parse(stmtDateFormat, strings.TrimSpace(rec[stmtColDate]))
	if err != nil {
		return model.CashBookEntry{}, fmt.Errorf("parsing date %q: %w", rec[stmtColDate], err)
	}
	withdrawal, err := parseAmount(rec[stmtColDebit])
	if err != nil {
		return model.CashBookEntry{}, err
	}
	deposit, err := parseAmount(rec[stmtColCredit])
	if err != nil {
		return model.CashBookEntry{}, err
	}

	v := model.CashBookEntry{
		Date:        model.NewDate(t.Year(), t.Month(), t.Day()),
		AccountName: p.account(),
		Particulars: statementParticulars(rec[stmtColDesc], rec[stmtColRef]),
	}
	switch {
	case deposit.IsPositive() && withdrawal.IsZero():
		v.Type, v.BankAmount = model.VoucherReceipt, deposit
	case withdrawal.IsPositive() && deposit.IsZero():
		v.Type, v.BankAmount = model.VoucherPayment, withdrawal
	default:
		return model.CashBookEntry{}, fmt.Errorf("line needs exactly one of withdrawal or deposit")
	}
	return v, nil
}

// statementParticulars returns the narration with the bank reference
// appended, e.g. "NEFT ACME TRADERS (Ref 000123)".
func statementParticulars(desc, ref string) string {
	desc, ref = strings.TrimSpace(desc), strings.TrimSpace(ref)
	if ref == "" {
		return desc
	}
	return fmt.Sprintf("%s (Ref %s)", desc, ref)
}
