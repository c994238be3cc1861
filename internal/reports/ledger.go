package reports

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// selfParticulars labels a line with no counter line on the other side.
const selfParticulars = "Self (Opening/Adj)"

// LedgerRow is one posting in an account's ledger.
type LedgerRow struct {
	Date          model.Date      `json:"date"`
	EntryID       string          `json:"entryId"`
	TransactionID string          `json:"transactionId,omitempty"`
	Particulars   string          `json:"particulars"`
	Narration     string          `json:"narration"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

// LedgerAccount is the full ledger of one account. Closing is the signed
// balance carried down: positive for a debit balance.
type LedgerAccount struct {
	Account     model.Account   `json:"account"`
	Rows        []LedgerRow     `json:"rows"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Closing     decimal.Decimal `json:"closing"`
}

// Ledger builds the ledger of one account in date order.
func Ledger(src Source, accountID string) (LedgerAccount, error) {
	i := slices.IndexFunc(src.Accounts, func(a model.Account) bool { return a.ID == accountID })
	if i < 0 {
		return LedgerAccount{}, fmt.Errorf("%w: %s", ErrUnknownAccount, accountID)
	}
	return ledgerFor(src.Accounts[i], src.Journal.Chronological()), nil
}

// Ledgers builds the ledger of every account with at least one posting, in
// chart order.
func Ledgers(src Source) []LedgerAccount {
	entries := src.Journal.Chronological()
	var out []LedgerAccount
	for _, a := range src.Accounts {
		l := ledgerFor(a, entries)
		if len(l.Rows) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func ledgerFor(a model.Account, entries []model.JournalEntry) LedgerAccount {
	l := LedgerAccount{Account: a, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero, Closing: decimal.Zero}
	for _, e := range entries {
		for _, line := range e.Lines {
			if line.AccountID != a.ID {
				continue
			}
			row := LedgerRow{
				Date:          e.Date,
				EntryID:       e.ID,
				TransactionID: e.TransactionID,
				Particulars:   particulars(e, line),
				Narration:     e.Narration,
				Debit:         decimal.Zero,
				Credit:        decimal.Zero,
			}
			if line.Type == model.Debit {
				row.Debit = line.Amount
				l.TotalDebit = l.TotalDebit.Add(line.Amount)
			} else {
				row.Credit = line.Amount
				l.TotalCredit = l.TotalCredit.Add(line.Amount)
			}
			l.Closing = l.Closing.Add(line.Signed())
			row.Balance = l.Closing
			l.Rows = append(l.Rows, row)
		}
	}
	return l
}

// particulars names the counter accounts of a line: "To" for debits, "By"
// for credits.
func particulars(e model.JournalEntry, line model.JournalLine) string {
	prefix := "By "
	if line.Type == model.Debit {
		prefix = "To "
	}
	var names []string
	for _, other := range e.Lines {
		if other.Type == line.Type.Opposite() && other.AccountID != line.AccountID && !slices.Contains(names, other.AccountName) {
			names = append(names, other.AccountName)
		}
	}
	if len(names) == 0 {
		return prefix + selfParticulars
	}
	return prefix + strings.Join(names, " & ")
}
