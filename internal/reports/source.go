// Package reports derives ledgers, the trial balance and the final accounts
// from the chart, the journal and the stock ledger.
//
// Every projection is a pure fold over the current state: calling one twice
// without an intervening posting gives identical results.
package reports

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/journal"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// ErrUnknownAccount is returned for a ledger of an unregistered account.
var ErrUnknownAccount = errors.New("unknown account")

// Journal is the view of posted entries reports need.
type Journal interface {
	Chronological() []model.JournalEntry
	Balance(accountID string) decimal.Decimal
}

// Stock values inventory on hand.
type Stock interface {
	ClosingValue() decimal.Decimal
}

// Source is the state a projection folds over.
type Source struct {
	Accounts []model.Account
	Journal  Journal
	Stock    Stock
}

// Line is one row of a statement.
type Line struct {
	Label     string          `json:"label"`
	AccountID string          `json:"accountId,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// zeroBalance is the magnitude below which a balance is treated as nil.
var zeroBalance = decimal.New(1, -3)

func (s Source) balance(accountID string) decimal.Decimal {
	return s.Journal.Balance(accountID)
}

func (s Source) closingStock() decimal.Decimal {
	if s.Stock == nil {
		return decimal.Zero
	}
	return s.Stock.ClosingValue()
}

// named returns the balance of the account with the given name, or zero.
func (s Source) named(name string) (model.Account, decimal.Decimal, bool) {
	for _, a := range s.Accounts {
		if strings.EqualFold(a.Name, name) {
			return a, s.balance(a.ID), true
		}
	}
	return model.Account{}, decimal.Zero, false
}

// balanced reports whether two totals agree within the posting tolerance.
func balanced(a, b decimal.Decimal) (decimal.Decimal, bool) {
	diff := a.Sub(b).Abs()
	return diff, diff.LessThan(journal.Tolerance)
}

func sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

func accountLine(a model.Account, amount decimal.Decimal) Line {
	return Line{Label: a.Name, AccountID: a.ID, Amount: amount}
}

func isNil(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(zeroBalance)
}

// tradingHeads are the accounts netted into purchases and sales when they
// sit in the Trading Account.
var tradingHeads = map[string]model.AccountType{
	strings.ToLower(accounts.PurchaseName):       model.AccountTypeExpense,
	strings.ToLower(accounts.PurchaseReturnName): model.AccountTypeRevenue,
	strings.ToLower(accounts.SalesName):          model.AccountTypeRevenue,
	strings.ToLower(accounts.SalesReturnName):    model.AccountTypeExpense,
}

func isTradingHead(a model.Account) bool {
	t, ok := tradingHeads[strings.ToLower(a.Name)]
	return ok && t == a.Type && a.IsDirect()
}
