package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	ids map[string]bool
}

func (m *mockAccounts) Exists(id string) bool {
	return m.ids[id]
}

func newMockAccounts(ids ...string) *mockAccounts {
	m := &mockAccounts{ids: make(map[string]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

var defaultAccounts = newMockAccounts("cash", "bank", "capital", "sales", "purchase", "rent")

func date(y, m, d int) model.Date {
	return model.NewDate(y, time.Month(m), d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(side model.Side, account, amount string) model.JournalLine {
	return model.JournalLine{Type: side, AccountID: account, AccountName: account, Amount: dec(amount)}
}

func simpleEntry(d model.Date, debitAcct, creditAcct, amount string) model.JournalEntry {
	return model.JournalEntry{
		Date:      d,
		Narration: "test entry",
		Lines: []model.JournalLine{
			line(model.Debit, debitAcct, amount),
			line(model.Credit, creditAcct, amount),
		},
	}
}
