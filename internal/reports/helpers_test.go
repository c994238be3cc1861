package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/journal"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

func date(y, m, d int) model.Date {
	return model.NewDate(y, time.Month(m), d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixedStock implements Stock with a constant closing value.
type fixedStock string

func (f fixedStock) ClosingValue() decimal.Decimal {
	return dec(string(f))
}

type fixture struct {
	t     *testing.T
	reg   *accounts.Registry
	store *journal.Store
	stock Stock
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, reg: accounts.Default(), store: journal.NewStore(nil), stock: fixedStock("0")}
}

func (f *fixture) source() Source {
	return Source{Accounts: f.reg.All(), Journal: f.store, Stock: f.stock}
}

func (f *fixture) open(name string, t model.AccountType, c model.Classification, cat model.FinalCategory) {
	f.t.Helper()
	_, err := f.reg.Create(name, t, c, cat)
	require.NoError(f.t, err)
}

func (f *fixture) acct(name string) model.Account {
	f.t.Helper()
	a, ok := f.reg.ByName(name)
	require.True(f.t, ok, "account %q", name)
	return a
}

// post records a two-line entry moving amount from credit to debit.
func (f *fixture) post(d model.Date, debit, credit, amount string) model.JournalEntry {
	f.t.Helper()
	dr, cr := f.acct(debit), f.acct(credit)
	e, err := f.store.Add(model.JournalEntry{
		Date:      d,
		Narration: "Being " + debit + " against " + credit,
		Lines: []model.JournalLine{
			{Type: model.Debit, AccountID: dr.ID, AccountName: dr.Name, Amount: dec(amount)},
			{Type: model.Credit, AccountID: cr.ID, AccountName: cr.Name, Amount: dec(amount)},
		},
	}, f.reg)
	require.NoError(f.t, err)
	return e
}

// trader builds a year of trading for a small merchant: 2,700 gross profit,
// 1,700 net profit and a 20,800 balance sheet.
func trader(t *testing.T) *fixture {
	f := newFixture(t)
	f.open("Acme Supplies", model.AccountTypeLiability, model.ClassSundryCreditor, "")
	f.open("Bharat Stores", model.AccountTypeAsset, model.ClassSundryDebtor, "")
	f.open("Carriage Inwards A/c", model.AccountTypeExpense, model.ClassDirectExpense, model.CategoryDirect)
	f.open("Rent A/c", model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect)
	f.open("Commission A/c", model.AccountTypeRevenue, model.ClassIndirectRevenue, model.CategoryIndirect)
	f.open("Machinery A/c", model.AccountTypeAsset, model.ClassTangibleAsset, "")
	f.open("Depreciation A/c", model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect)

	cash, bank, capital := f.acct(accounts.CashName), f.acct(accounts.BankName), f.acct(accounts.CapitalName)
	_, err := f.store.Add(model.JournalEntry{
		Date:      date(2024, 4, 1),
		Narration: "Being opening balance brought in",
		Lines: []model.JournalLine{
			{Type: model.Debit, AccountID: cash.ID, AccountName: cash.Name, Amount: dec("10000")},
			{Type: model.Debit, AccountID: bank.ID, AccountName: bank.Name, Amount: dec("5000")},
			{Type: model.Credit, AccountID: capital.ID, AccountName: capital.Name, Amount: dec("15000")},
		},
	}, f.reg)
	require.NoError(t, err)

	f.post(date(2024, 4, 5), accounts.PurchaseName, "Acme Supplies", "5000")
	f.post(date(2024, 4, 10), "Bharat Stores", accounts.SalesName, "6000")
	f.post(date(2024, 4, 12), accounts.SalesReturnName, "Bharat Stores", "600")
	f.post(date(2024, 4, 14), "Acme Supplies", accounts.PurchaseReturnName, "500")
	f.post(date(2024, 4, 15), "Carriage Inwards A/c", accounts.CashName, "200")
	f.post(date(2024, 5, 1), "Rent A/c", accounts.BankName, "1000")
	f.post(date(2024, 5, 2), accounts.CashName, "Commission A/c", "300")
	f.post(date(2024, 5, 3), accounts.DrawingsName, accounts.CashName, "400")
	f.post(date(2024, 6, 1), "Machinery A/c", accounts.BankName, "3000")
	f.post(date(2025, 3, 31), "Depreciation A/c", "Machinery A/c", "300")
	f.stock = fixedStock("2000")
	return f
}
