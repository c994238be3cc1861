package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/format"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

func amountOf(lines []Line, label string) string {
	for _, l := range lines {
		if l.Label == label {
			return l.Amount.StringFixed(2)
		}
	}
	return ""
}

func TestTrading(t *testing.T) {
	tr := BuildTrading(trader(t).source())

	assert.Equal(t, "0.00", tr.OpeningStock.StringFixed(2))
	assert.Equal(t, "5000.00", tr.GrossPurchases.StringFixed(2))
	assert.Equal(t, "500.00", tr.PurchaseReturns.StringFixed(2))
	assert.Equal(t, "4500.00", tr.NetPurchases.StringFixed(2))
	assert.Equal(t, "5400.00", tr.NetSales.StringFixed(2))
	assert.Equal(t, "2000.00", tr.ClosingStock.StringFixed(2))
	require.Len(t, tr.DirectExpenses, 1)
	assert.Equal(t, "Carriage Inwards A/c", tr.DirectExpenses[0].Label)

	assert.Equal(t, "2700.00", tr.GrossProfit.StringFixed(2))
	assert.True(t, tr.GrossLoss.IsZero())
	assert.Equal(t, "7400.00", tr.Total.StringFixed(2))
	assert.Equal(t, tr.Total.StringFixed(2), sum(tr.Debit).StringFixed(2))
	assert.Equal(t, tr.Total.StringFixed(2), sum(tr.Credit).StringFixed(2))
}

func TestTrading_OtherDirectIncome(t *testing.T) {
	f := trader(t)
	f.open("Scrap Sales A/c", model.AccountTypeRevenue, model.ClassDirectRevenue, model.CategoryDirect)
	f.post(date(2024, 6, 5), accounts.CashName, "Scrap Sales A/c", "150")

	final := BuildFinalAccounts(f.source())
	require.Len(t, final.Trading.DirectIncomes, 1)
	assert.Equal(t, "Scrap Sales A/c", final.Trading.DirectIncomes[0].Label)
	assert.Equal(t, "150.00", amountOf(final.Trading.Credit, "Scrap Sales A/c"))
	assert.Equal(t, "2850.00", final.Trading.GrossProfit.StringFixed(2))
	assert.True(t, final.BalanceSheet.Balanced, "difference %s", final.BalanceSheet.Difference)
}

func TestTrading_GrossLoss(t *testing.T) {
	f := newFixture(t)
	f.post(date(2024, 4, 1), accounts.CashName, accounts.CapitalName, "1000")
	f.post(date(2024, 4, 2), accounts.PurchaseName, accounts.CashName, "800")
	f.post(date(2024, 4, 3), accounts.CashName, accounts.SalesName, "500")

	tr := BuildTrading(f.source())
	assert.Equal(t, "300.00", tr.GrossLoss.StringFixed(2))
	assert.Equal(t, "800.00", tr.Total.StringFixed(2))
	assert.Equal(t, "300.00", amountOf(tr.Credit, "By Gross Loss c/d"))

	pl := BuildProfitLoss(f.source(), tr)
	assert.Equal(t, "300.00", pl.NetLoss.StringFixed(2))
	assert.Equal(t, "300.00", amountOf(pl.Debit, "To Gross Loss b/d"))
}

func TestProfitLoss(t *testing.T) {
	src := trader(t).source()
	pl := BuildProfitLoss(src, BuildTrading(src))

	assert.Equal(t, "1000.00", amountOf(pl.Debit, "Rent A/c"))
	assert.Equal(t, "300.00", amountOf(pl.Debit, "Depreciation A/c"))
	assert.Equal(t, "2700.00", amountOf(pl.Credit, "By Gross Profit b/d"))
	assert.Equal(t, "300.00", amountOf(pl.Credit, "Commission A/c"))
	assert.Equal(t, "1700.00", pl.NetProfit.StringFixed(2))
	assert.Equal(t, "3000.00", pl.Total.StringFixed(2))
	assert.Equal(t, sum(pl.Debit).StringFixed(2), sum(pl.Credit).StringFixed(2))
}

func TestBalanceSheet(t *testing.T) {
	fa := BuildFinalAccounts(trader(t).source())
	bs := fa.BalanceSheet

	assert.Equal(t, "15000.00", bs.Capital.StringFixed(2))
	assert.Equal(t, "400.00", bs.Drawings.StringFixed(2))
	assert.Equal(t, "16300.00", bs.NetCapital.StringFixed(2))
	assert.Equal(t, "4500.00", amountOf(bs.Liabilities, LabelCreditors))
	assert.Equal(t, "9700.00", bs.Cash.StringFixed(2))
	assert.Equal(t, "1000.00", bs.Bank.StringFixed(2))
	assert.Equal(t, "2700.00", amountOf(bs.FixedAssets, "Machinery A/c"))
	assert.Equal(t, "5400.00", amountOf(bs.Assets, LabelDebtors))

	assert.Equal(t, "20800.00", bs.TotalAssets.StringFixed(2))
	assert.Equal(t, "20800.00", bs.TotalLiabilities.StringFixed(2))
	assert.True(t, bs.Balanced)
	assert.True(t, bs.Difference.IsZero())
}

func TestBalanceSheet_OpeningBalanceOnly(t *testing.T) {
	f := newFixture(t)
	f.post(date(2024, 4, 1), accounts.CashName, accounts.CapitalName, "1000")

	bs := BuildFinalAccounts(f.source()).BalanceSheet
	assert.Equal(t, "1000.00", bs.TotalAssets.StringFixed(2))
	assert.Equal(t, "1000.00", bs.TotalLiabilities.StringFixed(2))
	assert.True(t, bs.Balanced)
}

func TestBalanceSheet_OverdraftAndShortfall(t *testing.T) {
	f := newFixture(t)
	f.open("Rent A/c", model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect)
	f.post(date(2024, 4, 1), accounts.CashName, accounts.CapitalName, "1000")
	f.post(date(2024, 4, 2), "Rent A/c", accounts.BankName, "300")
	f.post(date(2024, 4, 3), "Rent A/c", accounts.CashName, "1100")

	bs := BuildFinalAccounts(f.source()).BalanceSheet
	assert.Equal(t, "300.00", bs.BankOverdraft.StringFixed(2))
	assert.Equal(t, "100.00", bs.CashShortfall.StringFixed(2))
	assert.True(t, bs.Cash.IsZero())
	assert.Equal(t, "1400.00", bs.NetLoss.StringFixed(2))
	assert.Equal(t, "-400.00", bs.NetCapital.StringFixed(2))
	assert.True(t, bs.Balanced, "difference %s", bs.Difference)
	assert.True(t, bs.TotalAssets.IsZero())
}

func TestBalanceSheet_ReportsDifference(t *testing.T) {
	reg := accounts.Default()
	cash, _ := reg.ByName(accounts.CashName)
	src := Source{
		Accounts: reg.All(),
		Journal:  fakeJournal{cash.ID: dec("100")},
	}
	bs := BuildFinalAccounts(src).BalanceSheet
	assert.False(t, bs.Balanced)
	assert.Equal(t, "100.00", bs.Difference.StringFixed(2))
	assert.False(t, Analyze(src).IsBalanced)
}

func TestReclassificationMovesBalanceToProfitLoss(t *testing.T) {
	f := trader(t)
	before := BuildFinalAccounts(f.source())

	carriage := f.acct("Carriage Inwards A/c")
	indirect := model.CategoryIndirect
	class := model.ClassIndirectExpense
	_, err := f.reg.Update(carriage.ID, accounts.Patch{FinalAccountCategory: &indirect, Classification: &class})
	require.NoError(t, err)
	after := BuildFinalAccounts(f.source())

	assert.Empty(t, after.Trading.DirectExpenses)
	assert.Equal(t, "2900.00", after.Trading.GrossProfit.StringFixed(2))
	assert.Equal(t, "200.00", amountOf(after.ProfitLoss.IndirectExpenses, "Carriage Inwards A/c"))
	assert.Equal(t, before.ProfitLoss.NetProfit.StringFixed(2), after.ProfitLoss.NetProfit.StringFixed(2))
	assert.True(t, after.BalanceSheet.Balanced)
}

func TestAnalyzeAgreesWithStatements(t *testing.T) {
	src := trader(t).source()
	fa := Analyze(src)
	final := BuildFinalAccounts(src)

	assert.Equal(t, final.Trading.GrossProfit.StringFixed(2), fa.GrossProfit.StringFixed(2))
	assert.Equal(t, final.ProfitLoss.NetProfit.StringFixed(2), fa.NetProfit.StringFixed(2))
	assert.Equal(t, final.BalanceSheet.TotalAssets.StringFixed(2), fa.TotalAssets.StringFixed(2))
	assert.Equal(t, "9700.00", fa.CashBalance.StringFixed(2))
	assert.Equal(t, "1000.00", fa.BankBalance.StringFixed(2))
	assert.Equal(t, "2000.00", fa.ClosingStock.StringFixed(2))
	assert.Equal(t, final.BalanceSheet.Balanced, fa.IsBalanced)
	assert.True(t, fa.IsBalanced)
}

func TestProjectionsAreIdempotent(t *testing.T) {
	src := trader(t).source()
	md := Markdown{Amounts: format.New(model.NegativeBrackets), Subtitle: "Test Traders"}

	assert.Equal(t, BuildFinalAccounts(src), BuildFinalAccounts(src))
	assert.Equal(t, BuildTrialBalance(src), BuildTrialBalance(src))
	assert.Equal(t, Ledgers(src), Ledgers(src))
	assert.Equal(t, md.BalanceSheet(BuildFinalAccounts(src).BalanceSheet), md.BalanceSheet(BuildFinalAccounts(src).BalanceSheet))
}
