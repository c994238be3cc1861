package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// FiscalAnalysis is a one-pass summary of the year's result and position,
// computed independently of the statements as a consistency check.
type FiscalAnalysis struct {
	OpeningStock     decimal.Decimal `json:"openingStock"`
	ClosingStock     decimal.Decimal `json:"closingStock"`
	GrossProfit      decimal.Decimal `json:"grossProfit"`
	GrossLoss        decimal.Decimal `json:"grossLoss"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	NetLoss          decimal.Decimal `json:"netLoss"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	CashBalance      decimal.Decimal `json:"cashBalance"`
	BankBalance      decimal.Decimal `json:"bankBalance"`
	IsBalanced       bool            `json:"isBalanced"`
}

// Analyze folds every account once by type: direct revenue and expense into
// trading, the rest of revenue and expense into profit and loss, and
// balance-sheet accounts into assets, liabilities and equity.
func Analyze(src Source) FiscalAnalysis {
	zero := decimal.Zero
	fa := FiscalAnalysis{
		OpeningStock: zero, ClosingStock: src.closingStock(),
		TotalAssets: zero, TotalLiabilities: zero, TotalEquity: zero,
		CashBalance: zero, BankBalance: zero,
	}
	tradingDr, tradingCr, plDr, plCr := zero, zero, zero, zero

	for _, a := range src.Accounts {
		bal := src.balance(a.ID)
		switch {
		case strings.EqualFold(a.Name, accounts.StockName):
			fa.OpeningStock = bal
			continue
		case strings.EqualFold(a.Name, accounts.CashName):
			fa.CashBalance = bal
		case strings.EqualFold(a.Name, accounts.BankName):
			fa.BankBalance = bal
		}
		switch a.Type {
		case model.AccountTypeRevenue:
			if a.IsDirect() {
				tradingCr = tradingCr.Sub(bal)
			} else {
				plCr = plCr.Sub(bal)
			}
		case model.AccountTypeExpense:
			if a.IsDirect() {
				tradingDr = tradingDr.Add(bal)
			} else {
				plDr = plDr.Add(bal)
			}
		case model.AccountTypeAsset:
			fa.TotalAssets = fa.TotalAssets.Add(bal)
		case model.AccountTypeLiability:
			fa.TotalLiabilities = fa.TotalLiabilities.Sub(bal)
		case model.AccountTypeEquity:
			fa.TotalEquity = fa.TotalEquity.Sub(bal)
		}
	}

	tradingDr = tradingDr.Add(fa.OpeningStock)
	tradingCr = tradingCr.Add(fa.ClosingStock)
	fa.TotalAssets = fa.TotalAssets.Add(fa.ClosingStock)

	fa.GrossProfit = decimal.Max(zero, tradingCr.Sub(tradingDr))
	fa.GrossLoss = decimal.Max(zero, tradingDr.Sub(tradingCr))
	plCr = plCr.Add(fa.GrossProfit)
	plDr = plDr.Add(fa.GrossLoss)
	fa.NetProfit = decimal.Max(zero, plCr.Sub(plDr))
	fa.NetLoss = decimal.Max(zero, plDr.Sub(plCr))
	fa.TotalEquity = fa.TotalEquity.Add(fa.NetProfit).Sub(fa.NetLoss)

	_, fa.IsBalanced = balanced(fa.TotalAssets, fa.TotalLiabilities.Add(fa.TotalEquity))
	return fa
}
