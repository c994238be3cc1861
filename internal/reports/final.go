package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// Statement labels.
const (
	LabelOpeningStock  = "To Opening Stock"
	LabelNetPurchases  = "To Net Purchases"
	LabelNetSales      = "By Net Sales"
	LabelClosingStock  = "By Closing Stock"
	LabelGrossProfit   = "Gross Profit"
	LabelGrossLoss     = "Gross Loss"
	LabelNetProfit     = "Net Profit"
	LabelNetLoss       = "Net Loss"
	LabelCapital       = "Capital"
	LabelCreditors     = "Sundry Creditors"
	LabelOverdraft     = "Bank Overdraft"
	LabelCashShortfall = "Cash Shortfall"
	LabelCash          = "Cash in Hand"
	LabelBank          = "Cash at Bank"
	LabelDebtors       = "Sundry Debtors"
)

// Trading is the Trading Account. Debit and Credit hold the rows as
// displayed, the balancing figure included, and both total Total.
type Trading struct {
	OpeningStock    decimal.Decimal `json:"openingStock"`
	GrossPurchases  decimal.Decimal `json:"grossPurchases"`
	PurchaseReturns decimal.Decimal `json:"purchaseReturns"`
	NetPurchases    decimal.Decimal `json:"netPurchases"`
	DirectExpenses  []Line          `json:"directExpenses"`
	GrossSales      decimal.Decimal `json:"grossSales"`
	SalesReturns    decimal.Decimal `json:"salesReturns"`
	NetSales        decimal.Decimal `json:"netSales"`
	DirectIncomes   []Line          `json:"directIncomes"`
	ClosingStock    decimal.Decimal `json:"closingStock"`
	GrossProfit     decimal.Decimal `json:"grossProfit"`
	GrossLoss       decimal.Decimal `json:"grossLoss"`
	Debit           []Line          `json:"debit"`
	Credit          []Line          `json:"credit"`
	Total           decimal.Decimal `json:"total"`
}

// BuildTrading computes gross profit or loss. Purchase, Sales and their
// return accounts are netted when they are direct; every other direct
// revenue or expense is listed on its own.
func BuildTrading(src Source) Trading {
	t := Trading{
		GrossPurchases:  decimal.Zero,
		PurchaseReturns: decimal.Zero,
		GrossSales:      decimal.Zero,
		SalesReturns:    decimal.Zero,
		ClosingStock:    src.closingStock(),
	}
	if _, bal, ok := src.named(accounts.StockName); ok {
		t.OpeningStock = bal
	} else {
		t.OpeningStock = decimal.Zero
	}

	for _, a := range src.Accounts {
		if !a.IsDirect() || (a.Type != model.AccountTypeRevenue && a.Type != model.AccountTypeExpense) {
			continue
		}
		bal := src.balance(a.ID)
		if isTradingHead(a) {
			switch strings.ToLower(a.Name) {
			case strings.ToLower(accounts.PurchaseName):
				t.GrossPurchases = t.GrossPurchases.Add(bal)
			case strings.ToLower(accounts.PurchaseReturnName):
				t.PurchaseReturns = t.PurchaseReturns.Sub(bal)
			case strings.ToLower(accounts.SalesName):
				t.GrossSales = t.GrossSales.Sub(bal)
			case strings.ToLower(accounts.SalesReturnName):
				t.SalesReturns = t.SalesReturns.Add(bal)
			}
			continue
		}
		if isNil(bal) {
			continue
		}
		if a.Type == model.AccountTypeExpense {
			t.DirectExpenses = append(t.DirectExpenses, accountLine(a, bal))
		} else {
			t.DirectIncomes = append(t.DirectIncomes, accountLine(a, bal.Neg()))
		}
	}
	t.NetPurchases = t.GrossPurchases.Sub(t.PurchaseReturns)
	t.NetSales = t.GrossSales.Sub(t.SalesReturns)

	t.Debit = append([]Line{
		{Label: LabelOpeningStock, Amount: t.OpeningStock},
		{Label: LabelNetPurchases, Amount: t.NetPurchases},
	}, t.DirectExpenses...)
	t.Credit = append([]Line{{Label: LabelNetSales, Amount: t.NetSales}}, t.DirectIncomes...)
	t.Credit = append(t.Credit, Line{Label: LabelClosingStock, Amount: t.ClosingStock})

	t.GrossProfit, t.GrossLoss = decimal.Zero, decimal.Zero
	dr, cr := sum(t.Debit), sum(t.Credit)
	switch {
	case cr.GreaterThan(dr):
		t.GrossProfit = cr.Sub(dr)
		t.Debit = append(t.Debit, Line{Label: "To " + LabelGrossProfit + " c/d", Amount: t.GrossProfit})
	case dr.GreaterThan(cr):
		t.GrossLoss = dr.Sub(cr)
		t.Credit = append(t.Credit, Line{Label: "By " + LabelGrossLoss + " c/d", Amount: t.GrossLoss})
	}
	t.Total = decimal.Max(dr, cr)
	return t
}

// ProfitLoss is the Profit and Loss Account.
type ProfitLoss struct {
	GrossProfit      decimal.Decimal `json:"grossProfit"`
	GrossLoss        decimal.Decimal `json:"grossLoss"`
	IndirectExpenses []Line          `json:"indirectExpenses"`
	IndirectIncomes  []Line          `json:"indirectIncomes"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	NetLoss          decimal.Decimal `json:"netLoss"`
	Debit            []Line          `json:"debit"`
	Credit           []Line          `json:"credit"`
	Total            decimal.Decimal `json:"total"`
}

// BuildProfitLoss carries the trading result down and adds every revenue and
// expense account that is not direct.
func BuildProfitLoss(src Source, trading Trading) ProfitLoss {
	pl := ProfitLoss{GrossProfit: trading.GrossProfit, GrossLoss: trading.GrossLoss}
	for _, a := range src.Accounts {
		if a.IsDirect() {
			continue
		}
		bal := src.balance(a.ID)
		if isNil(bal) {
			continue
		}
		switch a.Type {
		case model.AccountTypeExpense:
			pl.IndirectExpenses = append(pl.IndirectExpenses, accountLine(a, bal))
		case model.AccountTypeRevenue:
			pl.IndirectIncomes = append(pl.IndirectIncomes, accountLine(a, bal.Neg()))
		}
	}

	if pl.GrossLoss.IsPositive() {
		pl.Debit = append(pl.Debit, Line{Label: "To " + LabelGrossLoss + " b/d", Amount: pl.GrossLoss})
	}
	pl.Debit = append(pl.Debit, pl.IndirectExpenses...)
	if pl.GrossProfit.IsPositive() {
		pl.Credit = append(pl.Credit, Line{Label: "By " + LabelGrossProfit + " b/d", Amount: pl.GrossProfit})
	}
	pl.Credit = append(pl.Credit, pl.IndirectIncomes...)

	pl.NetProfit, pl.NetLoss = decimal.Zero, decimal.Zero
	dr, cr := sum(pl.Debit), sum(pl.Credit)
	switch {
	case cr.GreaterThan(dr):
		pl.NetProfit = cr.Sub(dr)
		pl.Debit = append(pl.Debit, Line{Label: "To " + LabelNetProfit, Amount: pl.NetProfit})
	case dr.GreaterThan(cr):
		pl.NetLoss = dr.Sub(cr)
		pl.Credit = append(pl.Credit, Line{Label: "By " + LabelNetLoss, Amount: pl.NetLoss})
	}
	pl.Total = decimal.Max(dr, cr)
	return pl
}

// BalanceSheet is the statement of position. Difference above the posting
// tolerance means the accumulated postings are inconsistent; it is reported,
// never corrected.
type BalanceSheet struct {
	Capital          decimal.Decimal `json:"capital"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	NetLoss          decimal.Decimal `json:"netLoss"`
	Drawings         decimal.Decimal `json:"drawings"`
	NetCapital       decimal.Decimal `json:"netCapital"`
	Creditors        []Line          `json:"creditors"`
	OtherLiabilities []Line          `json:"otherLiabilities"`
	BankOverdraft    decimal.Decimal `json:"bankOverdraft"`
	CashShortfall    decimal.Decimal `json:"cashShortfall"`
	Cash             decimal.Decimal `json:"cash"`
	Bank             decimal.Decimal `json:"bank"`
	FixedAssets      []Line          `json:"fixedAssets"`
	Debtors          []Line          `json:"debtors"`
	OtherAssets      []Line          `json:"otherAssets"`
	ClosingStock     decimal.Decimal `json:"closingStock"`
	Liabilities      []Line          `json:"liabilities"`
	Assets           []Line          `json:"assets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	Difference       decimal.Decimal `json:"difference"`
	Balanced         bool            `json:"balanced"`
}

// BuildBalanceSheet lays out capital and liabilities against assets. A
// negative cash or bank balance moves to the liabilities side.
func BuildBalanceSheet(src Source, pl ProfitLoss, trading Trading) BalanceSheet {
	bs := BalanceSheet{
		Capital:       decimal.Zero,
		Drawings:      decimal.Zero,
		NetProfit:     pl.NetProfit,
		NetLoss:       pl.NetLoss,
		BankOverdraft: decimal.Zero,
		CashShortfall: decimal.Zero,
		Cash:          decimal.Zero,
		Bank:          decimal.Zero,
		ClosingStock:  trading.ClosingStock,
	}
	for _, a := range src.Accounts {
		bal := src.balance(a.ID)
		switch {
		case strings.EqualFold(a.Name, accounts.CashName):
			if bal.IsNegative() {
				bs.CashShortfall = bal.Neg()
			} else {
				bs.Cash = bal
			}
			continue
		case strings.EqualFold(a.Name, accounts.BankName):
			if bal.IsNegative() {
				bs.BankOverdraft = bal.Neg()
			} else {
				bs.Bank = bal
			}
			continue
		case strings.EqualFold(a.Name, accounts.StockName):
			// Carried into the Trading Account as opening stock.
			continue
		}
		if isNil(bal) {
			continue
		}
		switch a.Type {
		case model.AccountTypeEquity:
			if a.Classification == model.ClassOwnerDrawings {
				bs.Drawings = bs.Drawings.Add(bal)
			} else {
				bs.Capital = bs.Capital.Sub(bal)
			}
		case model.AccountTypeLiability:
			if a.Classification == model.ClassSundryCreditor {
				bs.Creditors = append(bs.Creditors, accountLine(a, bal.Neg()))
			} else {
				bs.OtherLiabilities = append(bs.OtherLiabilities, accountLine(a, bal.Neg()))
			}
		case model.AccountTypeAsset:
			switch a.Classification {
			case model.ClassTangibleAsset:
				bs.FixedAssets = append(bs.FixedAssets, accountLine(a, bal))
			case model.ClassSundryDebtor:
				bs.Debtors = append(bs.Debtors, accountLine(a, bal))
			default:
				bs.OtherAssets = append(bs.OtherAssets, accountLine(a, bal))
			}
		}
	}
	bs.NetCapital = bs.Capital.Add(bs.NetProfit).Sub(bs.NetLoss).Sub(bs.Drawings)

	bs.Liabilities = append(bs.Liabilities, Line{Label: LabelCapital, Amount: bs.NetCapital})
	if creditors := sum(bs.Creditors); !creditors.IsZero() {
		bs.Liabilities = append(bs.Liabilities, Line{Label: LabelCreditors, Amount: creditors})
	}
	bs.Liabilities = append(bs.Liabilities, bs.OtherLiabilities...)
	if bs.BankOverdraft.IsPositive() {
		bs.Liabilities = append(bs.Liabilities, Line{Label: LabelOverdraft, Amount: bs.BankOverdraft})
	}
	if bs.CashShortfall.IsPositive() {
		bs.Liabilities = append(bs.Liabilities, Line{Label: LabelCashShortfall, Amount: bs.CashShortfall})
	}

	if bs.Cash.IsPositive() {
		bs.Assets = append(bs.Assets, Line{Label: LabelCash, Amount: bs.Cash})
	}
	if bs.Bank.IsPositive() {
		bs.Assets = append(bs.Assets, Line{Label: LabelBank, Amount: bs.Bank})
	}
	bs.Assets = append(bs.Assets, bs.FixedAssets...)
	if debtors := sum(bs.Debtors); !debtors.IsZero() {
		bs.Assets = append(bs.Assets, Line{Label: LabelDebtors, Amount: debtors})
	}
	bs.Assets = append(bs.Assets, bs.OtherAssets...)
	if !bs.ClosingStock.IsZero() {
		bs.Assets = append(bs.Assets, Line{Label: "Closing Stock", Amount: bs.ClosingStock})
	}

	bs.TotalLiabilities = sum(bs.Liabilities)
	bs.TotalAssets = sum(bs.Assets)
	bs.Difference, bs.Balanced = balanced(bs.TotalAssets, bs.TotalLiabilities)
	return bs
}

// FinalAccounts bundles the three statements computed from one source.
type FinalAccounts struct {
	Trading      Trading      `json:"trading"`
	ProfitLoss   ProfitLoss   `json:"profitLoss"`
	BalanceSheet BalanceSheet `json:"balanceSheet"`
}

// BuildFinalAccounts computes Trading, P&L and the balance sheet in turn.
func BuildFinalAccounts(src Source) FinalAccounts {
	t := BuildTrading(src)
	pl := BuildProfitLoss(src, t)
	return FinalAccounts{Trading: t, ProfitLoss: pl, BalanceSheet: BuildBalanceSheet(src, pl, t)}
}
