package reports

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/format"
)

// Markdown renders projections as markdown documents.
type Markdown struct {
	Amounts format.Amounts
	// Subtitle is printed under each heading, e.g. the business name and
	// financial year label.
	Subtitle string
}

func (m Markdown) heading(b *strings.Builder, title string) {
	fmt.Fprintf(b, "# %s\n\n", title)
	if m.Subtitle != "" {
		fmt.Fprintf(b, "_%s_\n\n", m.Subtitle)
	}
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Ledger renders one account's ledger with its running balance.
func (m Markdown) Ledger(l LedgerAccount) string {
	var b strings.Builder
	m.heading(&b, fmt.Sprintf("%s (%s)", l.Account.Name, l.Account.Code))
	b.WriteString("| Date | Particulars | Debit | Credit | Balance |\n")
	b.WriteString("|---|---|--:|--:|--:|\n")
	for _, r := range l.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Date, cell(r.Particulars), m.optional(r.Debit),
			m.optional(r.Credit), m.Amounts.Balance(r.Balance))
	}
	fmt.Fprintf(&b, "| | **Total** | **%s** | **%s** | |\n", m.Amounts.Amount(l.TotalDebit), m.Amounts.Amount(l.TotalCredit))
	fmt.Fprintf(&b, "\nBalance c/d: **%s**\n", m.Amounts.Balance(l.Closing))
	return b.String()
}

// optional leaves zero amounts blank.
func (m Markdown) optional(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return m.Amounts.Amount(d)
}

// TrialBalance renders the trial balance and flags anomalies.
func (m Markdown) TrialBalance(tb TrialBalance) string {
	var b strings.Builder
	m.heading(&b, "Trial Balance")
	b.WriteString("| Code | Account | Debit | Credit | |\n")
	b.WriteString("|---|---|--:|--:|---|\n")
	for _, r := range tb.Rows {
		flag := ""
		if r.Anomaly {
			flag = "anomaly"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", r.Account.Code, cell(r.Account.Name),
			m.optional(r.Debit), m.optional(r.Credit), flag)
	}
	fmt.Fprintf(&b, "| | **Total** | **%s** | **%s** | |\n\n", m.Amounts.Amount(tb.TotalDebit), m.Amounts.Amount(tb.TotalCredit))
	if tb.Balanced {
		b.WriteString("Trial balance agrees.\n")
	} else {
		fmt.Fprintf(&b, "**Trial balance does not agree: difference %s.**\n", m.Amounts.Amount(tb.Difference))
	}
	return b.String()
}

func (m Markdown) sides(b *strings.Builder, left, right string, dr, cr []Line) {
	fmt.Fprintf(b, "| %s | Amount | %s | Amount |\n", left, right)
	b.WriteString("|---|--:|---|--:|\n")
	for i := range max(len(dr), len(cr)) {
		var l, r [2]string
		if i < len(dr) {
			l = [2]string{cell(dr[i].Label), m.Amounts.Amount(dr[i].Amount)}
		}
		if i < len(cr) {
			r = [2]string{cell(cr[i].Label), m.Amounts.Amount(cr[i].Amount)}
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", l[0], l[1], r[0], r[1])
	}
}

// Trading renders the Trading Account.
func (m Markdown) Trading(t Trading) string {
	var b strings.Builder
	m.heading(&b, "Trading Account")
	m.sides(&b, "Dr.", "Cr.", t.Debit, t.Credit)
	fmt.Fprintf(&b, "| **Total** | **%s** | **Total** | **%s** |\n", m.Amounts.Amount(t.Total), m.Amounts.Amount(t.Total))
	return b.String()
}

// ProfitLoss renders the Profit and Loss Account.
func (m Markdown) ProfitLoss(pl ProfitLoss) string {
	var b strings.Builder
	m.heading(&b, "Profit & Loss Account")
	m.sides(&b, "Dr.", "Cr.", pl.Debit, pl.Credit)
	fmt.Fprintf(&b, "| **Total** | **%s** | **Total** | **%s** |\n", m.Amounts.Amount(pl.Total), m.Amounts.Amount(pl.Total))
	return b.String()
}

// BalanceSheet renders the balance sheet and any difference between sides.
func (m Markdown) BalanceSheet(bs BalanceSheet) string {
	var b strings.Builder
	m.heading(&b, "Balance Sheet")
	m.sides(&b, "Liabilities", "Assets", bs.Liabilities, bs.Assets)
	fmt.Fprintf(&b, "| **Total** | **%s** | **Total** | **%s** |\n\n",
		m.Amounts.Amount(bs.TotalLiabilities), m.Amounts.Amount(bs.TotalAssets))
	fmt.Fprintf(&b, "Capital %s + net profit %s - net loss %s - drawings %s = %s\n",
		m.Amounts.Amount(bs.Capital), m.Amounts.Amount(bs.NetProfit), m.Amounts.Amount(bs.NetLoss),
		m.Amounts.Amount(bs.Drawings), m.Amounts.Amount(bs.NetCapital))
	if !bs.Balanced {
		fmt.Fprintf(&b, "\n**Balance sheet does not tally: difference %s.**\n", m.Amounts.Amount(bs.Difference))
	}
	return b.String()
}

// Fiscal renders the fiscal analysis summary.
func (m Markdown) Fiscal(fa FiscalAnalysis) string {
	var b strings.Builder
	m.heading(&b, "Fiscal Analysis")
	rows := []struct {
		label string
		value string
	}{
		{"Opening stock", m.Amounts.Amount(fa.OpeningStock)},
		{"Closing stock", m.Amounts.Amount(fa.ClosingStock)},
		{"Gross profit", m.Amounts.Amount(fa.GrossProfit)},
		{"Gross loss", m.Amounts.Amount(fa.GrossLoss)},
		{"Net profit", m.Amounts.Amount(fa.NetProfit)},
		{"Net loss", m.Amounts.Amount(fa.NetLoss)},
		{"Total assets", m.Amounts.Amount(fa.TotalAssets)},
		{"Total liabilities", m.Amounts.Amount(fa.TotalLiabilities)},
		{"Total equity", m.Amounts.Amount(fa.TotalEquity)},
		{"Cash", m.Amounts.Amount(fa.CashBalance)},
		{"Bank", m.Amounts.Amount(fa.BankBalance)},
		{"Balanced", fmt.Sprint(fa.IsBalanced)},
	}
	b.WriteString("| | |\n|---|--:|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.label, r.value)
	}
	return b.String()
}
