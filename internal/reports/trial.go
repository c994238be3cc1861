package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/journal"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// TrialBalanceRow is one account with a nonzero balance.
type TrialBalanceRow struct {
	Account model.Account   `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Anomaly bool            `json:"anomaly"`
}

// TrialBalance lists balances by side. An anomaly flags a balance on the
// side opposite the account type's normal side.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Difference  decimal.Decimal   `json:"difference"`
	Balanced    bool              `json:"balanced"`
}

// Anomalies returns the rows flagged as anomalies.
func (tb TrialBalance) Anomalies() []TrialBalanceRow {
	var out []TrialBalanceRow
	for _, r := range tb.Rows {
		if r.Anomaly {
			out = append(out, r)
		}
	}
	return out
}

// BuildTrialBalance folds every account in chart order.
func BuildTrialBalance(src Source) TrialBalance {
	tb := TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, a := range src.Accounts {
		bal := src.balance(a.ID)
		if isNil(bal) {
			continue
		}
		row := TrialBalanceRow{Account: a, Debit: decimal.Zero, Credit: decimal.Zero}
		if bal.IsPositive() {
			row.Debit = bal
			tb.TotalDebit = tb.TotalDebit.Add(bal)
		} else {
			row.Credit = bal.Neg()
			tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		}
		row.Anomaly = anomalous(a, bal)
		tb.Rows = append(tb.Rows, row)
	}
	tb.Difference, tb.Balanced = balanced(tb.TotalDebit, tb.TotalCredit)
	return tb
}

// anomalous reports a balance on the wrong side for the account type.
// Return accounts legitimately carry the reverse balance.
func anomalous(a model.Account, bal decimal.Decimal) bool {
	if bal.Abs().LessThanOrEqual(journal.Tolerance) {
		return false
	}
	if strings.Contains(strings.ToLower(a.Name), "return") {
		return false
	}
	return a.Type.DebitNormal() != bal.IsPositive()
}
