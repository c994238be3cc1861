package posting

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// ManualLine is one line of a hand-written journal entry, naming its account.
type ManualLine struct {
	Side    model.Side
	Account string
	Amount  decimal.Decimal
}

// JournalOptions controls manual entry posting.
type JournalOptions struct {
	// AutoCreate opens unknown account heads using SuggestClassification
	// instead of rejecting the entry.
	AutoCreate bool
}

// Journal posts a hand-written entry. Every line must name an account and
// carry a positive amount; the narration is required.
func Journal(ws *Workspace, date model.Date, narration string, lines []ManualLine, opts JournalOptions) (Posting, error) {
	narration = strings.TrimSpace(narration)
	if narration == "" {
		return Posting{}, invalid("narration is required")
	}
	if date.IsZero() {
		return Posting{}, invalid("entry date is required")
	}
	if len(lines) < 2 {
		return Posting{}, invalid("an entry needs at least two lines")
	}

	names := make([]string, len(lines))
	for i, l := range lines {
		names[i] = l.Account
	}

	out := make([]model.JournalLine, 0, len(lines))
	for i, l := range lines {
		if l.Side != model.Debit && l.Side != model.Credit {
			return Posting{}, invalid("line %d has unknown side %q", i+1, l.Side)
		}
		if !l.Amount.IsPositive() {
			return Posting{}, invalid("line %d amount must be positive", i+1)
		}
		if strings.TrimSpace(l.Account) == "" {
			return Posting{}, invalid("line %d has no account", i+1)
		}
		acct, ok := ws.Accounts.ByName(l.Account)
		if !ok {
			if !opts.AutoCreate {
				return Posting{}, invalid("unknown account %q", l.Account)
			}
			others := append(append([]string{}, names[:i]...), names[i+1:]...)
			var err error
			acct, err = ws.account(l.Account, SuggestClassification(others))
			if err != nil {
				return Posting{}, err
			}
		}
		out = append(out, newLine(l.Side, acct, round(l.Amount)))
	}
	return ws.finish(newEntry(date, narration, out...), nil), nil
}

// SuggestClassification guesses a profile for a new account head from the
// names of the other accounts in the entry. Trading with a purchase or a
// sales return suggests a creditor, a sale or purchase return a debtor;
// anything else is a current asset.
func SuggestClassification(others []string) Profile {
	var purchase, sales, salesReturn, purchaseReturn bool
	for _, n := range others {
		n = strings.ToLower(n)
		purchase = purchase || strings.Contains(n, "purchase")
		sales = sales || strings.Contains(n, "sales")
		salesReturn = salesReturn || strings.Contains(n, "sales return")
		purchaseReturn = purchaseReturn || strings.Contains(n, "purchase return")
	}
	switch {
	case purchase || salesReturn:
		return CreditorProfile
	case sales || purchaseReturn:
		return DebtorProfile
	default:
		return CashProfile
	}
}
