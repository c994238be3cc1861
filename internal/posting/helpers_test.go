package posting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/inventory"
	"github.com/cleared-dev/bookkeeper/internal/journal"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

func date(y, m, d int) model.Date {
	return model.NewDate(y, time.Month(m), d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// docIndex implements DocumentIndex for testing.
type docIndex map[string]model.SubsidiaryEntry

func (d docIndex) Document(number string) (model.SubsidiaryEntry, bool) {
	doc, ok := d[number]
	return doc, ok
}

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	inv, err := inventory.NewService(nil, nil, model.FIFO)
	require.NoError(t, err)
	return &Workspace{Accounts: accounts.Default(), Inventory: inv, Documents: docIndex{}}
}

// amounts maps account name to side-prefixed amount, e.g. "Dr 100".
func amounts(e model.JournalEntry) map[string]string {
	out := make(map[string]string)
	for _, l := range e.Lines {
		side := "Dr"
		if l.Type == model.Credit {
			side = "Cr"
		}
		out[l.AccountName] = side + " " + l.Amount.StringFixed(2)
	}
	return out
}

// requireBalanced checks the entry passes journal validation against the
// workspace chart.
func requireBalanced(t *testing.T, ws *Workspace, e model.JournalEntry) {
	t.Helper()
	require.Empty(t, journal.ValidateEntry(e, ws.Accounts))
}

func item(desc, qty, rate string) model.InvoiceItem {
	return model.InvoiceItem{Description: desc, Quantity: dec(qty), Rate: dec(rate)}
}

func purchase(t *testing.T, ws *Workspace, number string, items ...model.InvoiceItem) model.SubsidiaryEntry {
	t.Helper()
	doc, _, err := Invoice(ws, model.SubsidiaryEntry{
		InvoiceNumber: number,
		Date:          date(2024, 4, 1),
		BookType:      model.BookPurchase,
		PartyName:     "Acme Supplies",
		Items:         items,
	})
	require.NoError(t, err)
	ws.Documents.(docIndex)[doc.InvoiceNumber] = doc
	return doc
}
