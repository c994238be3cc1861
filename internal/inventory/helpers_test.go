package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func date(y, m, d int) model.Date {
	return model.NewDate(y, time.Month(m), d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newWidgetService returns a service holding one item, "Widget".
func newWidgetService(t *testing.T, method model.ValuationMethod) (*Service, model.InventoryItem) {
	t.Helper()
	svc, err := NewService(nil, nil, method)
	require.NoError(t, err)
	item, created, err := svc.FindOrCreateItem("Widget", "", decimal.Zero)
	require.NoError(t, err)
	require.True(t, created)
	return svc, item
}

func receive(t *testing.T, svc *Service, itemID string, d model.Date, qty, rate string) {
	t.Helper()
	_, err := svc.Receive(d, itemID, dec(qty), dec(rate), "")
	require.NoError(t, err)
}

func issue(t *testing.T, svc *Service, itemID string, d model.Date, qty string) model.StockTransaction {
	t.Helper()
	txn, err := svc.Issue(d, itemID, dec(qty), "")
	require.NoError(t, err)
	return txn
}
