package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func TestFIFO_IssueCost(t *testing.T) {
	svc, w := newWidgetService(t, model.FIFO)
	receive(t, svc, w.ID, date(2025, 1, 1), "10", "5")
	receive(t, svc, w.ID, date(2025, 1, 2), "10", "7")

	first := issue(t, svc, w.ID, date(2025, 1, 3), "15")
	assert.True(t, first.Amount.Equal(dec("85")), "10x5 + 5x7, got %s", first.Amount)
	assert.True(t, first.Rate.Equal(dec("5.6667")), "got %s", first.Rate)

	second := issue(t, svc, w.ID, date(2025, 1, 4), "5")
	assert.True(t, second.Amount.Equal(dec("35")), "got %s", second.Amount)
	assert.True(t, svc.Balance(w.ID).IsZero())
	assert.True(t, svc.ClosingValue().IsZero())
}

func TestFIFO_ReceiptsSortedByDate(t *testing.T) {
	svc, w := newWidgetService(t, model.FIFO)
	receive(t, svc, w.ID, date(2025, 2, 1), "10", "7")
	receive(t, svc, w.ID, date(2025, 1, 1), "10", "5")

	assert.True(t, svc.IssueCost(w.ID, dec("10")).Equal(dec("50")), "the earlier-dated receipt is consumed first")
}

func TestFIFO_ShortfallUsesLastPurchaseRate(t *testing.T) {
	svc, w := newWidgetService(t, model.FIFO)
	receive(t, svc, w.ID, date(2025, 1, 1), "10", "5")
	require.NoError(t, svc.SetLastPurchaseRate(w.ID, dec("8")))

	assert.True(t, svc.IssueCost(w.ID, dec("15")).Equal(dec("90")), "10x5 + 5x8")
}

func TestLIFO_IssueCost(t *testing.T) {
	svc, w := newWidgetService(t, model.LIFO)
	receive(t, svc, w.ID, date(2025, 1, 1), "10", "5")
	receive(t, svc, w.ID, date(2025, 1, 2), "10", "7")

	first := issue(t, svc, w.ID, date(2025, 1, 3), "15")
	assert.True(t, first.Amount.Equal(dec("95")), "10x7 + 5x5, got %s", first.Amount)

	second := issue(t, svc, w.ID, date(2025, 1, 4), "5")
	assert.True(t, second.Amount.Equal(dec("25")), "got %s", second.Amount)
}

func TestLIFO_ReplaysPastIssues(t *testing.T) {
	svc, w := newWidgetService(t, model.LIFO)
	receive(t, svc, w.ID, date(2025, 1, 1), "10", "5")
	issue(t, svc, w.ID, date(2025, 1, 2), "5")
	receive(t, svc, w.ID, date(2025, 1, 3), "10", "7")

	layers := svc.Layers(w.ID)
	require.Len(t, layers, 2)
	assert.True(t, layers[0].Quantity.Equal(dec("10")))
	assert.True(t, layers[0].Rate.Equal(dec("7")))
	assert.True(t, layers[1].Quantity.Equal(dec("5")))

	assert.True(t, svc.IssueCost(w.ID, dec("12")).Equal(dec("80")), "10x7 + 2x5")
}

func TestFIFO_SameHistoryDifferentResult(t *testing.T) {
	svc, w := newWidgetService(t, model.FIFO)
	receive(t, svc, w.ID, date(2025, 1, 1), "10", "5")
	issue(t, svc, w.ID, date(2025, 1, 2), "5")
	receive(t, svc, w.ID, date(2025, 1, 3), "10", "7")

	assert.True(t, svc.IssueCost(w.ID, dec("12")).Equal(dec("74")), "5x5 + 7x7")
}

func TestWeightedAverage_IssueCost(t *testing.T) {
	svc, w := newWidgetService(t, model.WeightedAverage)
	receive(t, svc, w.ID, date(2025, 1, 1), "10", "5")
	receive(t, svc, w.ID, date(2025, 1, 2), "10", "7")

	first := issue(t, svc, w.ID, date(2025, 1, 3), "15")
	assert.True(t, first.Amount.Equal(dec("90")), "15 at average 6, got %s", first.Amount)

	receive(t, svc, w.ID, date(2025, 1, 4), "10", "9")
	layers := svc.Layers(w.ID)
	require.Len(t, layers, 1)
	assert.True(t, layers[0].Quantity.Equal(dec("15")))
	assert.True(t, layers[0].Rate.Equal(dec("8")), "(5x6 + 10x9) / 15, got %s", layers[0].Rate)
}

func TestCost_ZeroAndEmpty(t *testing.T) {
	assert.True(t, Cost(nil, dec("3"), dec("4")).Equal(dec("12")))
	assert.True(t, Cost([]Layer{{Quantity: dec("1"), Value: dec("9")}}, decimal.Zero, dec("4")).IsZero())
}

func TestStrategyFor(t *testing.T) {
	for _, m := range []model.ValuationMethod{model.FIFO, model.LIFO, model.WeightedAverage} {
		s, err := StrategyFor(m)
		require.NoError(t, err)
		assert.Equal(t, m, s.Method())
	}
	_, err := StrategyFor("HIFO")
	assert.Error(t, err)
}
