package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// RegisterRow is one line of an item's stock register with running totals.
type RegisterRow struct {
	Transaction  model.StockTransaction `json:"transaction"`
	BalanceQty   decimal.Decimal        `json:"balanceQty"`
	BalanceValue decimal.Decimal        `json:"balanceValue"`
	BalanceRate  decimal.Decimal        `json:"balanceRate"`
}

// Register returns an item's stock register in date order.
func (s *Service) Register(itemID string) []RegisterRow {
	history := s.History(itemID)
	rows := make([]RegisterRow, 0, len(history))
	qty, value := decimal.Zero, decimal.Zero
	for _, t := range history {
		if t.Type == model.Receipt {
			qty = qty.Add(t.Quantity)
			value = value.Add(t.Amount)
		} else {
			qty = qty.Sub(t.Quantity)
			value = value.Sub(t.Amount)
		}
		rate := decimal.Zero
		if qty.IsPositive() {
			rate = value.DivRound(qty, 4)
		}
		rows = append(rows, RegisterRow{
			Transaction:  t,
			BalanceQty:   qty,
			BalanceValue: value,
			BalanceRate:  rate,
		})
	}
	return rows
}

// Summary is the on-hand position of one item.
type Summary struct {
	Item     model.InventoryItem `json:"item"`
	Quantity decimal.Decimal     `json:"quantity"`
	Value    decimal.Decimal     `json:"value"`
	Layers   []Layer             `json:"layers"`
}

// Summaries returns the on-hand position of every item.
func (s *Service) Summaries() []Summary {
	out := make([]Summary, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, Summary{
			Item:     it,
			Quantity: s.Balance(it.ID),
			Value:    s.ItemValue(it.ID),
			Layers:   s.Layers(it.ID),
		})
	}
	return out
}
