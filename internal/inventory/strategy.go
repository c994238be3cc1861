package inventory

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// Layer is a quantity of stock still on hand at a single cost.
type Layer struct {
	RefDocID string          `json:"refDocId,omitempty"`
	Date     model.Date      `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Value    decimal.Decimal `json:"value"`
}

// Strategy decides which stock is consumed by an issue.
type Strategy interface {
	Method() model.ValuationMethod
	// Layers returns the stock remaining after history, in the order the
	// next issue consumes it. history holds one item's transactions in
	// chronological order.
	Layers(history []model.StockTransaction) []Layer
}

// StrategyFor returns the costing strategy for a valuation method.
func StrategyFor(m model.ValuationMethod) (Strategy, error) {
	switch m {
	case model.FIFO:
		return FIFO{}, nil
	case model.LIFO:
		return LIFO{}, nil
	case model.WeightedAverage:
		return WeightedAverage{}, nil
	default:
		return nil, fmt.Errorf("unknown valuation method %q", m)
	}
}

// FIFO consumes the oldest receipts first.
type FIFO struct{}

func (FIFO) Method() model.ValuationMethod { return model.FIFO }

// Layers sorts receipts by date and skips the quantity already issued.
func (FIFO) Layers(history []model.StockTransaction) []Layer {
	var receipts []model.StockTransaction
	totalIssued := decimal.Zero
	for _, t := range history {
		switch t.Type {
		case model.Receipt:
			receipts = append(receipts, t)
		case model.Issue:
			totalIssued = totalIssued.Add(t.Quantity)
		}
	}
	slices.SortStableFunc(receipts, func(a, b model.StockTransaction) int {
		return a.Date.Compare(b.Date.Time)
	})

	var layers []Layer
	skipped := decimal.Zero
	for _, r := range receipts {
		if skipped.Add(r.Quantity).LessThanOrEqual(totalIssued) {
			skipped = skipped.Add(r.Quantity)
			continue
		}
		avail := r.Quantity.Sub(decimal.Max(decimal.Zero, totalIssued.Sub(skipped)))
		skipped = skipped.Add(r.Quantity)
		layers = append(layers, Layer{
			RefDocID: r.RefDocID,
			Date:     r.Date,
			Quantity: avail,
			Rate:     r.Rate,
			Value:    avail.Mul(r.Rate),
		})
	}
	return layers
}

// LIFO consumes the most recent receipts first. Past issues are replayed in
// date order so each one drew from the layers on hand at the time.
type LIFO struct{}

func (LIFO) Method() model.ValuationMethod { return model.LIFO }

func (LIFO) Layers(history []model.StockTransaction) []Layer {
	var stack []Layer
	for _, t := range history {
		switch t.Type {
		case model.Receipt:
			stack = append(stack, Layer{
				RefDocID: t.RefDocID,
				Date:     t.Date,
				Quantity: t.Quantity,
				Rate:     t.Rate,
				Value:    t.Quantity.Mul(t.Rate),
			})
		case model.Issue:
			need := t.Quantity
			for need.IsPositive() && len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.Quantity.LessThanOrEqual(need) {
					need = need.Sub(top.Quantity)
					stack = stack[:len(stack)-1]
					continue
				}
				top.Quantity = top.Quantity.Sub(need)
				top.Value = top.Quantity.Mul(top.Rate)
				need = decimal.Zero
			}
		}
	}
	slices.Reverse(stack)
	return stack
}

// WeightedAverage pools all stock at a moving average cost. Each receipt
// re-averages the pool; each issue removes its recorded cost.
type WeightedAverage struct{}

func (WeightedAverage) Method() model.ValuationMethod { return model.WeightedAverage }

func (WeightedAverage) Layers(history []model.StockTransaction) []Layer {
	qty, value := decimal.Zero, decimal.Zero
	var last model.Date
	for _, t := range history {
		switch t.Type {
		case model.Receipt:
			qty = qty.Add(t.Quantity)
			value = value.Add(t.Quantity.Mul(t.Rate))
		case model.Issue:
			qty = qty.Sub(t.Quantity)
			value = value.Sub(t.Amount)
		}
		last = t.Date
		if !qty.IsPositive() {
			qty, value = decimal.Zero, decimal.Zero
		}
	}
	if qty.IsZero() {
		return nil
	}
	return []Layer{{
		Date:     last,
		Quantity: qty,
		Rate:     value.Div(qty),
		Value:    value,
	}}
}

// Cost walks layers in order and returns the cost of taking qty. Any
// quantity the layers cannot cover is valued at fallbackRate.
func Cost(layers []Layer, qty, fallbackRate decimal.Decimal) decimal.Decimal {
	cost := decimal.Zero
	remaining := qty
	for _, l := range layers {
		if !remaining.IsPositive() {
			break
		}
		if !l.Quantity.IsPositive() {
			continue
		}
		if l.Quantity.LessThanOrEqual(remaining) {
			cost = cost.Add(l.Value)
			remaining = remaining.Sub(l.Quantity)
			continue
		}
		cost = cost.Add(l.Value.Mul(remaining).Div(l.Quantity))
		remaining = decimal.Zero
	}
	if remaining.IsPositive() {
		cost = cost.Add(remaining.Mul(fallbackRate))
	}
	return cost
}
