package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StockMovement is the direction of a stock transaction.
type StockMovement string

const (
	Receipt StockMovement = "RECEIPT"
	Issue   StockMovement = "ISSUE"
)

// StockTransaction is one movement in the perpetual stock ledger.
type StockTransaction struct {
	ID       string          `json:"id"`
	Date     Date            `json:"date"`
	Type     StockMovement   `json:"type"`
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
	RefDocID string          `json:"refDocId,omitempty"`
}

// InventoryItem is a stock-keeping unit.
type InventoryItem struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	LastPurchaseRate decimal.Decimal `json:"lastPurchaseRate"`
}

// ValuationMethod selects how issues are costed.
type ValuationMethod string

const (
	FIFO            ValuationMethod = "FIFO"
	LIFO            ValuationMethod = "LIFO"
	WeightedAverage ValuationMethod = "WEIGHTED_AVERAGE"
)

// ParseValuationMethod parses a valuation method name.
func ParseValuationMethod(s string) (ValuationMethod, error) {
	switch m := ValuationMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case FIFO, LIFO, WeightedAverage:
		return m, nil
	case "WAC", "AVERAGE":
		return WeightedAverage, nil
	default:
		return "", fmt.Errorf("unknown valuation method %q", s)
	}
}
