package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// parseDate parses a YYYY-MM-DD flag value. Empty means today.
func parseDate(s string) (model.Date, error) {
	if strings.TrimSpace(s) == "" {
		return model.Today(), nil
	}
	return model.ParseDate(s)
}

// parseAmount parses an amount flag, allowing thousands separators. Empty
// means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// splitPair splits "name=value" on the last '='.
func splitPair(s string) (string, string, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("expected NAME=VALUE, got %q", s)
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), nil
}

// parseItem parses an invoice line "description:qty:rate[:unit]".
func parseItem(s string) (model.InvoiceItem, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return model.InvoiceItem{}, fmt.Errorf("expected DESCRIPTION:QTY:RATE[:UNIT], got %q", s)
	}
	qty, err := parseAmount(parts[1])
	if err != nil {
		return model.InvoiceItem{}, fmt.Errorf("item %q quantity: %w", parts[0], err)
	}
	rate, err := parseAmount(parts[2])
	if err != nil {
		return model.InvoiceItem{}, fmt.Errorf("item %q rate: %w", parts[0], err)
	}
	item := model.InvoiceItem{
		Description: strings.TrimSpace(parts[0]),
		Quantity:    qty,
		Rate:        rate,
	}
	if len(parts) == 4 {
		item.Unit = strings.TrimSpace(parts[3])
	}
	return item, nil
}
