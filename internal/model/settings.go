package model

import (
	"fmt"
	"strings"
)

// NegativeFormat controls how negative amounts are rendered.
type NegativeFormat string

const (
	NegativeMinus    NegativeFormat = "MINUS"
	NegativeBrackets NegativeFormat = "BRACKETS"
)

// ParseNegativeFormat parses MINUS or BRACKETS.
func ParseNegativeFormat(s string) (NegativeFormat, error) {
	switch f := NegativeFormat(strings.ToUpper(strings.TrimSpace(s))); f {
	case NegativeMinus, NegativeBrackets:
		return f, nil
	default:
		return "", fmt.Errorf("unknown negative format %q", s)
	}
}

// FinancialYear selects the reporting year convention.
type FinancialYear string

const (
	FinancialYearIndian   FinancialYear = "INDIAN"
	FinancialYearCalendar FinancialYear = "CALENDAR"
)

// ParseFinancialYear parses INDIAN or CALENDAR.
func ParseFinancialYear(s string) (FinancialYear, error) {
	switch f := FinancialYear(strings.ToUpper(strings.TrimSpace(s))); f {
	case FinancialYearIndian, FinancialYearCalendar:
		return f, nil
	default:
		return "", fmt.Errorf("unknown financial year %q", s)
	}
}

// Label returns the financial year containing d, e.g. "FY 2024-25" or "FY 2024".
func (f FinancialYear) Label(d Date) string {
	if f == FinancialYearCalendar {
		return fmt.Sprintf("FY %d", d.Year())
	}
	start := d.Year()
	if d.Month() < 4 {
		start--
	}
	return fmt.Sprintf("FY %d-%02d", start, (start+1)%100)
}

// Settings are the user-selectable book preferences.
type Settings struct {
	InventoryMethod ValuationMethod `json:"inventoryMethod"`
	NegativeFormat  NegativeFormat  `json:"negativeFormat"`
	FinancialYear   FinancialYear   `json:"financialYear"`
}

// DefaultSettings returns FIFO, MINUS and INDIAN.
func DefaultSettings() Settings {
	return Settings{
		InventoryMethod: FIFO,
		NegativeFormat:  NegativeMinus,
		FinancialYear:   FinancialYearIndian,
	}
}
