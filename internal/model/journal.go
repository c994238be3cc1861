package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the debit or credit side of a journal line.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// ParseSide parses DEBIT/CREDIT, also accepting Dr and Cr.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBIT", "DR":
		return Debit, nil
	case "CREDIT", "CR":
		return Credit, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

// JournalLine is one side of a journal entry against a single account.
type JournalLine struct {
	ID          string          `json:"id"`
	Type        Side            `json:"type"`
	AccountID   string          `json:"accountId"`
	AccountName string          `json:"accountName"`
	Code        string          `json:"code,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// Signed returns +amount for a debit and -amount for a credit.
func (l JournalLine) Signed() decimal.Decimal {
	if l.Type == Credit {
		return l.Amount.Neg()
	}
	return l.Amount
}

// JournalEntry is a posted, immutable set of balanced lines.
type JournalEntry struct {
	ID                  string        `json:"id"`
	TransactionID       string        `json:"transactionId,omitempty"`
	Date                Date          `json:"date"`
	Narration           string        `json:"narration"`
	Lines               []JournalLine `json:"lines"`
	IsDepreciationEntry bool          `json:"isDepreciationEntry,omitempty"`
}

// Totals returns the debit and credit totals of the entry.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		switch l.Type {
		case Debit:
			debit = debit.Add(l.Amount)
		case Credit:
			credit = credit.Add(l.Amount)
		}
	}
	return debit, credit
}

// Touches reports whether any line references accountID.
func (e JournalEntry) Touches(accountID string) bool {
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}
