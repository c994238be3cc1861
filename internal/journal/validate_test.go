package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func TestValidate_Balanced(t *testing.T) {
	e := simpleEntry(date(2025, 1, 15), "rent", "cash", "100.00")
	assert.Empty(t, ValidateEntry(e, defaultAccounts))
}

func TestValidate_WithinTolerance(t *testing.T) {
	e := model.JournalEntry{
		Date: date(2025, 1, 15),
		Lines: []model.JournalLine{
			line(model.Debit, "rent", "100.00"),
			line(model.Credit, "cash", "99.99"),
		},
	}
	assert.Empty(t, ValidateEntry(e, defaultAccounts), "a 0.01 difference is tolerated")

	e.Lines[1].Amount = dec("99.98")
	errs := ValidateEntry(e, defaultAccounts)
	require.Len(t, errs, 1)
	assert.Equal(t, InvariantBalanced, errs[0].Invariant)
	assert.Contains(t, errs[0].Error(), "debits (100.00) != credits (99.98)")
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name      string
		entry     model.JournalEntry
		invariant int
	}{
		{
			name: "unbalanced",
			entry: model.JournalEntry{Date: date(2025, 1, 1), Lines: []model.JournalLine{
				line(model.Debit, "cash", "100"), line(model.Credit, "capital", "90"),
			}},
			invariant: InvariantBalanced,
		},
		{
			name: "unknown side",
			entry: model.JournalEntry{Date: date(2025, 1, 1), Lines: []model.JournalLine{
				line(model.Debit, "cash", "0"), line(model.Side("SIDEWAYS"), "capital", "0"),
			}},
			invariant: InvariantLineShape,
		},
		{
			name: "negative amount",
			entry: model.JournalEntry{Date: date(2025, 1, 1), Lines: []model.JournalLine{
				line(model.Debit, "cash", "-10"), line(model.Credit, "capital", "-10"),
			}},
			invariant: InvariantLineShape,
		},
		{
			name:      "unknown account",
			entry:     simpleEntry(date(2025, 1, 1), "ghost", "cash", "10"),
			invariant: InvariantAccountRef,
		},
		{
			name:      "undated",
			entry:     simpleEntry(model.Date{}, "rent", "cash", "10"),
			invariant: InvariantDate,
		},
		{
			name: "single line",
			entry: model.JournalEntry{Date: date(2025, 1, 1), Lines: []model.JournalLine{
				line(model.Debit, "cash", "0"),
			}},
			invariant: InvariantLineCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateEntry(tt.entry, defaultAccounts)
			require.NotEmpty(t, errs)
			assert.True(t, errs.Has(tt.invariant), "expected invariant %d in %v", tt.invariant, errs)
		})
	}
}

func TestValidate_NilCheckerSkipsAccountLookup(t *testing.T) {
	e := simpleEntry(date(2025, 1, 1), "anything", "else", "5")
	assert.Empty(t, ValidateEntry(e, nil))
}

func TestValidationErrors_Message(t *testing.T) {
	errs := ValidationErrors{
		{Invariant: 1, EntryID: "e1", Description: "a"},
		{Invariant: 3, EntryID: "e1", Description: "b"},
	}
	assert.Equal(t, "validation failed: invariant 1 [e1]: a; invariant 3 [e1]: b", errs.Error())
}
