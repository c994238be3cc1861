package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func TestRoundTrip(t *testing.T) {
	entries := []model.JournalEntry{
		{
			ID:            "e1",
			TransactionID: "TXN-1a2b3c4d",
			Date:          date(2025, 1, 3),
			Narration:     "Being goods sold, on credit",
			Lines: []model.JournalLine{
				{ID: "l1", Type: model.Debit, AccountID: "d1", AccountName: "Ramesh", Code: "1234", Amount: dec("118.00")},
				{ID: "l2", Type: model.Credit, AccountID: "4", AccountName: "Sales A/c", Code: "3001", Amount: dec("118.00")},
			},
		},
		{
			ID:                  "e2",
			TransactionID:       "TXN-5e6f7a8b",
			Date:                date(2025, 3, 31),
			Narration:           "Being depreciation charged",
			IsDepreciationEntry: true,
			Lines: []model.JournalLine{
				{ID: "l3", Type: model.Debit, AccountID: "dep", AccountName: "Depreciation A/c", Amount: dec("10.50")},
				{ID: "l4", Type: model.Credit, AccountID: "m", AccountName: "Machinery A/c", Amount: dec("10.50")},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), "entry_id,"))
	assert.Contains(t, buf.String(), `"Being goods sold, on credit"`)

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range entries {
		assert.Equal(t, entries[i].ID, got[i].ID)
		assert.Equal(t, entries[i].TransactionID, got[i].TransactionID)
		assert.True(t, entries[i].Date.Equal(got[i].Date.Time))
		assert.Equal(t, entries[i].Narration, got[i].Narration)
		assert.Equal(t, entries[i].IsDepreciationEntry, got[i].IsDepreciationEntry)
		require.Len(t, got[i].Lines, 2)
		for j := range entries[i].Lines {
			assert.Equal(t, entries[i].Lines[j].ID, got[i].Lines[j].ID)
			assert.Equal(t, entries[i].Lines[j].Type, got[i].Lines[j].Type)
			assert.Equal(t, entries[i].Lines[j].AccountID, got[i].Lines[j].AccountID)
			assert.True(t, entries[i].Lines[j].Amount.Equal(got[i].Lines[j].Amount), "amount mismatch entry %d line %d", i, j)
		}
	}
}

func TestReadEntries_Empty(t *testing.T) {
	got, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnmarshalRow_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"short", []string{"e1"}},
		{"no entry id", []string{"", "", "2025-01-01", "", "", "l", "a", "", "", "1", ""}},
		{"bad date", []string{"e1", "", "01/01/2025", "", "", "l", "a", "", "", "1", ""}},
		{"both sides", []string{"e1", "", "2025-01-01", "", "", "l", "a", "", "", "1", "1"}},
		{"no side", []string{"e1", "", "2025-01-01", "", "", "l", "a", "", "", "", ""}},
		{"bad amount", []string{"e1", "", "2025-01-01", "", "", "l", "a", "", "", "ten", ""}},
		{"bad flag", []string{"e1", "", "2025-01-01", "", "maybe", "l", "a", "", "", "1", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := UnmarshalRow(tt.row)
			assert.Error(t, err)
		})
	}
}
