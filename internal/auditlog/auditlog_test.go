package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 4, 5, 10, 30, 0, 0, time.UTC)

func invoiceEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Command:   "invoice",
		Action:    "post_invoice",
		Details:   "S-1A2B Bharat Stores 180.00",
		Reference: "TXN-1a2b3c4d",
	}
}

func TestAppend_CreatesFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, invoiceEntry()))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "audit-log.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "timestamp,command,action,details,reference,commit_hash", lines[0])
	assert.Equal(t, "2024-04-05T10:30:00Z,invoice,post_invoice,S-1A2B Bharat Stores 180.00,TXN-1a2b3c4d,", lines[1])
}

func TestAppend_Accumulates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, invoiceEntry()))

	ingest := Entry{
		Timestamp:  testTime.Add(time.Hour),
		Command:    "ingest",
		Action:     "import_vouchers",
		Details:    "5 vouchers from april.csv",
		CommitHash: "abc1234",
	}
	require.NoError(t, Append(dir, ingest))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, invoiceEntry(), entries[0])
	assert.Equal(t, ingest, entries[1])
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr string
	}{
		{"empty", "", 0, ""},
		{"header only", "timestamp,command,action,details,reference,commit_hash\n", 0, ""},
		{"bad timestamp", "timestamp,command,action,details,reference,commit_hash\nyesterday,a,b,c,d,e\n", 0, "line 2: timestamp"},
		{"short row", "timestamp,command,action,details,reference,commit_hash\na,b\n", 0, "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestDetailsWithCommasAndQuotes(t *testing.T) {
	dir := t.TempDir()
	e := invoiceEntry()
	e.Details = `Rent A/c, "April"`
	require.NoError(t, Append(dir, e))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, e.Details, entries[0].Details)
}
