package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func TestCashBookParser_Parse(t *testing.T) {
	vouchers, err := ParseFile(&CashBookParser{}, "../../testdata/cashbook.csv")
	require.NoError(t, err)
	require.Len(t, vouchers, 5)

	opening := vouchers[0]
	assert.True(t, opening.IsOpeningBalance)
	assert.Equal(t, model.VoucherReceipt, opening.Type)
	assert.Equal(t, "25000.00", opening.CashAmount.StringFixed(2))
	assert.Equal(t, "50000.00", opening.BankAmount.StringFixed(2))
	assert.Equal(t, "2024-04-01", opening.Date.String())

	rent := vouchers[1]
	assert.Equal(t, model.VoucherPayment, rent.Type)
	assert.Equal(t, "Rent A/c", rent.AccountName)
	assert.Equal(t, "April rent", rent.Particulars)
	assert.True(t, rent.BankAmount.IsZero())

	receipt := vouchers[2]
	assert.Equal(t, "2450", receipt.BankAmount.String())
	assert.Equal(t, "50", receipt.DiscountAmount.String())

	contra := vouchers[3]
	assert.True(t, contra.IsContra)
	assert.Equal(t, model.CashToBank, contra.ContraDirection)
}

func TestCashBookParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "April 1,RECEIPT,Sales A/c,,10,,,,,", "parsing date"},
		{"bad type", "2024-04-01,JOURNAL,Sales A/c,,10,,,,,", "unknown voucher type"},
		{"bad amount", "2024-04-01,RECEIPT,Sales A/c,,ten,,,,,", "parsing amount"},
		{"bad flag", "2024-04-01,RECEIPT,Sales A/c,,10,,,maybe,,", "parsing flag"},
		{"bad direction", "2024-04-01,RECEIPT,,,10,,,true,SIDEWAYS,", "unknown contra direction"},
		{"short row", "2024-04-01,RECEIPT", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&CashBookParser{}).Parse(strings.NewReader(CashBookHeader + "\n" + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCashBookParser_EmptyFile(t *testing.T) {
	vouchers, err := (&CashBookParser{}).Parse(strings.NewReader(CashBookHeader + "\n"))
	require.NoError(t, err)
	assert.Nil(t, vouchers)
}

func TestStatementParser_Parse(t *testing.T) {
	vouchers, err := ParseFile(&StatementParser{}, "../../testdata/bank_statement.csv")
	require.NoError(t, err)
	require.Len(t, vouchers, 4)

	first := vouchers[0]
	assert.Equal(t, model.VoucherReceipt, first.Type)
	assert.Equal(t, "12000.00", first.BankAmount.StringFixed(2))
	assert.True(t, first.CashAmount.IsZero())
	assert.Equal(t, DefaultSuspenseAccount, first.AccountName)
	assert.Equal(t, "NEFT BHARAT STORES (Ref 000123)", first.Particulars)
	assert.Equal(t, "2024-04-02", first.Date.String())

	bill := vouchers[1]
	assert.Equal(t, model.VoucherPayment, bill.Type)
	assert.Equal(t, "1850.5", bill.BankAmount.String())

	assert.Equal(t, "INTEREST CREDIT", vouchers[2].Particulars)
}

func TestStatementParser_Account(t *testing.T) {
	vouchers, err := ParseFile(&StatementParser{Account: "Sundries A/c"}, "../../testdata/bank_statement.csv")
	require.NoError(t, err)
	for _, v := range vouchers {
		assert.Equal(t, "Sundries A/c", v.AccountName)
	}
}

func TestStatementParser_Errors(t *testing.T) {
	header := "Date,Narration,Ref No,Withdrawal,Deposit,Balance\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "2024-04-02,X,,10,,100", "parsing date"},
		{"both sides", "02/04/2024,X,,10,10,100", "exactly one"},
		{"neither side", "02/04/2024,X,,,,100", "exactly one"},
		{"bad amount", "02/04/2024,X,,abc,,100", "parsing amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&StatementParser{}).Parse(strings.NewReader(header + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(&CashBookParser{}, filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&CashBookParser{})
	p := r.Get("cashbook")
	require.NotNil(t, p)
	assert.Equal(t, "cashbook", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&StatementParser{})
	assert.NotNil(t, r.Get("Statement"))
	assert.NotNil(t, r.Get("STATEMENT"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CashBookParser{})
	assert.Panics(t, func() { r.Register(&CashBookParser{}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry("")
	assert.Equal(t, []string{"cashbook", "statement"}, r.Formats())
	assert.Equal(t, DefaultSuspenseAccount, r.Get("statement").(*StatementParser).account())
}

func TestRegistry_Detect(t *testing.T) {
	r := DefaultRegistry("")

	p, err := r.Detect("../../testdata/cashbook.csv")
	require.NoError(t, err)
	assert.Equal(t, "cashbook", p.Format())

	p, err = r.Detect("../../testdata/bank_statement.csv")
	require.NoError(t, err)
	assert.Equal(t, "statement", p.Format())

	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("Posting Date,Description,Amount\n"), 0o644))
	_, err = r.Detect(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestCashBookParser_MatchesIgnoresCaseAndBOM(t *testing.T) {
	header := []string{"\ufeffDate", "Type", "Account", "Particulars", "Cash", "Bank", "Discount", "Contra", "Direction", "Opening"}
	assert.True(t, (&CashBookParser{}).Matches(header))
	assert.False(t, (&CashBookParser{}).Matches(header[:9]))
}

func writeInbox(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	inbox := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(inbox, "processed"), 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(inbox, name), []byte(content), 0o644))
	}
}

func TestInbox_Pending(t *testing.T) {
	dir := t.TempDir()
	writeInbox(t, dir, map[string]string{
		"may.csv":   "data",
		"april.CSV": "data",
		"notes.txt": "data",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "processed", "march.csv"), []byte("x"), 0o644))

	files, err := NewInbox(dir).Pending()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "april.CSV", files[0].Name)
	assert.Equal(t, "may.csv", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestInbox_PendingMissingDir(t *testing.T) {
	files, err := NewInbox(t.TempDir()).Pending()
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestInbox_Done(t *testing.T) {
	dir := t.TempDir()
	writeInbox(t, dir, map[string]string{"april.csv": "first"})
	in := NewInbox(dir)

	dst, err := in.Done("april.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "import", "processed", "april.csv"), dst)
	_, err = os.Stat(filepath.Join(dir, "import", "april.csv"))
	assert.True(t, os.IsNotExist(err))

	// A second file of the same name does not overwrite the first.
	writeInbox(t, dir, map[string]string{"april.csv": "second"})
	dst2, err := in.Done("april.csv")
	require.NoError(t, err)
	assert.NotEqual(t, dst, dst2)
	assert.True(t, strings.HasPrefix(filepath.Base(dst2), "april-"))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}
