package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{ID: "1", Code: "1001", Name: "Cash A/c", Type: model.AccountTypeAsset, Classification: model.ClassCurrentAsset, Description: "Cash in hand"},
		{ID: "4", Code: "3001", Name: "Sales A/c", Type: model.AccountTypeRevenue, Classification: model.ClassDirectRevenue, FinalAccountCategory: model.CategoryDirect},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, accounts, got)
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadAccounts_BadRows(t *testing.T) {
	header := strings.Join(Header, ",") + "\n"
	tests := []struct {
		name string
		row  string
	}{
		{"unknown type", "1,1001,Cash,MONEY,CURRENT_ASSET,,\n"},
		{"unknown classification", "1,1001,Cash,ASSET,POCKET,,\n"},
		{"unknown category", "1,1001,Cash,ASSET,CURRENT_ASSET,SIDEWAYS,\n"},
		{"missing id", ",1001,Cash,ASSET,CURRENT_ASSET,,\n"},
		{"short row", "1,1001,Cash\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAccounts(strings.NewReader(header + tt.row))
			assert.Error(t, err)
		})
	}
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.Len(t, chart, 9)

	codes := make(map[string]bool)
	names := make(map[string]bool)
	for _, acct := range chart {
		assert.NotEmpty(t, acct.Name, "account %s missing name", acct.ID)
		assert.True(t, model.Compatible(acct.Type, acct.Classification), "account %s has incompatible profile", acct.Name)
		assert.False(t, codes[acct.Code], "duplicate code %s", acct.Code)
		assert.False(t, names[acct.Name], "duplicate name %s", acct.Name)
		codes[acct.Code] = true
		names[acct.Name] = true
	}
	for _, name := range []string{CashName, BankName, CapitalName, SalesName, PurchaseName, StockName, SalesReturnName, PurchaseReturnName, DrawingsName} {
		assert.True(t, names[name], "expected %s in default chart", name)
	}
}
