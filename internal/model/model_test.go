package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatible(t *testing.T) {
	tests := []struct {
		typ  AccountType
		cls  Classification
		want bool
	}{
		{AccountTypeAsset, ClassSundryDebtor, true},
		{AccountTypeAsset, ClassTangibleAsset, true},
		{AccountTypeAsset, ClassSundryCreditor, false},
		{AccountTypeLiability, ClassLoans, true},
		{AccountTypeEquity, ClassOwnerDrawings, true},
		{AccountTypeEquity, ClassCurrentAsset, false},
		{AccountTypeRevenue, ClassIndirectRevenue, true},
		{AccountTypeRevenue, ClassCurrentAsset, false},
		{AccountTypeExpense, ClassDirectExpense, true},
		{AccountType("BOGUS"), ClassDirectExpense, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compatible(tt.typ, tt.cls), "Compatible(%s, %s)", tt.typ, tt.cls)
	}
}

func TestCodePrefix(t *testing.T) {
	assert.Equal(t, "1", AccountTypeAsset.CodePrefix())
	assert.Equal(t, "2", AccountTypeLiability.CodePrefix())
	assert.Equal(t, "2", AccountTypeEquity.CodePrefix())
	assert.Equal(t, "3", AccountTypeRevenue.CodePrefix())
	assert.Equal(t, "4", AccountTypeExpense.CodePrefix())
}

func TestParseAccountType(t *testing.T) {
	typ, err := ParseAccountType(" asset ")
	require.NoError(t, err)
	assert.Equal(t, AccountTypeAsset, typ)

	_, err = ParseAccountType("income")
	assert.Error(t, err)
}

func TestParseValuationMethod(t *testing.T) {
	m, err := ParseValuationMethod("wac")
	require.NoError(t, err)
	assert.Equal(t, WeightedAverage, m)

	m, err = ParseValuationMethod("lifo")
	require.NoError(t, err)
	assert.Equal(t, LIFO, m)

	_, err = ParseValuationMethod("hifo")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.April, 3)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-04-03"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d.Time))

	require.NoError(t, json.Unmarshal([]byte(`"2024-04-03T10:15:00.000Z"`), &back))
	assert.Equal(t, "2024-04-03", back.String())

	assert.Error(t, json.Unmarshal([]byte(`"03/04/2024"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`20240403`), &back))
}

func TestFinancialYearLabel(t *testing.T) {
	assert.Equal(t, "FY 2024-25", FinancialYearIndian.Label(NewDate(2024, time.April, 1)))
	assert.Equal(t, "FY 2023-24", FinancialYearIndian.Label(NewDate(2024, time.March, 31)))
	assert.Equal(t, "FY 2099-00", FinancialYearIndian.Label(NewDate(2099, time.December, 1)))
	assert.Equal(t, "FY 2024", FinancialYearCalendar.Label(NewDate(2024, time.March, 31)))
}

func TestEntryTotals(t *testing.T) {
	e := JournalEntry{Lines: []JournalLine{
		{Type: Debit, AccountID: "1", Amount: decimal.RequireFromString("60")},
		{Type: Debit, AccountID: "2", Amount: decimal.RequireFromString("40")},
		{Type: Credit, AccountID: "3", Amount: decimal.RequireFromString("100")},
	}}
	dr, cr := e.Totals()
	assert.True(t, dr.Equal(decimal.NewFromInt(100)))
	assert.True(t, cr.Equal(decimal.NewFromInt(100)))
	assert.True(t, e.Touches("2"))
	assert.False(t, e.Touches("4"))
	assert.True(t, e.Lines[2].Signed().Equal(decimal.NewFromInt(-100)))
}

func TestBookTypeFlags(t *testing.T) {
	assert.True(t, BookPurchase.Inward())
	assert.True(t, BookSalesReturn.Inward())
	assert.False(t, BookSales.Inward())
	assert.True(t, BookSalesReturn.SalesSide())
	assert.False(t, BookPurchaseReturn.SalesSide())
	assert.True(t, BookPurchaseReturn.IsReturn())

	b, err := ParseBookType("sales-return")
	require.NoError(t, err)
	assert.Equal(t, BookSalesReturn, b)
}
