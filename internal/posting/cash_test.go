package posting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

func TestCashVoucher_ReceiptWithDiscount(t *testing.T) {
	ws := newWorkspace(t)

	v, p, err := CashVoucher(ws, model.CashBookEntry{
		Date:           date(2024, 5, 2),
		Type:           model.VoucherReceipt,
		AccountName:    "Ravi Traders",
		CashAmount:     dec("300"),
		BankAmount:     dec("650"),
		DiscountAmount: dec("50"),
	})
	require.NoError(t, err)
	requireBalanced(t, ws, p.Entry)

	assert.Equal(t, map[string]string{
		accounts.CashName:            "Dr 300.00",
		accounts.BankName:            "Dr 650.00",
		accounts.DiscountAllowedName: "Dr 50.00",
		"Ravi Traders":               "Cr 1000.00",
	}, amounts(p.Entry))
	assert.True(t, v.Posted)
	assert.Equal(t, "Being amount received from Ravi Traders", p.Entry.Narration)
	assert.NotEmpty(t, v.ID)

	// Unknown counter accounts on receipts open as indirect income.
	require.Len(t, p.Created, 2)
	created, ok := ws.Accounts.ByName("Ravi Traders")
	require.True(t, ok)
	assert.Equal(t, model.AccountTypeRevenue, created.Type)
	assert.Equal(t, model.ClassIndirectRevenue, created.Classification)
	assert.Equal(t, created.ID, v.AccountID)
}

func TestCashVoucher_PaymentWithDiscount(t *testing.T) {
	ws := newWorkspace(t)

	_, p, err := CashVoucher(ws, model.CashBookEntry{
		Date:           date(2024, 5, 3),
		Type:           model.VoucherPayment,
		AccountName:    "Rent A/c",
		Particulars:    "Being May rent paid",
		BankAmount:     dec("1900"),
		DiscountAmount: dec("100"),
	})
	require.NoError(t, err)
	requireBalanced(t, ws, p.Entry)

	assert.Equal(t, map[string]string{
		"Rent A/c":                 "Dr 2000.00",
		accounts.BankName:          "Cr 1900.00",
		accounts.DiscountRecvdName: "Cr 100.00",
	}, amounts(p.Entry))
	assert.Equal(t, "Being May rent paid", p.Entry.Narration)

	rent, ok := ws.Accounts.ByName("rent a/c")
	require.True(t, ok)
	assert.Equal(t, model.ClassIndirectExpense, rent.Classification)
	assert.Equal(t, model.CategoryIndirect, rent.FinalAccountCategory)
}

func TestCashVoucher_Contra(t *testing.T) {
	tests := []struct {
		name      string
		direction model.ContraDirection
		cash      string
		bank      string
		want      map[string]string
	}{
		{
			name:      "deposit",
			direction: model.CashToBank,
			cash:      "500",
			bank:      "0",
			want:      map[string]string{accounts.BankName: "Dr 500.00", accounts.CashName: "Cr 500.00"},
		},
		{
			name:      "withdrawal from bank column",
			direction: model.BankToCash,
			cash:      "0",
			bank:      "250",
			want:      map[string]string{accounts.CashName: "Dr 250.00", accounts.BankName: "Cr 250.00"},
		},
		{
			name:      "both columns equal",
			direction: model.CashToBank,
			cash:      "75",
			bank:      "75",
			want:      map[string]string{accounts.BankName: "Dr 75.00", accounts.CashName: "Cr 75.00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(t)
			_, p, err := CashVoucher(ws, model.CashBookEntry{
				Date:            date(2024, 6, 1),
				Type:            model.VoucherPayment,
				AccountName:     "Bank A/c",
				IsContra:        true,
				ContraDirection: tt.direction,
				CashAmount:      dec(tt.cash),
				BankAmount:      dec(tt.bank),
			})
			require.NoError(t, err)
			requireBalanced(t, ws, p.Entry)
			assert.Equal(t, tt.want, amounts(p.Entry))
			assert.Empty(t, p.Created)
		})
	}
}

func TestCashVoucher_Rejections(t *testing.T) {
	tests := []struct {
		name string
		v    model.CashBookEntry
	}{
		{"contra without direction", model.CashBookEntry{Type: model.VoucherReceipt, IsContra: true, CashAmount: dec("10")}},
		{"contra columns differ", model.CashBookEntry{Type: model.VoucherReceipt, IsContra: true, ContraDirection: model.BankToCash, CashAmount: dec("10"), BankAmount: dec("20")}},
		{"empty opening balance", model.CashBookEntry{Type: model.VoucherReceipt, IsOpeningBalance: true}},
		{"no amounts", model.CashBookEntry{Type: model.VoucherPayment, AccountName: "Rent A/c"}},
		{"no counter account", model.CashBookEntry{Type: model.VoucherPayment, CashAmount: dec("10")}},
		{"negative amount", model.CashBookEntry{Type: model.VoucherPayment, AccountName: "Rent A/c", CashAmount: dec("-10")}},
		{"counter is cash", model.CashBookEntry{Type: model.VoucherPayment, AccountName: "cash a/c", CashAmount: dec("10")}},
		{"unknown type", model.CashBookEntry{Type: "TRANSFER", CashAmount: dec("10")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(t)
			before := ws.Accounts.Len()
			tt.v.Date = date(2024, 6, 1)
			_, _, err := CashVoucher(ws, tt.v)
			require.ErrorIs(t, err, ErrInvalidDocument)
			assert.Equal(t, before, ws.Accounts.Len())
		})
	}
}

func TestCashVoucher_OpeningBalance(t *testing.T) {
	ws := newWorkspace(t)

	v, p, err := CashVoucher(ws, model.CashBookEntry{
		Date:             date(2024, 4, 1),
		Type:             model.VoucherReceipt,
		IsOpeningBalance: true,
		CashAmount:       dec("1000"),
		BankAmount:       dec("5000"),
	})
	require.NoError(t, err)
	requireBalanced(t, ws, p.Entry)
	require.Len(t, p.Entry.Lines, 4)

	debit, credit := p.Entry.Totals()
	assert.True(t, debit.Equal(dec("6000")))
	assert.True(t, credit.Equal(dec("6000")))
	assert.Equal(t, accounts.CapitalName, v.AccountName)
	assert.Equal(t, "Being opening balance brought in", p.Entry.Narration)
}

func TestBalanceCashBook(t *testing.T) {
	b := BalanceCashBook([]model.CashBookEntry{
		{Type: model.VoucherReceipt, CashAmount: dec("1000"), BankAmount: dec("500")},
		{Type: model.VoucherPayment, CashAmount: dec("200")},
		{Type: model.VoucherPayment, BankAmount: dec("700")},
	})
	assert.True(t, b.Cash.Equal(dec("800")), b.Cash.String())
	assert.True(t, b.Bank.Equal(dec("-200")), b.Bank.String())
}

func TestBalanceCashBook_Contra(t *testing.T) {
	opening := model.CashBookEntry{Type: model.VoucherReceipt, IsOpeningBalance: true, CashAmount: dec("25000"), BankAmount: dec("50000")}
	tests := []struct {
		name       string
		contra     model.CashBookEntry
		cash, bank string
	}{
		{
			"cash deposited, entered as payment",
			model.CashBookEntry{Type: model.VoucherPayment, IsContra: true, ContraDirection: model.CashToBank, CashAmount: dec("10000")},
			"15000", "60000",
		},
		{
			"cash deposited, bank column only",
			model.CashBookEntry{Type: model.VoucherReceipt, IsContra: true, ContraDirection: model.CashToBank, BankAmount: dec("10000")},
			"15000", "60000",
		},
		{
			"cash withdrawn",
			model.CashBookEntry{Type: model.VoucherReceipt, IsContra: true, ContraDirection: model.BankToCash, CashAmount: dec("4000"), BankAmount: dec("4000")},
			"29000", "46000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BalanceCashBook([]model.CashBookEntry{opening, tt.contra})
			assert.True(t, b.Cash.Equal(dec(tt.cash)), b.Cash.String())
			assert.True(t, b.Bank.Equal(dec(tt.bank)), b.Bank.String())
		})
	}
}

func TestBalanceCashBook_AgreesWithLedger(t *testing.T) {
	ws := newWorkspace(t)
	var vouchers []model.CashBookEntry
	ledger := map[string]decimal.Decimal{}
	for _, v := range []model.CashBookEntry{
		{Date: date(2024, 4, 1), Type: model.VoucherReceipt, IsOpeningBalance: true, CashAmount: dec("25000"), BankAmount: dec("50000")},
		{Date: date(2024, 4, 2), Type: model.VoucherPayment, IsContra: true, ContraDirection: model.CashToBank, CashAmount: dec("10000")},
		{Date: date(2024, 4, 3), Type: model.VoucherReceipt, IsContra: true, ContraDirection: model.BankToCash, BankAmount: dec("2500")},
	} {
		posted, p, err := CashVoucher(ws, v)
		require.NoError(t, err)
		for _, l := range p.Entry.Lines {
			amt := l.Amount
			if l.Type == model.Credit {
				amt = amt.Neg()
			}
			ledger[l.AccountName] = ledger[l.AccountName].Add(amt)
		}
		vouchers = append(vouchers, posted)
	}

	b := BalanceCashBook(vouchers)
	assert.True(t, b.Cash.Equal(dec("17500")), b.Cash.String())
	assert.True(t, b.Bank.Equal(dec("57500")), b.Bank.String())
	assert.True(t, b.Cash.Equal(ledger[accounts.CashName]), "ledger cash %s", ledger[accounts.CashName])
	assert.True(t, b.Bank.Equal(ledger[accounts.BankName]), "ledger bank %s", ledger[accounts.BankName])
}

