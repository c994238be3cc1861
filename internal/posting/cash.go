package posting

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/id"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// CashVoucher posts a cash-book voucher. It returns the voucher with its
// counter account resolved and marked posted.
//
// Receipts debit Cash and Bank for their columns and Discount Allowed for
// any discount, crediting the counter account with the sum. Payments mirror
// this with Discount Received. Contra vouchers move one amount between Cash
// and Bank in the stated direction. Opening vouchers credit Capital.
func CashVoucher(ws *Workspace, v model.CashBookEntry) (model.CashBookEntry, Posting, error) {
	if v.Date.IsZero() {
		return v, Posting{}, invalid("voucher date is required")
	}
	if v.Type != model.VoucherReceipt && v.Type != model.VoucherPayment {
		return v, Posting{}, invalid("unknown voucher type %q", v.Type)
	}
	v.CashAmount, v.BankAmount, v.DiscountAmount = round(v.CashAmount), round(v.BankAmount), round(v.DiscountAmount)
	if v.CashAmount.IsNegative() || v.BankAmount.IsNegative() || v.DiscountAmount.IsNegative() {
		return v, Posting{}, invalid("voucher amounts must not be negative")
	}
	if v.IsContra && v.IsOpeningBalance {
		return v, Posting{}, invalid("a voucher cannot be both contra and opening balance")
	}
	if v.ID == "" {
		v.ID = id.New()
	}

	cash, err := ws.account(accounts.CashName, CashProfile)
	if err != nil {
		return v, Posting{}, err
	}
	bank, err := ws.account(accounts.BankName, CashProfile)
	if err != nil {
		return v, Posting{}, err
	}

	var lines []model.JournalLine
	switch {
	case v.IsOpeningBalance:
		lines, err = openingLines(ws, &v, cash, bank)
	case v.IsContra:
		lines, err = contraLines(&v, cash, bank)
	default:
		lines, err = counterLines(ws, &v, cash, bank)
	}
	if err != nil {
		return v, Posting{}, err
	}

	v.Posted = true
	return v, ws.finish(newEntry(v.Date, voucherNarration(v), lines...), nil), nil
}

func openingLines(ws *Workspace, v *model.CashBookEntry, cash, bank model.Account) ([]model.JournalLine, error) {
	if v.CashAmount.IsZero() && v.BankAmount.IsZero() {
		return nil, invalid("opening balance has no cash or bank amount")
	}
	capital, err := ws.account(accounts.CapitalName, CapitalProfile)
	if err != nil {
		return nil, err
	}
	v.AccountID, v.AccountName = capital.ID, capital.Name

	var lines []model.JournalLine
	if v.CashAmount.IsPositive() {
		lines = append(lines, newLine(model.Debit, cash, v.CashAmount), newLine(model.Credit, capital, v.CashAmount))
	}
	if v.BankAmount.IsPositive() {
		lines = append(lines, newLine(model.Debit, bank, v.BankAmount), newLine(model.Credit, capital, v.BankAmount))
	}
	return lines, nil
}

// contraAmount is the sum moved by a contra voucher: the cash column, or
// the bank column when cash is empty.
func contraAmount(v model.CashBookEntry) decimal.Decimal {
	if v.CashAmount.IsZero() {
		return v.BankAmount
	}
	return v.CashAmount
}

func contraLines(v *model.CashBookEntry, cash, bank model.Account) ([]model.JournalLine, error) {
	amount := contraAmount(*v)
	if !v.CashAmount.IsZero() && v.BankAmount.IsPositive() && !v.BankAmount.Equal(amount) {
		return nil, invalid("contra cash amount %s and bank amount %s differ", v.CashAmount, v.BankAmount)
	}
	if !amount.IsPositive() {
		return nil, invalid("contra voucher has no amount")
	}
	if v.DiscountAmount.IsPositive() {
		return nil, invalid("contra vouchers cannot carry a discount")
	}

	switch v.ContraDirection {
	case model.CashToBank:
		v.AccountID, v.AccountName = bank.ID, bank.Name
		return []model.JournalLine{newLine(model.Debit, bank, amount), newLine(model.Credit, cash, amount)}, nil
	case model.BankToCash:
		v.AccountID, v.AccountName = cash.ID, cash.Name
		return []model.JournalLine{newLine(model.Debit, cash, amount), newLine(model.Credit, bank, amount)}, nil
	default:
		return nil, invalid("contra voucher needs a direction (%s or %s)", model.CashToBank, model.BankToCash)
	}
}

func counterLines(ws *Workspace, v *model.CashBookEntry, cash, bank model.Account) ([]model.JournalLine, error) {
	moved := v.CashAmount.Add(v.BankAmount)
	if moved.IsZero() {
		return nil, invalid("voucher has no cash or bank amount")
	}
	other, err := counterAccount(ws, v)
	if err != nil {
		return nil, err
	}
	if other.ID == cash.ID || other.ID == bank.ID {
		return nil, invalid("use a contra voucher to move funds between %s and %s", cash.Name, bank.Name)
	}
	v.AccountID, v.AccountName = other.ID, other.Name
	total := moved.Add(v.DiscountAmount)

	var lines []model.JournalLine
	if v.Type == model.VoucherReceipt {
		if v.CashAmount.IsPositive() {
			lines = append(lines, newLine(model.Debit, cash, v.CashAmount))
		}
		if v.BankAmount.IsPositive() {
			lines = append(lines, newLine(model.Debit, bank, v.BankAmount))
		}
		if v.DiscountAmount.IsPositive() {
			disc, err := ws.account(accounts.DiscountAllowedName, DiscountAllowedProfile)
			if err != nil {
				return nil, err
			}
			lines = append(lines, newLine(model.Debit, disc, v.DiscountAmount))
		}
		return append(lines, newLine(model.Credit, other, total)), nil
	}

	lines = append(lines, newLine(model.Debit, other, total))
	if v.CashAmount.IsPositive() {
		lines = append(lines, newLine(model.Credit, cash, v.CashAmount))
	}
	if v.BankAmount.IsPositive() {
		lines = append(lines, newLine(model.Credit, bank, v.BankAmount))
	}
	if v.DiscountAmount.IsPositive() {
		disc, err := ws.account(accounts.DiscountRecvdName, DiscountReceivedProfile)
		if err != nil {
			return nil, err
		}
		lines = append(lines, newLine(model.Credit, disc, v.DiscountAmount))
	}
	return lines, nil
}

// counterAccount resolves the voucher's account by ID, then by name. Unknown
// names become indirect income for receipts and indirect expense for payments.
func counterAccount(ws *Workspace, v *model.CashBookEntry) (model.Account, error) {
	if v.AccountID != "" {
		if a, ok := ws.Accounts.Get(v.AccountID); ok {
			return a, nil
		}
		if strings.TrimSpace(v.AccountName) == "" {
			return model.Account{}, invalid("unknown account %q", v.AccountID)
		}
	}
	if strings.TrimSpace(v.AccountName) == "" {
		return model.Account{}, invalid("voucher needs a counter account")
	}
	profile := ExpenseProfile
	if v.Type == model.VoucherReceipt {
		profile = IncomeProfile
	}
	return ws.account(v.AccountName, profile)
}

func voucherNarration(v model.CashBookEntry) string {
	if s := strings.TrimSpace(v.Particulars); s != "" {
		return s
	}
	switch {
	case v.IsOpeningBalance:
		return "Being opening balance brought in"
	case v.IsContra && v.ContraDirection == model.CashToBank:
		return "Being cash deposited into bank"
	case v.IsContra:
		return "Being cash withdrawn from bank"
	case v.Type == model.VoucherReceipt:
		return "Being amount received from " + v.AccountName
	default:
		return "Being amount paid to " + v.AccountName
	}
}

// CashBalance is the net of the cash and bank columns of a cash book.
type CashBalance struct {
	Cash decimal.Decimal `json:"cash"`
	Bank decimal.Decimal `json:"bank"`
}

// BalanceCashBook folds receipts minus payments for both columns. A contra
// voucher moves its amount from the source column to the destination.
func BalanceCashBook(vouchers []model.CashBookEntry) CashBalance {
	b := CashBalance{Cash: decimal.Zero, Bank: decimal.Zero}
	for _, v := range vouchers {
		switch {
		case v.IsContra:
			amount := contraAmount(v)
			if v.ContraDirection == model.CashToBank {
				b.Cash = b.Cash.Sub(amount)
				b.Bank = b.Bank.Add(amount)
			} else {
				b.Bank = b.Bank.Sub(amount)
				b.Cash = b.Cash.Add(amount)
			}
		case v.Type == model.VoucherReceipt:
			b.Cash = b.Cash.Add(v.CashAmount)
			b.Bank = b.Bank.Add(v.BankAmount)
		default:
			b.Cash = b.Cash.Sub(v.CashAmount)
			b.Bank = b.Bank.Sub(v.BankAmount)
		}
	}
	return b
}
