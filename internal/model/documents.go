package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BookType identifies a subsidiary book.
type BookType string

const (
	BookSales          BookType = "SALES"
	BookPurchase       BookType = "PURCHASE"
	BookSalesReturn    BookType = "SALES_RETURN"
	BookPurchaseReturn BookType = "PURCHASE_RETURN"
	BookCash           BookType = "CASH"
)

// ParseBookType parses a subsidiary book name.
func ParseBookType(s string) (BookType, error) {
	b := BookType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	switch b {
	case BookSales, BookPurchase, BookSalesReturn, BookPurchaseReturn, BookCash:
		return b, nil
	default:
		return "", fmt.Errorf("unknown book type %q", s)
	}
}

// IsReturn reports whether the book records returns.
func (b BookType) IsReturn() bool {
	return b == BookSalesReturn || b == BookPurchaseReturn
}

// SalesSide reports whether the party is a customer.
func (b BookType) SalesSide() bool {
	return b == BookSales || b == BookSalesReturn
}

// Inward reports whether the book receives goods into stock.
func (b BookType) Inward() bool {
	return b == BookPurchase || b == BookSalesReturn
}

// InvoiceItem is a line on a subsidiary-book document.
type InvoiceItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// SubsidiaryEntry is a purchase, sales or return invoice.
type SubsidiaryEntry struct {
	ID                   string          `json:"id"`
	InvoiceNumber        string          `json:"invoiceNumber,omitempty"`
	ReferenceID          string          `json:"referenceId,omitempty"`
	TransactionID        string          `json:"transactionId,omitempty"`
	Date                 Date            `json:"date"`
	BookType             BookType        `json:"bookType"`
	PartyName            string          `json:"partyName"`
	Items                []InvoiceItem   `json:"items"`
	TradeDiscountPercent decimal.Decimal `json:"tradeDiscountPercent"`
	CashDiscountAmount   decimal.Decimal `json:"cashDiscountAmount"`
	SubTotal             decimal.Decimal `json:"subTotal"`
	DiscountAmount       decimal.Decimal `json:"discountAmount"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	Posted               bool            `json:"posted"`
}

// VoucherType is the side of the cash book a voucher is written on.
type VoucherType string

const (
	VoucherReceipt VoucherType = "RECEIPT"
	VoucherPayment VoucherType = "PAYMENT"
)

// ParseVoucherType parses RECEIPT or PAYMENT.
func ParseVoucherType(s string) (VoucherType, error) {
	switch v := VoucherType(strings.ToUpper(strings.TrimSpace(s))); v {
	case VoucherReceipt, VoucherPayment:
		return v, nil
	default:
		return "", fmt.Errorf("unknown voucher type %q", s)
	}
}

// ContraDirection is the direction of a transfer between cash and bank.
type ContraDirection string

const (
	CashToBank ContraDirection = "CASH_TO_BANK"
	BankToCash ContraDirection = "BANK_TO_CASH"
)

// ParseContraDirection parses a contra direction name.
func ParseContraDirection(s string) (ContraDirection, error) {
	switch c := ContraDirection(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))); c {
	case CashToBank, BankToCash:
		return c, nil
	default:
		return "", fmt.Errorf("unknown contra direction %q", s)
	}
}

// CashBookEntry is a receipt, payment, contra or opening-balance voucher.
type CashBookEntry struct {
	ID               string          `json:"id"`
	Date             Date            `json:"date"`
	Type             VoucherType     `json:"type"`
	AccountID        string          `json:"accountId"`
	AccountName      string          `json:"accountName"`
	Particulars      string          `json:"particulars"`
	CashAmount       decimal.Decimal `json:"cashAmount"`
	BankAmount       decimal.Decimal `json:"bankAmount"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	IsContra         bool            `json:"isContra"`
	ContraDirection  ContraDirection `json:"contraDirection,omitempty"`
	IsOpeningBalance bool            `json:"isOpeningBalance"`
	Posted           bool            `json:"posted"`
}

// SavedNote is a free-form working note.
type SavedNote struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    Date   `json:"date"`
}
