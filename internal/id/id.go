package id

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// New returns a random entity ID.
func New() string {
	return uuid.NewString()
}

// FormatTransactionID returns a posting reference like "TXN-1a2b3c4d".
func FormatTransactionID(u uuid.UUID) string {
	return "TXN-" + u.String()[:8]
}

// NewTransactionID returns a fresh posting reference.
func NewTransactionID() string {
	return FormatTransactionID(uuid.New())
}

// DocumentPrefix returns the document number prefix for a subsidiary book.
func DocumentPrefix(book model.BookType) string {
	switch book {
	case model.BookPurchase:
		return "P"
	case model.BookSales:
		return "S"
	case model.BookPurchaseReturn:
		return "PR"
	case model.BookSalesReturn:
		return "SR"
	default:
		return "C"
	}
}

// FormatDocumentID returns a document number like "P-1A2B".
func FormatDocumentID(book model.BookType, u uuid.UUID) string {
	return DocumentPrefix(book) + "-" + strings.ToUpper(u.String()[:4])
}

// NewDocumentID returns a fresh document number for a subsidiary book.
func NewDocumentID(book model.BookType) string {
	return FormatDocumentID(book, uuid.New())
}

// FormatAccountCode returns a code like "1482": type prefix plus a three digit serial.
func FormatAccountCode(t model.AccountType, serial int) string {
	return fmt.Sprintf("%s%03d", t.CodePrefix(), serial)
}

// RandomAccountCode returns a code with a random serial in [100, 998].
func RandomAccountCode(t model.AccountType) string {
	return FormatAccountCode(t, 100+rand.IntN(899))
}

// ParseDocumentID splits "PR-1A2B" into its prefix and suffix.
func ParseDocumentID(doc string) (prefix, suffix string, err error) {
	prefix, suffix, ok := strings.Cut(doc, "-")
	if !ok || prefix == "" || suffix == "" {
		return "", "", fmt.Errorf("invalid document ID format: %q", doc)
	}
	return prefix, suffix, nil
}
