// Package posting translates business documents into balanced journal
// entries and stock movements.
//
// Translators run against a Workspace. They create missing accounts and
// inventory items in it and append stock movements to it, so callers hand
// them a scratch copy and keep the result only when the whole posting,
// journal entry included, is accepted.
package posting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/id"
	"github.com/cleared-dev/bookkeeper/internal/inventory"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// ErrInvalidDocument marks a document rejected before any entry is built.
var ErrInvalidDocument = errors.New("invalid document")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...))
}

// DocumentIndex looks up previously posted subsidiary-book documents.
type DocumentIndex interface {
	Document(invoiceNumber string) (model.SubsidiaryEntry, bool)
}

// Workspace is the state a translator posts into.
type Workspace struct {
	Accounts  *accounts.Registry
	Inventory *inventory.Service
	Documents DocumentIndex

	created []model.Account
}

// Posting is the output of a translator.
type Posting struct {
	Entry   model.JournalEntry
	Stock   []model.StockTransaction
	Created []model.Account
}

// Profile is the type and classification given to an auto-created account.
type Profile struct {
	Type           model.AccountType
	Classification model.Classification
	Category       model.FinalCategory
}

// Standard profiles for accounts the translators create on first use.
var (
	CashProfile             = Profile{model.AccountTypeAsset, model.ClassCurrentAsset, ""}
	CapitalProfile          = Profile{model.AccountTypeEquity, model.ClassOwnerCapital, ""}
	DebtorProfile           = Profile{model.AccountTypeAsset, model.ClassSundryDebtor, ""}
	CreditorProfile         = Profile{model.AccountTypeLiability, model.ClassSundryCreditor, ""}
	DiscountAllowedProfile  = Profile{model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect}
	DiscountReceivedProfile = Profile{model.AccountTypeRevenue, model.ClassIndirectRevenue, model.CategoryIndirect}
	DepreciationProfile     = Profile{model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect}
	IncomeProfile           = Profile{model.AccountTypeRevenue, model.ClassIndirectRevenue, model.CategoryIndirect}
	ExpenseProfile          = Profile{model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect}
)

func (ws *Workspace) account(name string, p Profile) (model.Account, error) {
	a, created, err := ws.Accounts.FindOrCreate(name, p.Type, p.Classification, p.Category)
	if err != nil {
		return model.Account{}, fmt.Errorf("resolving account %q: %w", name, err)
	}
	if created {
		ws.created = append(ws.created, a)
	}
	return a, nil
}

func (ws *Workspace) finish(entry model.JournalEntry, stock []model.StockTransaction) Posting {
	p := Posting{Entry: entry, Stock: stock, Created: ws.created}
	ws.created = nil
	return p
}

func newLine(side model.Side, a model.Account, amount decimal.Decimal) model.JournalLine {
	return model.JournalLine{
		ID:          id.New(),
		Type:        side,
		AccountID:   a.ID,
		AccountName: a.Name,
		Code:        a.Code,
		Amount:      amount,
	}
}

func newEntry(date model.Date, narration string, lines ...model.JournalLine) model.JournalEntry {
	return model.JournalEntry{
		ID:            id.New(),
		TransactionID: id.NewTransactionID(),
		Date:          date,
		Narration:     narration,
		Lines:         lines,
	}
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
