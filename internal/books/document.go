package books

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/inventory"
	"github.com/cleared-dev/bookkeeper/internal/journal"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

func init() {
	// Amounts are plain JSON numbers in the persisted document.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrImport marks a document that could not be loaded. The books are left
// unchanged.
var ErrImport = errors.New("import failed")

// Document is the persisted form of the books.
type Document struct {
	Accounts          []model.Account          `json:"accounts"`
	Entries           []model.JournalEntry     `json:"entries"`
	SubsidiaryEntries []model.SubsidiaryEntry  `json:"subsidiaryEntries"`
	CashBookEntries   []model.CashBookEntry    `json:"cashBookEntries"`
	SavedNotes        []model.SavedNote        `json:"savedNotes"`
	StockTransactions []model.StockTransaction `json:"stockTransactions"`
	InventoryItems    []model.InventoryItem    `json:"inventoryItems"`
	InventoryMethod   model.ValuationMethod    `json:"inventoryMethod"`
	NegativeFormat    model.NegativeFormat     `json:"negativeFormat"`
	FinancialYear     model.FinancialYear      `json:"financialYear"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Snapshot returns the current state as a document.
func (b *Books) Snapshot() Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Document{
		Accounts:          nonNil(b.accounts.All()),
		Entries:           nonNil(b.journal.Entries()),
		SubsidiaryEntries: nonNil(slices.Clone(b.subsidiary)),
		CashBookEntries:   nonNil(slices.Clone(b.cashBook)),
		SavedNotes:        nonNil(slices.Clone(b.notes)),
		StockTransactions: nonNil(b.inventory.Transactions()),
		InventoryItems:    nonNil(b.inventory.Items()),
		InventoryMethod:   b.settings.InventoryMethod,
		NegativeFormat:    b.settings.NegativeFormat,
		FinancialYear:     b.settings.FinancialYear,
	}
}

// Export encodes the current state as an indented JSON document.
func (b *Books) Export() ([]byte, error) {
	data, err := json.MarshalIndent(b.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding books: %w", err)
	}
	return append(data, '\n'), nil
}

// Import replaces the books with a JSON document. The accounts and entries
// keys must hold arrays. On any error the current state is kept.
func (b *Books) Import(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrImport, err)
	}
	for _, key := range []string{"accounts", "entries"} {
		v, ok := raw[key]
		if !ok {
			return fmt.Errorf("%w: missing %q", ErrImport, key)
		}
		if v = bytes.TrimSpace(v); len(v) == 0 || v[0] != '[' {
			return fmt.Errorf("%w: %q must be an array", ErrImport, key)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrImport, err)
	}
	return b.Restore(doc)
}

// Restore replaces the books with a document, repairing legacy data where it
// can and rejecting it where it cannot. On error the current state is kept.
func (b *Books) Restore(doc Document) error {
	st, err := b.load(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImport, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts, b.journal, b.inventory = st.accounts, st.journal, st.inventory
	b.subsidiary, b.cashBook, b.notes, b.settings = st.subsidiary, st.cashBook, st.notes, st.settings
	b.log.Info("books restored", "accounts", st.accounts.Len(), "entries", st.journal.Len(), "stock_transactions", len(doc.StockTransactions))
	return nil
}

type loaded struct {
	accounts   *accounts.Registry
	journal    *journal.Store
	inventory  *inventory.Service
	subsidiary subsidiaryBook
	cashBook   []model.CashBookEntry
	notes      []model.SavedNote
	settings   model.Settings
}

func (b *Books) load(doc Document) (loaded, error) {
	st := loaded{settings: model.DefaultSettings()}
	if doc.InventoryMethod != "" {
		m, err := model.ParseValuationMethod(string(doc.InventoryMethod))
		if err != nil {
			return st, err
		}
		st.settings.InventoryMethod = m
	}
	if doc.NegativeFormat != "" {
		f, err := model.ParseNegativeFormat(string(doc.NegativeFormat))
		if err != nil {
			return st, err
		}
		st.settings.NegativeFormat = f
	}
	if doc.FinancialYear != "" {
		fy, err := model.ParseFinancialYear(string(doc.FinancialYear))
		if err != nil {
			return st, err
		}
		st.settings.FinancialYear = fy
	}

	st.accounts = accounts.NewRegistry(nil)
	for i, a := range doc.Accounts {
		a, err := b.repairAccount(a)
		if err != nil {
			return st, fmt.Errorf("account %d: %w", i+1, err)
		}
		if err := st.accounts.Add(a); err != nil {
			return st, fmt.Errorf("account %d: %w", i+1, err)
		}
	}

	seen := make(map[string]bool, len(doc.Entries))
	for _, e := range doc.Entries {
		if verrs := journal.ValidateEntry(e, st.accounts); len(verrs) > 0 {
			return st, verrs
		}
		if e.ID == "" {
			return st, fmt.Errorf("entry dated %s has no id", e.Date)
		}
		if seen[e.ID] {
			return st, fmt.Errorf("duplicate entry %s", e.ID)
		}
		seen[e.ID] = true
	}
	st.journal = journal.NewStore(doc.Entries)

	inv, err := inventory.NewService(nil, nil, st.settings.InventoryMethod)
	if err != nil {
		return st, err
	}
	for _, it := range doc.InventoryItems {
		if err := inv.AddItem(it); err != nil {
			return st, err
		}
	}
	for _, t := range doc.StockTransactions {
		if err := inv.AddTransaction(t); err != nil {
			return st, err
		}
	}
	st.inventory = inv

	for _, d := range doc.SubsidiaryEntries {
		if _, err := model.ParseBookType(string(d.BookType)); err != nil {
			return st, fmt.Errorf("document %s: %w", d.InvoiceNumber, err)
		}
	}
	st.subsidiary = slices.Clone(doc.SubsidiaryEntries)
	st.cashBook = make([]model.CashBookEntry, len(doc.CashBookEntries))
	for i, v := range doc.CashBookEntries {
		st.cashBook[i] = b.repairVoucher(v)
	}
	st.notes = slices.Clone(doc.SavedNotes)
	return st, nil
}

// repairAccount fixes a classification that does not belong to the
// account's type, as older documents allowed.
func (b *Books) repairAccount(a model.Account) (model.Account, error) {
	if !a.Type.Valid() {
		return a, fmt.Errorf("%s: unknown account type %q", a.Name, a.Type)
	}
	if model.Compatible(a.Type, a.Classification) {
		return a, nil
	}
	fixed := defaultClassification(a)
	b.log.Warn("repaired account classification", "account", a.Name, "type", a.Type, "from", a.Classification, "to", fixed)
	a.Classification = fixed
	return a, nil
}

func defaultClassification(a model.Account) model.Classification {
	switch a.Type {
	case model.AccountTypeAsset:
		return model.ClassCurrentAsset
	case model.AccountTypeLiability:
		return model.ClassSundryLiability
	case model.AccountTypeEquity:
		return model.ClassOwnerCapital
	case model.AccountTypeRevenue:
		if a.IsDirect() {
			return model.ClassDirectRevenue
		}
		return model.ClassIndirectRevenue
	default:
		if a.IsDirect() {
			return model.ClassDirectExpense
		}
		return model.ClassIndirectExpense
	}
}

// repairVoucher gives a contra voucher without a direction the direction
// older versions derived from its account name: a name mentioning the bank
// meant a deposit.
func (b *Books) repairVoucher(v model.CashBookEntry) model.CashBookEntry {
	if !v.IsContra || v.ContraDirection != "" {
		return v
	}
	v.ContraDirection = model.BankToCash
	if strings.Contains(strings.ToLower(v.AccountName), "bank") {
		v.ContraDirection = model.CashToBank
	}
	b.log.Warn("set contra direction on legacy voucher", "voucher", v.ID, "direction", v.ContraDirection)
	return v
}
