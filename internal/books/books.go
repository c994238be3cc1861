// Package books holds the ledger system: the chart of accounts, the journal,
// the stock ledger and the source documents of one business, behind a
// single lock.
//
// Every posting runs against scratch copies of the stores and is committed
// only once the translator and the journal have both accepted it, so a
// rejected document never leaves an auto-created account or a stock movement
// behind.
package books

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/id"
	"github.com/cleared-dev/bookkeeper/internal/inventory"
	"github.com/cleared-dev/bookkeeper/internal/journal"
	"github.com/cleared-dev/bookkeeper/internal/model"
	"github.com/cleared-dev/bookkeeper/internal/posting"
)

var (
	// ErrAccountInUse is returned when deleting an account with postings.
	ErrAccountInUse = errors.New("account has journal postings")
	// ErrNoteNotFound is returned when deleting an unknown note.
	ErrNoteNotFound = errors.New("note not found")
	// ErrOpeningBalanceExists is returned for a second opening-balance voucher.
	ErrOpeningBalanceExists = errors.New("opening balance already recorded")
)

// Books is the ledger system of one business. It is safe for concurrent use.
type Books struct {
	mu  sync.Mutex
	log *slog.Logger

	accounts   *accounts.Registry
	journal    *journal.Store
	inventory  *inventory.Service
	subsidiary subsidiaryBook
	cashBook   []model.CashBookEntry
	notes      []model.SavedNote
	settings   model.Settings
}

// New returns books seeded with the default chart of accounts. A nil logger
// discards output.
func New(logger *slog.Logger) *Books {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &Books{log: logger}
	b.resetLocked(true)
	return b
}

func (b *Books) resetLocked(hard bool) {
	if hard {
		b.accounts = accounts.Default()
		b.notes = nil
		b.settings = model.DefaultSettings()
	}
	items := []model.InventoryItem(nil)
	if !hard && b.inventory != nil {
		items = b.inventory.Items()
	}
	inv, err := inventory.NewService(items, nil, b.settings.InventoryMethod)
	if err != nil {
		// Settings are validated on every write.
		panic(err)
	}
	b.inventory = inv
	b.journal = journal.NewStore(nil)
	b.subsidiary = nil
	b.cashBook = nil
}

// Reset clears postings. A soft reset keeps the chart, inventory items,
// notes and settings; a hard reset restores a new dataset.
func (b *Books) Reset(hard bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked(hard)
	b.log.Info("books reset", "hard", hard)
}

// subsidiaryBook indexes posted invoices by number.
type subsidiaryBook []model.SubsidiaryEntry

func (s subsidiaryBook) Document(number string) (model.SubsidiaryEntry, bool) {
	if number == "" {
		return model.SubsidiaryEntry{}, false
	}
	i := slices.IndexFunc(s, func(d model.SubsidiaryEntry) bool { return strings.EqualFold(d.InvoiceNumber, number) })
	if i < 0 {
		return model.SubsidiaryEntry{}, false
	}
	return s[i], true
}

// Accounts returns the chart of accounts.
func (b *Books) Accounts() []model.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts.All()
}

// Account returns the account with the given ID.
func (b *Books) Account(accountID string) (model.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts.Get(accountID)
}

// AccountByName looks an account up by trimmed, case-insensitive name.
func (b *Books) AccountByName(name string) (model.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts.ByName(name)
}

// CreateAccount opens a new account with a generated code.
func (b *Books) CreateAccount(name string, t model.AccountType, c model.Classification, cat model.FinalCategory) (model.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	reg := b.accounts.Clone()
	a, err := reg.Create(name, t, c, cat)
	if err != nil {
		return model.Account{}, err
	}
	b.accounts = reg
	b.log.Debug("account created", "account", a.Name, "code", a.Code)
	return a, nil
}

// UpdateAccount reclassifies or renames an account. Reports reflect the
// change retroactively.
func (b *Books) UpdateAccount(accountID string, p accounts.Patch) (model.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	reg := b.accounts.Clone()
	a, err := reg.Update(accountID, p)
	if err != nil {
		return model.Account{}, err
	}
	b.accounts = reg
	b.log.Debug("account updated", "account", a.Name)
	return a, nil
}

// DeleteAccount removes an account that no journal line references.
func (b *Books) DeleteAccount(accountID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts.Get(accountID)
	if !ok {
		return fmt.Errorf("%w: %s", accounts.ErrNotFound, accountID)
	}
	if b.journal.References(accountID) {
		return fmt.Errorf("%w: %s", ErrAccountInUse, a.Name)
	}
	reg := b.accounts.Clone()
	if err := reg.Delete(accountID); err != nil {
		return err
	}
	b.accounts = reg
	b.log.Debug("account deleted", "account", a.Name)
	return nil
}

// Balance returns an account's signed balance; positive is a debit balance.
func (b *Books) Balance(accountID string) decimal.Decimal {
	b.mu.Lock()
	j := b.journal
	b.mu.Unlock()
	return j.Balance(accountID)
}

// Entries returns posted entries, most recent first.
func (b *Books) Entries() []model.JournalEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.journal.Entries()
}

// Entry returns a posted entry by ID.
func (b *Books) Entry(entryID string) (model.JournalEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.journal.Get(entryID)
}

// SubsidiaryEntries returns posted invoices in posting order.
func (b *Books) SubsidiaryEntries() []model.SubsidiaryEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.subsidiary)
}

// CashBookEntries returns posted vouchers in posting order.
func (b *Books) CashBookEntries() []model.CashBookEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.cashBook)
}

// CashBookBalance folds the cash and bank columns of the cash book.
func (b *Books) CashBookBalance() posting.CashBalance {
	b.mu.Lock()
	defer b.mu.Unlock()
	return posting.BalanceCashBook(b.cashBook)
}

// HasOpeningBalance reports whether an opening-balance voucher was posted.
func (b *Books) HasOpeningBalance() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasOpeningBalanceLocked()
}

func (b *Books) hasOpeningBalanceLocked() bool {
	return slices.ContainsFunc(b.cashBook, func(v model.CashBookEntry) bool { return v.IsOpeningBalance })
}

// GenerateDocumentID returns an unused document number for a book.
func (b *Books) GenerateDocumentID(book model.BookType) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		doc := id.NewDocumentID(book)
		if _, taken := b.subsidiary.Document(doc); !taken {
			return doc
		}
	}
}

// ValidReferenceDocs lists the invoices a return document may reference.
func (b *Books) ValidReferenceDocs(book model.BookType) []model.SubsidiaryEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	want := posting.ReferenceBook(book)
	if want == "" {
		return nil
	}
	var out []model.SubsidiaryEntry
	for _, d := range b.subsidiary {
		if d.BookType == want {
			out = append(out, d)
		}
	}
	return out
}

// InventoryItems returns the stock items.
func (b *Books) InventoryItems() []model.InventoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inventory.Items()
}

// StockTransactions returns every stock movement in posting order.
func (b *Books) StockTransactions() []model.StockTransaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inventory.Transactions()
}

// StockBalance returns the quantity on hand of an item.
func (b *Books) StockBalance(itemID string) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inventory.Balance(itemID)
}

// StockRegister returns the running register of an item.
func (b *Books) StockRegister(itemID string) ([]inventory.RegisterRow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.inventory.Item(itemID); !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrItemNotFound, itemID)
	}
	return b.inventory.Register(itemID), nil
}

// StockSummaries returns the on-hand position of every item.
func (b *Books) StockSummaries() []inventory.Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inventory.Summaries()
}

// Notes returns saved notes, most recent first.
func (b *Books) Notes() []model.SavedNote {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.notes)
}

// AddNote saves a working note dated today.
func (b *Books) AddNote(title, content string) (model.SavedNote, error) {
	if strings.TrimSpace(title) == "" {
		return model.SavedNote{}, errors.New("note title is required")
	}
	n := model.SavedNote{ID: id.New(), Title: strings.TrimSpace(title), Content: content, Date: model.Today()}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notes = slices.Insert(slices.Clone(b.notes), 0, n)
	return n, nil
}

// DeleteNote removes a saved note.
func (b *Books) DeleteNote(noteID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.notes, func(n model.SavedNote) bool { return n.ID == noteID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, noteID)
	}
	b.notes = slices.Delete(slices.Clone(b.notes), i, i+1)
	return nil
}

// Settings returns the current settings.
func (b *Books) Settings() model.Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

// UpdateSettings replaces the settings. Changing the inventory method
// changes how later issues are costed; recorded issues keep their cost.
func (b *Books) UpdateSettings(s model.Settings) error {
	var err error
	if s.InventoryMethod, err = model.ParseValuationMethod(string(s.InventoryMethod)); err != nil {
		return err
	}
	if s.NegativeFormat, err = model.ParseNegativeFormat(string(s.NegativeFormat)); err != nil {
		return err
	}
	if s.FinancialYear, err = model.ParseFinancialYear(string(s.FinancialYear)); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	inv := b.inventory.Clone()
	if err := inv.SetMethod(s.InventoryMethod); err != nil {
		return err
	}
	b.inventory = inv
	b.settings = s
	b.log.Debug("settings updated", "inventory_method", s.InventoryMethod, "negative_format", s.NegativeFormat, "financial_year", s.FinancialYear)
	return nil
}
