package books

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/model"
	"github.com/cleared-dev/bookkeeper/internal/posting"
	"github.com/cleared-dev/bookkeeper/internal/reports"
)

// commit runs translate against scratch copies of the chart and stock
// ledger, posts the resulting entry to a copy of the journal and swaps all
// three in together. Callers hold b.mu.
func (b *Books) commit(kind string, translate func(ws *posting.Workspace) (posting.Posting, error)) (model.JournalEntry, error) {
	ws := &posting.Workspace{
		Accounts:  b.accounts.Clone(),
		Inventory: b.inventory.Clone(),
		Documents: b.subsidiary,
	}
	p, err := translate(ws)
	if err != nil {
		b.log.Info("posting rejected", "kind", kind, "error", err)
		return model.JournalEntry{}, err
	}
	j := b.journal.Clone()
	entry, err := j.Add(p.Entry, ws.Accounts)
	if err != nil {
		b.log.Info("posting rejected", "kind", kind, "error", err)
		return model.JournalEntry{}, err
	}

	b.accounts, b.inventory, b.journal = ws.Accounts, ws.Inventory, j
	for _, a := range p.Created {
		b.log.Debug("account created", "account", a.Name, "code", a.Code, "type", a.Type)
	}
	b.log.Debug("entry posted", "kind", kind, "entry", entry.ID, "transaction", entry.TransactionID, "stock_movements", len(p.Stock))
	return entry, nil
}

// AddEntry posts a prepared journal entry after validating it.
func (b *Books) AddEntry(entry model.JournalEntry) (model.JournalEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	j := b.journal.Clone()
	posted, err := j.Add(entry, b.accounts)
	if err != nil {
		b.log.Info("entry rejected", "error", err)
		return model.JournalEntry{}, err
	}
	b.journal = j
	b.log.Debug("entry posted", "kind", "entry", "entry", posted.ID)
	return posted, nil
}

// PostJournal posts a hand-written entry whose lines name their accounts.
func (b *Books) PostJournal(date model.Date, narration string, lines []posting.ManualLine, opts posting.JournalOptions) (model.JournalEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commit("journal", func(ws *posting.Workspace) (posting.Posting, error) {
		return posting.Journal(ws, date, narration, lines, opts)
	})
}

// PostCashVoucher posts a cash-book voucher and records it in the cash book.
func (b *Books) PostCashVoucher(v model.CashBookEntry) (model.CashBookEntry, model.JournalEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v.IsOpeningBalance && b.hasOpeningBalanceLocked() {
		return v, model.JournalEntry{}, ErrOpeningBalanceExists
	}
	var posted model.CashBookEntry
	entry, err := b.commit("cash", func(ws *posting.Workspace) (posting.Posting, error) {
		var p posting.Posting
		var err error
		posted, p, err = posting.CashVoucher(ws, v)
		return p, err
	})
	if err != nil {
		return v, model.JournalEntry{}, err
	}
	b.cashBook = append(slices.Clone(b.cashBook), posted)
	return posted, entry, nil
}

// PostCashVouchers posts a batch of vouchers, such as one imported file.
// Either every voucher is posted or none is.
func (b *Books) PostCashVouchers(vs []model.CashBookEntry) ([]model.CashBookEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ws := &posting.Workspace{
		Accounts:  b.accounts.Clone(),
		Inventory: b.inventory.Clone(),
		Documents: b.subsidiary,
	}
	j := b.journal.Clone()
	opening := b.hasOpeningBalanceLocked()
	posted := make([]model.CashBookEntry, 0, len(vs))
	for i, v := range vs {
		if v.IsOpeningBalance {
			if opening {
				return nil, fmt.Errorf("voucher %d: %w", i+1, ErrOpeningBalanceExists)
			}
			opening = true
		}
		pv, p, err := posting.CashVoucher(ws, v)
		if err == nil {
			_, err = j.Add(p.Entry, ws.Accounts)
		}
		if err != nil {
			b.log.Info("voucher batch rejected", "voucher", i+1, "error", err)
			return nil, fmt.Errorf("voucher %d: %w", i+1, err)
		}
		posted = append(posted, pv)
	}
	b.accounts, b.journal = ws.Accounts, j
	b.cashBook = append(slices.Clone(b.cashBook), posted...)
	b.log.Debug("voucher batch posted", "vouchers", len(posted))
	return posted, nil
}

// PostInvoice posts a purchase, sales or return invoice and records it in
// its subsidiary book.
func (b *Books) PostInvoice(doc model.SubsidiaryEntry) (model.SubsidiaryEntry, model.JournalEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var posted model.SubsidiaryEntry
	entry, err := b.commit("invoice", func(ws *posting.Workspace) (posting.Posting, error) {
		var p posting.Posting
		var err error
		posted, p, err = posting.Invoice(ws, doc)
		return p, err
	})
	if err != nil {
		return doc, model.JournalEntry{}, err
	}
	b.subsidiary = append(slices.Clone(b.subsidiary), posted)
	return posted, entry, nil
}

// EligibleDepreciationAssets lists tangible assets that can be depreciated.
func (b *Books) EligibleDepreciationAssets() []posting.Asset {
	b.mu.Lock()
	defer b.mu.Unlock()
	return posting.EligibleAssets(b.accounts, b.journal)
}

// DepreciationCharge computes the charge on an eligible asset.
func (b *Books) DepreciationCharge(assetID string, method posting.DepreciationMethod, ratePct decimal.Decimal, date model.Date) (posting.Charge, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range posting.EligibleAssets(b.accounts, b.journal) {
		if a.Account.ID == assetID {
			return posting.ComputeCharge(a, method, ratePct, date)
		}
	}
	return posting.Charge{}, fmt.Errorf("%w: %s is not a depreciable asset", posting.ErrInvalidDocument, assetID)
}

// PostDepreciation posts a depreciation charge.
func (b *Books) PostDepreciation(c posting.Charge) (model.JournalEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commit("depreciation", func(ws *posting.Workspace) (posting.Posting, error) {
		return posting.Depreciation(ws, c)
	})
}

// Source returns a consistent view of the books for reporting. Committed
// stores are never mutated in place, so the view stays valid after the lock
// is released.
func (b *Books) Source() reports.Source {
	b.mu.Lock()
	defer b.mu.Unlock()
	return reports.Source{Accounts: b.accounts.All(), Journal: b.journal, Stock: b.inventory}
}

// Ledger returns one account's ledger.
func (b *Books) Ledger(accountID string) (reports.LedgerAccount, error) {
	return reports.Ledger(b.Source(), accountID)
}

// LedgerByName returns the ledger of the named account.
func (b *Books) LedgerByName(name string) (reports.LedgerAccount, error) {
	a, ok := b.AccountByName(name)
	if !ok {
		return reports.LedgerAccount{}, fmt.Errorf("%w: %q", accounts.ErrNotFound, name)
	}
	return b.Ledger(a.ID)
}

// TrialBalance returns the trial balance.
func (b *Books) TrialBalance() reports.TrialBalance {
	return reports.BuildTrialBalance(b.Source())
}

// FinalAccounts returns the Trading, P&L and balance sheet.
func (b *Books) FinalAccounts() reports.FinalAccounts {
	return reports.BuildFinalAccounts(b.Source())
}

// FiscalAnalysis returns the one-pass result and position summary.
func (b *Books) FiscalAnalysis() reports.FiscalAnalysis {
	return reports.Analyze(b.Source())
}
