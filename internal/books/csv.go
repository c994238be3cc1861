package books

import (
	"fmt"
	"io"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/journal"
)

// ExportChartCSV writes the chart of accounts as CSV.
func (b *Books) ExportChartCSV(w io.Writer) error {
	return accounts.WriteAccounts(w, b.Accounts())
}

// ImportChartCSV adds the accounts of a chart-of-accounts CSV. Accounts
// already present under the same ID and name are left as they are. Either
// every new account is added or none is. It returns the number added.
func (b *Books) ImportChartCSV(r io.Reader) (int, error) {
	accts, err := accounts.ReadAccounts(r)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	reg := b.accounts.Clone()
	added, err := reg.Merge(accts)
	if err != nil {
		return 0, err
	}
	b.accounts = reg
	b.log.Info("chart imported", "accounts", len(added), "skipped", len(accts)-len(added))
	return len(added), nil
}

// ExportJournalCSV writes every entry as CSV, oldest first.
func (b *Books) ExportJournalCSV(w io.Writer) error {
	b.mu.Lock()
	entries := b.journal.Chronological()
	b.mu.Unlock()
	return journal.WriteEntries(w, entries)
}

// ImportJournalCSV posts the entries of a journal CSV in file order. Lines
// whose account ID is unknown are matched by account name. Either every
// entry is posted or none is. It returns the number of entries posted.
func (b *Books) ImportJournalCSV(r io.Reader) (int, error) {
	entries, err := journal.ReadEntries(r)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	j := b.journal.Clone()
	for _, e := range entries {
		for i, l := range e.Lines {
			if b.accounts.Exists(l.AccountID) {
				continue
			}
			a, ok := b.accounts.ByName(l.AccountName)
			if !ok {
				return 0, fmt.Errorf("entry %s: %w: %q", e.ID, accounts.ErrNotFound, l.AccountName)
			}
			e.Lines[i].AccountID, e.Lines[i].AccountName, e.Lines[i].Code = a.ID, a.Name, a.Code
		}
		if _, err := j.Add(e, b.accounts); err != nil {
			return 0, fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}
	b.journal = j
	b.log.Info("journal imported", "entries", len(entries))
	return len(entries), nil
}
