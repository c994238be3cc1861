package journal

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/id"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// Store is the append-only journal. Entries are held most recent first.
// Balances are folds over every entry; results are memoized per store
// version so a fold is never served across an append.
type Store struct {
	entries []model.JournalEntry
	version uint64
	memo    *cache.Cache
}

// NewStore creates a Store over entries given most recent first.
func NewStore(entries []model.JournalEntry) *Store {
	return &Store{
		entries: slices.Clone(entries),
		memo:    cache.New(cache.NoExpiration, 0),
	}
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	c := NewStore(s.entries)
	c.version = s.version
	return c
}

// Version increases by one with every accepted entry.
func (s *Store) Version() uint64 {
	return s.version
}

// Len returns the number of posted entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns all entries, most recent first.
func (s *Store) Entries() []model.JournalEntry {
	return slices.Clone(s.entries)
}

// Chronological returns all entries ordered by date. Entries on the same
// date keep their posting order.
func (s *Store) Chronological() []model.JournalEntry {
	out := slices.Clone(s.entries)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b model.JournalEntry) int {
		return a.Date.Compare(b.Date.Time)
	})
	return out
}

// Get returns an entry by ID.
func (s *Store) Get(entryID string) (model.JournalEntry, bool) {
	for _, e := range s.entries {
		if e.ID == entryID {
			return e, true
		}
	}
	return model.JournalEntry{}, false
}

// Add validates a proposed entry and posts it. Missing entry, line and
// transaction IDs are generated. A rejected entry leaves the store unchanged
// and the error is a ValidationErrors.
func (s *Store) Add(entry model.JournalEntry, accounts AccountChecker) (model.JournalEntry, error) {
	if verrs := ValidateEntry(entry, accounts); len(verrs) > 0 {
		return model.JournalEntry{}, verrs
	}

	entry.Lines = slices.Clone(entry.Lines)
	if entry.ID == "" {
		entry.ID = id.New()
	}
	if entry.TransactionID == "" {
		entry.TransactionID = id.NewTransactionID()
	}
	for i := range entry.Lines {
		if entry.Lines[i].ID == "" {
			entry.Lines[i].ID = id.New()
		}
	}
	if _, dup := s.Get(entry.ID); dup {
		return model.JournalEntry{}, fmt.Errorf("entry %s already posted", entry.ID)
	}

	s.entries = slices.Insert(s.entries, 0, entry)
	s.version++
	s.memo.Flush()
	return entry, nil
}

// Balance returns the signed balance of an account: debits add, credits
// subtract. Positive is a net debit balance.
func (s *Store) Balance(accountID string) decimal.Decimal {
	key := strconv.FormatUint(s.version, 10) + ":" + accountID
	if v, ok := s.memo.Get(key); ok {
		return v.(decimal.Decimal)
	}
	bal := decimal.Zero
	for _, e := range s.entries {
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				bal = bal.Add(l.Signed())
			}
		}
	}
	s.memo.Set(key, bal, cache.NoExpiration)
	return bal
}

// Balances folds every account balance in one pass.
func (s *Store) Balances() map[string]decimal.Decimal {
	key := strconv.FormatUint(s.version, 10) + ":*"
	if v, ok := s.memo.Get(key); ok {
		return maps.Clone(v.(map[string]decimal.Decimal))
	}
	out := make(map[string]decimal.Decimal)
	for _, e := range s.entries {
		for _, l := range e.Lines {
			prev, ok := out[l.AccountID]
			if !ok {
				prev = decimal.Zero
			}
			out[l.AccountID] = prev.Add(l.Signed())
		}
	}
	s.memo.Set(key, out, cache.NoExpiration)
	return maps.Clone(out)
}

// Totals returns the debit and credit totals across all entries.
func (s *Store) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range s.entries {
		dr, cr := e.Totals()
		debit = debit.Add(dr)
		credit = credit.Add(cr)
	}
	return debit, credit
}

// References reports whether any line references accountID.
func (s *Store) References(accountID string) bool {
	for _, e := range s.entries {
		if e.Touches(accountID) {
			return true
		}
	}
	return false
}

// DepreciationCredits sums the credits to accountID made by depreciation entries.
func (s *Store) DepreciationCredits(accountID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		if !e.IsDepreciationEntry {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID && l.Type == model.Credit {
				total = total.Add(l.Amount)
			}
		}
	}
	return total
}
