package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// Tolerance is the largest debit/credit difference accepted as balanced.
var Tolerance = decimal.New(1, -2)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// ValidationErrors is the full set of violations found in one entry.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether any violation is of the given invariant.
func (errs ValidationErrors) Has(invariant int) bool {
	for _, ve := range errs {
		if ve.Invariant == invariant {
			return true
		}
	}
	return false
}

// Invariant numbers reported by ValidateEntry.
const (
	InvariantBalanced   = 1
	InvariantLineShape  = 2
	InvariantAccountRef = 3
	InvariantDate       = 4
	InvariantLineCount  = 5
)

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// ValidateEntry enforces the posting invariants on a proposed entry. A nil
// accounts checker skips the account reference check.
func ValidateEntry(entry model.JournalEntry, accounts AccountChecker) ValidationErrors {
	var errs ValidationErrors
	ref := entry.ID
	if ref == "" {
		ref = "new"
	}

	// Invariant 1: debits equal credits within tolerance.
	debit, credit := entry.Totals()
	if debit.Sub(credit).Abs().GreaterThan(Tolerance) {
		errs = append(errs, ValidationError{
			Invariant:   InvariantBalanced,
			EntryID:     ref,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2)),
		})
	}

	for i, line := range entry.Lines {
		// Invariant 2: a known side and a non-negative amount.
		if line.Type != model.Debit && line.Type != model.Credit {
			errs = append(errs, ValidationError{
				Invariant:   InvariantLineShape,
				EntryID:     ref,
				Description: fmt.Sprintf("line %d has unknown side %q", i+1, line.Type),
			})
		}
		if line.Amount.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   InvariantLineShape,
				EntryID:     ref,
				Description: fmt.Sprintf("line %d has negative amount %s", i+1, line.Amount),
			})
		}

		// Invariant 3: valid account references.
		if line.AccountID == "" || (accounts != nil && !accounts.Exists(line.AccountID)) {
			errs = append(errs, ValidationError{
				Invariant:   InvariantAccountRef,
				EntryID:     ref,
				Description: fmt.Sprintf("unknown account %q", line.AccountID),
			})
		}
	}

	// Invariant 4: dated.
	if entry.Date.IsZero() {
		errs = append(errs, ValidationError{
			Invariant:   InvariantDate,
			EntryID:     ref,
			Description: "entry has no date",
		})
	}

	// Invariant 5: at least two lines.
	if len(entry.Lines) < 2 {
		errs = append(errs, ValidationError{
			Invariant:   InvariantLineCount,
			EntryID:     ref,
			Description: fmt.Sprintf("entry needs at least 2 lines, got %d", len(entry.Lines)),
		})
	}

	return errs
}
