package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/bookkeeper/internal/id"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

var (
	// ErrNotFound is returned when an account ID is not registered.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateName is returned when an account name is already taken.
	ErrDuplicateName = errors.New("account name already exists")
	// ErrDuplicateCode is returned when an account code is already taken.
	ErrDuplicateCode = errors.New("account code already exists")
)

// maxCodeAttempts bounds random code generation before falling back to a scan.
const maxCodeAttempts = 32

// Registry is the chart of accounts.
type Registry struct {
	accounts []model.Account
	byID     map[string]int
	codeGen  func(model.AccountType) string
}

// NewRegistry creates a Registry over a copy of accounts.
func NewRegistry(accounts []model.Account) *Registry {
	r := &Registry{
		accounts: append([]model.Account(nil), accounts...),
		codeGen:  id.RandomAccountCode,
	}
	r.reindex()
	return r
}

func (r *Registry) reindex() {
	r.byID = make(map[string]int, len(r.accounts))
	for i, a := range r.accounts {
		r.byID[a.ID] = i
	}
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c := NewRegistry(r.accounts)
	c.codeGen = r.codeGen
	return c
}

// All returns all accounts in registration order.
func (r *Registry) All() []model.Account {
	return append([]model.Account(nil), r.accounts...)
}

// Len returns the number of accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}

// Get returns an account by ID.
func (r *Registry) Get(accountID string) (model.Account, bool) {
	i, ok := r.byID[accountID]
	if !ok {
		return model.Account{}, false
	}
	return r.accounts[i], true
}

// Exists reports whether an account ID exists.
func (r *Registry) Exists(accountID string) bool {
	_, ok := r.byID[accountID]
	return ok
}

// ByName returns the account whose trimmed name matches case-insensitively.
func (r *Registry) ByName(name string) (model.Account, bool) {
	key := normalizeName(name)
	for _, a := range r.accounts {
		if normalizeName(a.Name) == key {
			return a, true
		}
	}
	return model.Account{}, false
}

// ByCode returns the account with the given code.
func (r *Registry) ByCode(code string) (model.Account, bool) {
	for _, a := range r.accounts {
		if a.Code == code {
			return a, true
		}
	}
	return model.Account{}, false
}

// ByType returns all accounts of the given type.
func (r *Registry) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range r.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// ByClassification returns all accounts with the given classification.
func (r *Registry) ByClassification(c model.Classification) []model.Account {
	var result []model.Account
	for _, a := range r.accounts {
		if a.Classification == c {
			result = append(result, a)
		}
	}
	return result
}

// Create registers a new account with a generated code.
func (r *Registry) Create(name string, t model.AccountType, c model.Classification, cat model.FinalCategory) (model.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Account{}, errors.New("account name is required")
	}
	if err := checkProfile(t, c, cat); err != nil {
		return model.Account{}, err
	}
	if _, ok := r.ByName(name); ok {
		return model.Account{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	code, err := r.nextCode(t)
	if err != nil {
		return model.Account{}, err
	}
	acct := model.Account{
		ID:                   id.New(),
		Code:                 code,
		Name:                 name,
		Type:                 t,
		Classification:       c,
		FinalAccountCategory: cat,
	}
	r.accounts = append(r.accounts, acct)
	r.byID[acct.ID] = len(r.accounts) - 1
	return acct, nil
}

// FindOrCreate returns the account named name, creating it with the given
// profile when absent. The boolean reports whether the account was created.
func (r *Registry) FindOrCreate(name string, t model.AccountType, c model.Classification, cat model.FinalCategory) (model.Account, bool, error) {
	if a, ok := r.ByName(name); ok {
		return a, false, nil
	}
	a, err := r.Create(name, t, c, cat)
	if err != nil {
		return model.Account{}, false, err
	}
	return a, true, nil
}

// Add registers a fully specified account, such as one restored from a
// backup. ID, code and name must all be unused.
func (r *Registry) Add(acct model.Account) error {
	if acct.ID == "" {
		return errors.New("account ID is required")
	}
	if r.Exists(acct.ID) {
		return fmt.Errorf("account ID %q already registered", acct.ID)
	}
	if strings.TrimSpace(acct.Name) == "" {
		return fmt.Errorf("account %s: name is required", acct.ID)
	}
	if err := checkProfile(acct.Type, acct.Classification, acct.FinalAccountCategory); err != nil {
		return fmt.Errorf("account %s: %w", acct.Name, err)
	}
	if _, ok := r.ByName(acct.Name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, acct.Name)
	}
	if _, ok := r.ByCode(acct.Code); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCode, acct.Code)
	}
	r.accounts = append(r.accounts, acct)
	r.byID[acct.ID] = len(r.accounts) - 1
	return nil
}

// Merge adds accounts read from a chart export. An account already
// registered under the same ID and name is skipped; a blank code is
// generated from the account type. It stops at the first account Add
// rejects, so callers merge into a clone. It returns the accounts added.
func (r *Registry) Merge(accts []model.Account) ([]model.Account, error) {
	var added []model.Account
	for _, a := range accts {
		if cur, ok := r.Get(a.ID); ok && normalizeName(cur.Name) == normalizeName(a.Name) {
			continue
		}
		if a.Code == "" {
			code, err := r.nextCode(a.Type)
			if err != nil {
				return nil, fmt.Errorf("account %s: %w", a.Name, err)
			}
			a.Code = code
		}
		if err := r.Add(a); err != nil {
			return nil, err
		}
		added = append(added, a)
	}
	return added, nil
}

// Patch holds the mutable fields of an account. Nil fields are left unchanged.
type Patch struct {
	Name                 *string
	Type                 *model.AccountType
	Classification       *model.Classification
	FinalAccountCategory *model.FinalCategory
	Description          *string
}

// Update merges p into the account. Reports reflect the change retroactively
// because balances are always folded from the journal.
func (r *Registry) Update(accountID string, p Patch) (model.Account, error) {
	i, ok := r.byID[accountID]
	if !ok {
		return model.Account{}, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	acct := r.accounts[i]
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return model.Account{}, errors.New("account name is required")
		}
		if other, taken := r.ByName(name); taken && other.ID != accountID {
			return model.Account{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		acct.Name = name
	}
	if p.Type != nil {
		acct.Type = *p.Type
	}
	if p.Classification != nil {
		acct.Classification = *p.Classification
	}
	if p.FinalAccountCategory != nil {
		acct.FinalAccountCategory = *p.FinalAccountCategory
	}
	if p.Description != nil {
		acct.Description = *p.Description
	}
	if err := checkProfile(acct.Type, acct.Classification, acct.FinalAccountCategory); err != nil {
		return model.Account{}, err
	}
	r.accounts[i] = acct
	return acct, nil
}

// Delete removes an account. It does not check journal references; callers
// that need referential integrity must check before deleting.
func (r *Registry) Delete(accountID string) error {
	i, ok := r.byID[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
	r.reindex()
	return nil
}

func (r *Registry) nextCode(t model.AccountType) (string, error) {
	for range maxCodeAttempts {
		code := r.codeGen(t)
		if _, taken := r.ByCode(code); !taken {
			return code, nil
		}
	}
	for serial := 100; serial <= 998; serial++ {
		code := id.FormatAccountCode(t, serial)
		if _, taken := r.ByCode(code); !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free account codes for type %s", t)
}

func checkProfile(t model.AccountType, c model.Classification, cat model.FinalCategory) error {
	if !t.Valid() {
		return fmt.Errorf("unknown account type %q", t)
	}
	if !model.Compatible(t, c) {
		return fmt.Errorf("classification %s is not valid for %s accounts", c, t)
	}
	if _, err := model.ParseFinalCategory(string(cat)); err != nil {
		return err
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
