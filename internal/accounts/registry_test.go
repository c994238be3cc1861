package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestByName_CaseInsensitiveTrimmed(t *testing.T) {
	r := Default()

	a, ok := r.ByName("  cash a/C ")
	require.True(t, ok)
	assert.Equal(t, "1", a.ID)

	_, ok = r.ByName("Cash")
	assert.False(t, ok, "match must be exact after normalization")
}

func TestCreate(t *testing.T) {
	r := Default()

	a, err := r.Create("  Ramesh Traders ", model.AccountTypeLiability, model.ClassSundryCreditor, "")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Traders", a.Name)
	assert.NotEmpty(t, a.ID)
	require.Len(t, a.Code, 4)
	assert.Equal(t, byte('2'), a.Code[0])
	assert.True(t, r.Exists(a.ID))

	got, ok := r.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestCreate_Rejections(t *testing.T) {
	r := Default()

	_, err := r.Create("cash a/c", model.AccountTypeAsset, model.ClassCurrentAsset, "")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = r.Create("Rent", model.AccountTypeExpense, model.ClassCurrentAsset, "")
	assert.ErrorContains(t, err, "not valid for EXPENSE")

	_, err = r.Create("Rent", model.AccountType("COST"), model.ClassIndirectExpense, "")
	assert.Error(t, err)

	_, err = r.Create("   ", model.AccountTypeExpense, model.ClassIndirectExpense, "")
	assert.Error(t, err)

	assert.Equal(t, 9, r.Len(), "rejected creates must not register anything")
}

func TestCreate_CodesStayUnique(t *testing.T) {
	r := Default()
	r.codeGen = func(model.AccountType) string { return "1001" }

	a, err := r.Create("Petty Cash", model.AccountTypeAsset, model.ClassCurrentAsset, "")
	require.NoError(t, err)
	assert.Equal(t, "1100", a.Code, "collisions fall back to the first free serial")

	b, err := r.Create("Float", model.AccountTypeAsset, model.ClassCurrentAsset, "")
	require.NoError(t, err)
	assert.Equal(t, "1101", b.Code)
}

func TestFindOrCreate(t *testing.T) {
	r := Default()

	a, created, err := r.FindOrCreate("Sales A/c", model.AccountTypeRevenue, model.ClassDirectRevenue, model.CategoryDirect)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "4", a.ID)

	b, created, err := r.FindOrCreate("Discount Allowed A/c", model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect)
	require.NoError(t, err)
	assert.True(t, created)

	c, created, err := r.FindOrCreate("discount allowed a/c", model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, b.ID, c.ID)
}

func TestUpdate(t *testing.T) {
	r := Default()

	a, err := r.Update("4", Patch{FinalAccountCategory: ptr(model.CategoryIndirect), Description: ptr("misc sales")})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryIndirect, a.FinalAccountCategory)
	assert.Equal(t, "misc sales", a.Description)
	assert.Equal(t, "3001", a.Code, "code is immutable")

	_, err = r.Update("4", Patch{Type: ptr(model.AccountTypeExpense)})
	assert.Error(t, err, "type change without a compatible classification must fail")
	got, _ := r.Get("4")
	assert.Equal(t, model.AccountTypeRevenue, got.Type, "failed update leaves the account unchanged")

	_, err = r.Update("4", Patch{Type: ptr(model.AccountTypeExpense), Classification: ptr(model.ClassIndirectExpense)})
	require.NoError(t, err)

	_, err = r.Update("4", Patch{Name: ptr("Bank A/c")})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = r.Update("4", Patch{Name: ptr("SALES A/C")})
	assert.NoError(t, err, "renaming to a different case of its own name is allowed")

	_, err = r.Update("missing", Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	r := Default()

	require.NoError(t, r.Delete("3"))
	assert.False(t, r.Exists("3"))
	assert.Equal(t, 8, r.Len())

	a, ok := r.Get("10")
	require.True(t, ok, "index is rebuilt after delete")
	assert.Equal(t, DrawingsName, a.Name)

	assert.ErrorIs(t, r.Delete("3"), ErrNotFound)
}

func TestAdd(t *testing.T) {
	r := Default()

	err := r.Add(model.Account{ID: "x1", Code: "1500", Name: "Machinery A/c", Type: model.AccountTypeAsset, Classification: model.ClassTangibleAsset})
	require.NoError(t, err)

	err = r.Add(model.Account{ID: "x2", Code: "1500", Name: "Furniture A/c", Type: model.AccountTypeAsset, Classification: model.ClassTangibleAsset})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	err = r.Add(model.Account{ID: "x1", Code: "1501", Name: "Furniture A/c", Type: model.AccountTypeAsset, Classification: model.ClassTangibleAsset})
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	r := Default()
	in := append(DefaultChart(),
		model.Account{ID: "x1", Code: "1500", Name: "Machinery A/c", Type: model.AccountTypeAsset, Classification: model.ClassTangibleAsset},
		model.Account{ID: "x2", Name: "Rent A/c", Type: model.AccountTypeExpense, Classification: model.ClassIndirectExpense, FinalAccountCategory: model.CategoryIndirect},
	)

	added, err := r.Merge(in)
	require.NoError(t, err)
	require.Len(t, added, 2, "default accounts are already registered")
	assert.Equal(t, 11, r.Len())

	rent, ok := r.ByName("Rent A/c")
	require.True(t, ok)
	assert.NotEmpty(t, rent.Code, "blank code is generated")

	again, err := r.Merge(in)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestMerge_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		acct model.Account
	}{
		{"name taken by another ID", model.Account{ID: "x1", Code: "1500", Name: "cash a/c", Type: model.AccountTypeAsset, Classification: model.ClassCurrentAsset}},
		{"ID taken by another name", model.Account{ID: "1", Code: "1500", Name: "Petty Cash A/c", Type: model.AccountTypeAsset, Classification: model.ClassCurrentAsset}},
		{"code taken", model.Account{ID: "x1", Code: "1001", Name: "Petty Cash A/c", Type: model.AccountTypeAsset, Classification: model.ClassCurrentAsset}},
		{"incompatible classification", model.Account{ID: "x1", Code: "1500", Name: "Petty Cash A/c", Type: model.AccountTypeAsset, Classification: model.ClassOwnerCapital}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			_, err := r.Merge([]model.Account{tt.acct})
			assert.Error(t, err)
		})
	}
}

func TestClone_IsIndependent(t *testing.T) {
	r := Default()
	c := r.Clone()

	_, err := c.Create("Rent A/c", model.AccountTypeExpense, model.ClassIndirectExpense, model.CategoryIndirect)
	require.NoError(t, err)
	require.NoError(t, c.Delete("1"))

	assert.Equal(t, 9, r.Len())
	assert.True(t, r.Exists("1"))
	_, ok := r.ByName("Rent A/c")
	assert.False(t, ok)
}

func TestByTypeAndClassification(t *testing.T) {
	r := Default()
	assert.Len(t, r.ByType(model.AccountTypeEquity), 2)
	assert.Len(t, r.ByClassification(model.ClassCurrentAsset), 3)
	assert.Empty(t, r.ByClassification(model.ClassTangibleAsset))
}
