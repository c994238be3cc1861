package posting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// DepreciationMethod selects the base a depreciation rate applies to.
type DepreciationMethod string

const (
	// StraightLine charges the rate on original cost every year.
	StraightLine DepreciationMethod = "SLM"
	// WrittenDown charges the rate on the current book value.
	WrittenDown DepreciationMethod = "WDV"
)

// ParseDepreciationMethod parses SLM or WDV.
func ParseDepreciationMethod(s string) (DepreciationMethod, error) {
	switch m := DepreciationMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case StraightLine, WrittenDown:
		return m, nil
	default:
		return "", fmt.Errorf("unknown depreciation method %q", s)
	}
}

// minDepreciableBalance excludes fully written-off assets.
var minDepreciableBalance = decimal.New(1, -1)

// Asset is a tangible asset that can be depreciated.
type Asset struct {
	Account                 model.Account   `json:"account"`
	CurrentBalance          decimal.Decimal `json:"currentBalance"`
	Cost                    decimal.Decimal `json:"cost"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulatedDepreciation"`
}

// Balances is the view of the journal depreciation needs.
type Balances interface {
	Balance(accountID string) decimal.Decimal
	DepreciationCredits(accountID string) decimal.Decimal
}

// EligibleAssets lists tangible assets with a book value above 0.10.
// Original cost is recovered by adding back depreciation already charged.
func EligibleAssets(reg *accounts.Registry, journal Balances) []Asset {
	var out []Asset
	for _, a := range reg.ByClassification(model.ClassTangibleAsset) {
		bal := journal.Balance(a.ID)
		if !bal.GreaterThan(minDepreciableBalance) {
			continue
		}
		acc := journal.DepreciationCredits(a.ID)
		out = append(out, Asset{
			Account:                 a,
			CurrentBalance:          bal,
			Cost:                    bal.Add(acc),
			AccumulatedDepreciation: acc,
		})
	}
	return out
}

// Charge is a computed depreciation charge ready to post.
type Charge struct {
	AssetID   string          `json:"assetId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      model.Date      `json:"date"`
	Narration string          `json:"narration"`
}

// ComputeCharge works out the charge for an asset at ratePct per annum. The
// charge never exceeds the asset's book value.
func ComputeCharge(asset Asset, method DepreciationMethod, ratePct decimal.Decimal, date model.Date) (Charge, error) {
	if !ratePct.IsPositive() || ratePct.GreaterThan(hundred) {
		return Charge{}, invalid("depreciation rate %s%% out of range", ratePct)
	}
	var base decimal.Decimal
	switch method {
	case StraightLine:
		base = asset.Cost
	case WrittenDown:
		base = asset.CurrentBalance
	default:
		return Charge{}, invalid("unknown depreciation method %q", method)
	}
	amount := round(base.Mul(ratePct).Div(hundred))
	if amount.GreaterThan(asset.CurrentBalance) {
		amount = round(asset.CurrentBalance)
	}
	return Charge{
		AssetID: asset.Account.ID,
		Amount:  amount,
		Date:    date,
		Narration: fmt.Sprintf("Being depreciation charged on %s @ %s%% p.a. using %s method.",
			asset.Account.Name, ratePct.String(), method),
	}, nil
}

// Depreciation posts a charge: Depreciation A/c is debited and the asset
// credited. The entry is flagged so later runs can recover original cost.
func Depreciation(ws *Workspace, c Charge) (Posting, error) {
	if !c.Amount.IsPositive() {
		return Posting{}, invalid("depreciation amount must be positive")
	}
	if c.Date.IsZero() {
		return Posting{}, invalid("depreciation date is required")
	}
	asset, ok := ws.Accounts.Get(c.AssetID)
	if !ok {
		return Posting{}, invalid("unknown asset account %q", c.AssetID)
	}
	if asset.Type != model.AccountTypeAsset {
		return Posting{}, invalid("%s is not an asset account", asset.Name)
	}
	dep, err := ws.account(accounts.DepreciationName, DepreciationProfile)
	if err != nil {
		return Posting{}, err
	}
	narration := c.Narration
	if strings.TrimSpace(narration) == "" {
		narration = "Being depreciation charged on " + asset.Name
	}
	entry := newEntry(c.Date, narration,
		newLine(model.Debit, dep, round(c.Amount)),
		newLine(model.Credit, asset, round(c.Amount)),
	)
	entry.IsDepreciationEntry = true
	return ws.finish(entry, nil), nil
}
