package accounts

import "github.com/cleared-dev/bookkeeper/internal/model"

// Well-known account names used by the posting translators and reports.
const (
	CashName            = "Cash A/c"
	BankName            = "Bank A/c"
	CapitalName         = "Capital A/c"
	SalesName           = "Sales A/c"
	PurchaseName        = "Purchase A/c"
	StockName           = "Stock A/c"
	SalesReturnName     = "Sales Return A/c"
	PurchaseReturnName  = "Purchase Return A/c"
	DrawingsName        = "Drawings A/c"
	DiscountAllowedName = "Discount Allowed A/c"
	DiscountRecvdName   = "Discount Received A/c"
	DepreciationName    = "Depreciation A/c"
)

// DefaultChart returns the chart of accounts seeded into a new dataset.
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: "1", Code: "1001", Name: CashName, Type: model.AccountTypeAsset, Classification: model.ClassCurrentAsset, Description: "Cash in hand"},
		{ID: "2", Code: "1002", Name: BankName, Type: model.AccountTypeAsset, Classification: model.ClassCurrentAsset, Description: "Primary business bank account"},
		{ID: "3", Code: "2001", Name: CapitalName, Type: model.AccountTypeEquity, Classification: model.ClassOwnerCapital, Description: "Owner's investment"},
		{ID: "4", Code: "3001", Name: SalesName, Type: model.AccountTypeRevenue, Classification: model.ClassDirectRevenue, FinalAccountCategory: model.CategoryDirect, Description: "Revenue from goods sold"},
		{ID: "5", Code: "4001", Name: PurchaseName, Type: model.AccountTypeExpense, Classification: model.ClassDirectExpense, FinalAccountCategory: model.CategoryDirect, Description: "Cost of goods purchased"},
		{ID: "6", Code: "1003", Name: StockName, Type: model.AccountTypeAsset, Classification: model.ClassCurrentAsset, FinalAccountCategory: model.CategoryDirect, Description: "Opening stock/Closing stock"},
		{ID: "8", Code: "3002", Name: SalesReturnName, Type: model.AccountTypeExpense, Classification: model.ClassDirectExpense, FinalAccountCategory: model.CategoryDirect, Description: "Returns from customers"},
		{ID: "9", Code: "4003", Name: PurchaseReturnName, Type: model.AccountTypeRevenue, Classification: model.ClassDirectRevenue, FinalAccountCategory: model.CategoryDirect, Description: "Returns to suppliers"},
		{ID: "10", Code: "2002", Name: DrawingsName, Type: model.AccountTypeEquity, Classification: model.ClassOwnerDrawings, Description: "Owner's personal withdrawals"},
	}
}

// Default returns a registry seeded with DefaultChart.
func Default() *Registry {
	return NewRegistry(DefaultChart())
}
