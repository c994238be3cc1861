package posting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/id"
	"github.com/cleared-dev/bookkeeper/internal/inventory"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

var hundred = decimal.NewFromInt(100)

// bookAccount is the principal account each subsidiary book posts to.
var bookAccount = map[model.BookType]struct {
	name    string
	profile Profile
}{
	model.BookPurchase:       {accounts.PurchaseName, Profile{model.AccountTypeExpense, model.ClassDirectExpense, model.CategoryDirect}},
	model.BookSales:          {accounts.SalesName, Profile{model.AccountTypeRevenue, model.ClassDirectRevenue, model.CategoryDirect}},
	model.BookPurchaseReturn: {accounts.PurchaseReturnName, Profile{model.AccountTypeRevenue, model.ClassDirectRevenue, model.CategoryDirect}},
	model.BookSalesReturn:    {accounts.SalesReturnName, Profile{model.AccountTypeExpense, model.ClassDirectExpense, model.CategoryDirect}},
}

// Compute fills in item amounts, the subtotal, the trade discount and the
// invoice total. All figures are rounded to two decimals.
func Compute(doc model.SubsidiaryEntry) model.SubsidiaryEntry {
	items := make([]model.InvoiceItem, len(doc.Items))
	sub := decimal.Zero
	for i, it := range doc.Items {
		it.Amount = round(it.Quantity.Mul(it.Rate))
		sub = sub.Add(it.Amount)
		items[i] = it
	}
	doc.Items = items
	doc.SubTotal = sub
	doc.CashDiscountAmount = round(doc.CashDiscountAmount)
	doc.DiscountAmount = round(sub.Mul(doc.TradeDiscountPercent).Div(hundred))
	doc.TotalAmount = sub.Sub(doc.DiscountAmount).Sub(doc.CashDiscountAmount)
	return doc
}

func checkInvoice(ws *Workspace, doc model.SubsidiaryEntry) error {
	if _, ok := bookAccount[doc.BookType]; !ok {
		return invalid("book %q does not post invoices", doc.BookType)
	}
	if doc.Date.IsZero() {
		return invalid("invoice date is required")
	}
	if strings.TrimSpace(doc.PartyName) == "" {
		return invalid("party name is required")
	}
	if len(doc.Items) == 0 {
		return invalid("invoice has no items")
	}
	for i, it := range doc.Items {
		if strings.TrimSpace(it.Description) == "" {
			return invalid("item %d has no description", i+1)
		}
		if !it.Quantity.IsPositive() {
			return invalid("item %d quantity must be positive", i+1)
		}
		if it.Rate.IsNegative() {
			return invalid("item %d rate must not be negative", i+1)
		}
	}
	if doc.TradeDiscountPercent.IsNegative() || doc.TradeDiscountPercent.GreaterThan(hundred) {
		return invalid("trade discount %s%% out of range", doc.TradeDiscountPercent)
	}
	if doc.CashDiscountAmount.IsNegative() {
		return invalid("cash discount must not be negative")
	}
	if doc.BookType.IsReturn() && doc.CashDiscountAmount.IsPositive() {
		return invalid("return documents carry no cash discount")
	}
	if doc.TotalAmount.IsNegative() {
		return invalid("discounts exceed the invoice subtotal")
	}

	if ws.Documents != nil {
		if _, dup := ws.Documents.Document(doc.InvoiceNumber); dup {
			return invalid("document %s already posted", doc.InvoiceNumber)
		}
	}
	if doc.ReferenceID != "" {
		if !doc.BookType.IsReturn() {
			return invalid("only return documents may reference an invoice")
		}
		var ref model.SubsidiaryEntry
		var ok bool
		if ws.Documents != nil {
			ref, ok = ws.Documents.Document(doc.ReferenceID)
		}
		if !ok {
			return invalid("referenced invoice %s not found", doc.ReferenceID)
		}
		if want := ReferenceBook(doc.BookType); ref.BookType != want {
			return invalid("%s may only reference a %s invoice, %s is %s", doc.BookType, want, ref.BookType, doc.ReferenceID)
		}
	}
	return nil
}

// ReferenceBook returns the book a return document may reference, or "" for
// books that take no reference.
func ReferenceBook(b model.BookType) model.BookType {
	switch b {
	case model.BookSalesReturn:
		return model.BookSales
	case model.BookPurchaseReturn:
		return model.BookPurchase
	default:
		return ""
	}
}

// Invoice posts a purchase, sales or return invoice.
//
// Purchases debit Purchase A/c with the amount net of trade discount and
// credit the supplier with the total, any cash discount going to Discount
// Received A/c. Sales mirror this with Discount Allowed A/c. Returns move the
// total between the party and the matching return account. Inward books
// receive stock at the invoice rate; outward books issue it at cost under the
// workspace's valuation method, and are refused when stock is short.
func Invoice(ws *Workspace, doc model.SubsidiaryEntry) (model.SubsidiaryEntry, Posting, error) {
	doc = Compute(doc)
	if doc.ID == "" {
		doc.ID = id.New()
	}
	if doc.InvoiceNumber == "" {
		doc.InvoiceNumber = id.NewDocumentID(doc.BookType)
	}
	if err := checkInvoice(ws, doc); err != nil {
		return doc, Posting{}, err
	}
	if !doc.BookType.Inward() {
		if err := checkStock(ws.Inventory, doc.Date, doc.Items); err != nil {
			return doc, Posting{}, err
		}
	}

	partyProfile := CreditorProfile
	if doc.BookType.SalesSide() {
		partyProfile = DebtorProfile
	}
	party, err := ws.account(doc.PartyName, partyProfile)
	if err != nil {
		return doc, Posting{}, err
	}
	book := bookAccount[doc.BookType]
	main, err := ws.account(book.name, book.profile)
	if err != nil {
		return doc, Posting{}, err
	}

	net := doc.SubTotal.Sub(doc.DiscountAmount)
	var lines []model.JournalLine
	switch doc.BookType {
	case model.BookPurchase:
		lines = append(lines, newLine(model.Debit, main, net), newLine(model.Credit, party, doc.TotalAmount))
		if doc.CashDiscountAmount.IsPositive() {
			disc, err := ws.account(accounts.DiscountRecvdName, DiscountReceivedProfile)
			if err != nil {
				return doc, Posting{}, err
			}
			lines = append(lines, newLine(model.Credit, disc, doc.CashDiscountAmount))
		}
	case model.BookSales:
		lines = append(lines, newLine(model.Debit, party, doc.TotalAmount))
		if doc.CashDiscountAmount.IsPositive() {
			disc, err := ws.account(accounts.DiscountAllowedName, DiscountAllowedProfile)
			if err != nil {
				return doc, Posting{}, err
			}
			lines = append(lines, newLine(model.Debit, disc, doc.CashDiscountAmount))
		}
		lines = append(lines, newLine(model.Credit, main, net))
	case model.BookSalesReturn:
		lines = append(lines, newLine(model.Debit, main, doc.TotalAmount), newLine(model.Credit, party, doc.TotalAmount))
	case model.BookPurchaseReturn:
		lines = append(lines, newLine(model.Debit, party, doc.TotalAmount), newLine(model.Credit, main, doc.TotalAmount))
	}

	stock, err := moveStock(ws.Inventory, doc)
	if err != nil {
		return doc, Posting{}, err
	}

	narration := fmt.Sprintf("Being %s posted from book", strings.ToLower(strings.ReplaceAll(string(doc.BookType), "_", " ")))
	entry := newEntry(doc.Date, narration, lines...)
	doc.TransactionID = entry.TransactionID
	doc.Posted = true
	return doc, ws.finish(entry, stock), nil
}

// checkStock refuses an outward document when any item, summed across its
// lines, exceeds the quantity available on the document date. Unknown
// items have none on hand.
func checkStock(inv *inventory.Service, date model.Date, items []model.InvoiceItem) error {
	requested := make(map[string]decimal.Decimal)
	var order []string
	for _, it := range items {
		name := strings.TrimSpace(it.Description)
		key := strings.ToLower(name)
		if _, seen := requested[key]; !seen {
			order = append(order, name)
		}
		requested[key] = requested[key].Add(it.Quantity)
	}
	for _, name := range order {
		key := strings.ToLower(name)
		available := decimal.Zero
		itemID := ""
		if item, ok := inv.ItemByName(name); ok {
			available = inv.AvailableAt(item.ID, date)
			name, itemID = item.Name, item.ID
		}
		if requested[key].GreaterThan(available) {
			return &inventory.InsufficientStockError{
				ItemID:    itemID,
				Item:      name,
				Available: available,
				Requested: requested[key],
			}
		}
	}
	return nil
}

func moveStock(inv *inventory.Service, doc model.SubsidiaryEntry) ([]model.StockTransaction, error) {
	var out []model.StockTransaction
	for _, it := range doc.Items {
		rate := decimal.Zero
		if doc.BookType == model.BookPurchase {
			rate = it.Rate
		}
		item, _, err := inv.FindOrCreateItem(it.Description, it.Unit, rate)
		if err != nil {
			return nil, err
		}
		var t model.StockTransaction
		if doc.BookType.Inward() {
			t, err = inv.Receive(doc.Date, item.ID, it.Quantity, it.Rate, doc.InvoiceNumber)
		} else {
			t, err = inv.Issue(doc.Date, item.ID, it.Quantity, doc.InvoiceNumber)
		}
		if err != nil {
			return nil, err
		}
		if doc.BookType == model.BookPurchase {
			if err := inv.SetLastPurchaseRate(item.ID, it.Rate); err != nil {
				return nil, err
			}
		}
		out = append(out, t)
	}
	return out, nil
}
