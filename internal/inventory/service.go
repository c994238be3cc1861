package inventory

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/id"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

// DefaultUnit is assigned to items created without a unit.
const DefaultUnit = "Pcs"

var (
	// ErrItemNotFound is returned for an unknown item ID.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrDuplicateItem is returned when an item name is already taken.
	ErrDuplicateItem = errors.New("inventory item already exists")
)

// InsufficientStockError rejects an issue larger than the stock on hand.
type InsufficientStockError struct {
	ItemID    string
	Item      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s", e.Item, e.Available, e.Requested)
}

// Service is the perpetual stock ledger. Transactions are kept in posting
// order; valuation sorts them by date.
type Service struct {
	items    []model.InventoryItem
	txns     []model.StockTransaction
	strategy Strategy
}

// NewService creates a Service over copies of items and txns.
func NewService(items []model.InventoryItem, txns []model.StockTransaction, method model.ValuationMethod) (*Service, error) {
	strategy, err := StrategyFor(method)
	if err != nil {
		return nil, err
	}
	return &Service{
		items:    slices.Clone(items),
		txns:     slices.Clone(txns),
		strategy: strategy,
	}, nil
}

// Clone returns an independent copy of the service.
func (s *Service) Clone() *Service {
	return &Service{
		items:    slices.Clone(s.items),
		txns:     slices.Clone(s.txns),
		strategy: s.strategy,
	}
}

// Method returns the active valuation method.
func (s *Service) Method() model.ValuationMethod {
	return s.strategy.Method()
}

// SetMethod switches the valuation method for future issues. Recorded
// issue costs are not restated.
func (s *Service) SetMethod(m model.ValuationMethod) error {
	strategy, err := StrategyFor(m)
	if err != nil {
		return err
	}
	s.strategy = strategy
	return nil
}

// Items returns all items in creation order.
func (s *Service) Items() []model.InventoryItem {
	return slices.Clone(s.items)
}

// Transactions returns all stock transactions in posting order.
func (s *Service) Transactions() []model.StockTransaction {
	return slices.Clone(s.txns)
}

// Item returns an item by ID.
func (s *Service) Item(itemID string) (model.InventoryItem, bool) {
	i := s.indexOf(itemID)
	if i < 0 {
		return model.InventoryItem{}, false
	}
	return s.items[i], true
}

// ItemByName returns the item whose trimmed name matches case-insensitively.
func (s *Service) ItemByName(name string) (model.InventoryItem, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, it := range s.items {
		if strings.ToLower(it.Name) == key {
			return it, true
		}
	}
	return model.InventoryItem{}, false
}

// AddItem registers a fully specified item, such as one restored from a backup.
func (s *Service) AddItem(item model.InventoryItem) error {
	if item.ID == "" || strings.TrimSpace(item.Name) == "" {
		return errors.New("inventory item needs an ID and a name")
	}
	if s.indexOf(item.ID) >= 0 {
		return fmt.Errorf("inventory item ID %q already registered", item.ID)
	}
	if _, ok := s.ItemByName(item.Name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateItem, item.Name)
	}
	s.items = append(s.items, item)
	return nil
}

// FindOrCreateItem returns the item named name, creating it when absent.
// The boolean reports whether the item was created.
func (s *Service) FindOrCreateItem(name, unit string, rate decimal.Decimal) (model.InventoryItem, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.InventoryItem{}, false, errors.New("item name is required")
	}
	if it, ok := s.ItemByName(name); ok {
		return it, false, nil
	}
	if strings.TrimSpace(unit) == "" {
		unit = DefaultUnit
	}
	it := model.InventoryItem{ID: id.New(), Name: name, Unit: unit, LastPurchaseRate: rate}
	s.items = append(s.items, it)
	return it, true, nil
}

// SetLastPurchaseRate records the rate of the latest purchase of an item.
func (s *Service) SetLastPurchaseRate(itemID string, rate decimal.Decimal) error {
	i := s.indexOf(itemID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	s.items[i].LastPurchaseRate = rate
	return nil
}

// Balance returns the quantity on hand: receipts minus issues.
func (s *Service) Balance(itemID string) decimal.Decimal {
	qty := decimal.Zero
	for _, t := range s.txns {
		if t.ItemID != itemID {
			continue
		}
		if t.Type == model.Receipt {
			qty = qty.Add(t.Quantity)
		} else {
			qty = qty.Sub(t.Quantity)
		}
	}
	return qty
}

// History returns an item's transactions in date order, ties in posting order.
func (s *Service) History(itemID string) []model.StockTransaction {
	var out []model.StockTransaction
	for _, t := range s.txns {
		if t.ItemID == itemID {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b model.StockTransaction) int {
		return a.Date.Compare(b.Date.Time)
	})
	return out
}

// AvailableAt returns the quantity that can be issued on date without the
// item's running balance going negative on that date or any later one.
// Existing transactions dated on date come before the new issue.
func (s *Service) AvailableAt(itemID string, date model.Date) decimal.Decimal {
	running := decimal.Zero
	var low decimal.Decimal
	reached := false
	for _, t := range s.History(itemID) {
		if !reached && t.Date.After(date.Time) {
			low, reached = running, true
		}
		if t.Type == model.Receipt {
			running = running.Add(t.Quantity)
		} else {
			running = running.Sub(t.Quantity)
		}
		if reached && running.LessThan(low) {
			low = running
		}
	}
	if !reached {
		low = running
	}
	if low.IsNegative() {
		return decimal.Zero
	}
	return low
}

// historyThrough returns an item's history up to and including date.
func (s *Service) historyThrough(itemID string, date model.Date) []model.StockTransaction {
	var out []model.StockTransaction
	for _, t := range s.History(itemID) {
		if t.Date.After(date.Time) {
			break
		}
		out = append(out, t)
	}
	return out
}

// Layers returns the stock remaining for an item under the active method.
func (s *Service) Layers(itemID string) []Layer {
	return s.strategy.Layers(s.History(itemID))
}

// IssueCost returns the cost of issuing qty of an item now. A shortfall
// beyond the recorded layers is valued at the item's last purchase rate.
func (s *Service) IssueCost(itemID string, qty decimal.Decimal) decimal.Decimal {
	if !qty.IsPositive() {
		return decimal.Zero
	}
	item, _ := s.Item(itemID)
	return Cost(s.Layers(itemID), qty, item.LastPurchaseRate)
}

// Receive appends a receipt at the given rate.
func (s *Service) Receive(date model.Date, itemID string, qty, rate decimal.Decimal, refDocID string) (model.StockTransaction, error) {
	item, ok := s.Item(itemID)
	if !ok {
		return model.StockTransaction{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if !qty.IsPositive() {
		return model.StockTransaction{}, fmt.Errorf("receipt quantity must be positive, got %s", qty)
	}
	if rate.IsNegative() {
		return model.StockTransaction{}, fmt.Errorf("receipt rate must not be negative, got %s", rate)
	}
	t := model.StockTransaction{
		ID:       id.New(),
		Date:     date,
		Type:     model.Receipt,
		ItemID:   item.ID,
		ItemName: item.Name,
		Quantity: qty,
		Rate:     rate,
		Amount:   qty.Mul(rate).Round(2),
		RefDocID: refDocID,
	}
	s.txns = append(s.txns, t)
	return t, nil
}

// Issue appends an issue costed by the active method from the layers on
// hand at date. It refuses an issue that would take the item's balance
// below zero at date or at any later transaction.
func (s *Service) Issue(date model.Date, itemID string, qty decimal.Decimal, refDocID string) (model.StockTransaction, error) {
	item, ok := s.Item(itemID)
	if !ok {
		return model.StockTransaction{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if !qty.IsPositive() {
		return model.StockTransaction{}, fmt.Errorf("issue quantity must be positive, got %s", qty)
	}
	if avail := s.AvailableAt(itemID, date); avail.LessThan(qty) {
		return model.StockTransaction{}, &InsufficientStockError{ItemID: item.ID, Item: item.Name, Available: avail, Requested: qty}
	}
	cost := Cost(s.strategy.Layers(s.historyThrough(itemID, date)), qty, item.LastPurchaseRate).Round(2)
	t := model.StockTransaction{
		ID:       id.New(),
		Date:     date,
		Type:     model.Issue,
		ItemID:   item.ID,
		ItemName: item.Name,
		Quantity: qty,
		Rate:     cost.DivRound(qty, 4),
		Amount:   cost,
		RefDocID: refDocID,
	}
	s.txns = append(s.txns, t)
	return t, nil
}

// AddTransaction appends a recorded transaction as is, such as one restored
// from a backup. The item must exist.
func (s *Service) AddTransaction(t model.StockTransaction) error {
	if _, ok := s.Item(t.ItemID); !ok {
		return fmt.Errorf("stock transaction %s: %w: %s", t.ID, ErrItemNotFound, t.ItemID)
	}
	if t.Type != model.Receipt && t.Type != model.Issue {
		return fmt.Errorf("stock transaction %s: unknown type %q", t.ID, t.Type)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("stock transaction %s: quantity must be positive", t.ID)
	}
	s.txns = append(s.txns, t)
	return nil
}

// ItemValue returns an item's stock value: receipt amounts less issue costs.
func (s *Service) ItemValue(itemID string) decimal.Decimal {
	v := decimal.Zero
	for _, t := range s.txns {
		if t.ItemID != itemID {
			continue
		}
		if t.Type == model.Receipt {
			v = v.Add(t.Amount)
		} else {
			v = v.Sub(t.Amount)
		}
	}
	return v
}

// ClosingValue returns the value of all stock on hand.
func (s *Service) ClosingValue() decimal.Decimal {
	v := decimal.Zero
	for _, t := range s.txns {
		if t.Type == model.Receipt {
			v = v.Add(t.Amount)
		} else {
			v = v.Sub(t.Amount)
		}
	}
	return v
}

func (s *Service) indexOf(itemID string) int {
	return slices.IndexFunc(s.items, func(it model.InventoryItem) bool { return it.ID == itemID })
}
