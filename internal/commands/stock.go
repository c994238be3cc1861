package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/books"
	"github.com/cleared-dev/bookkeeper/internal/format"
	"github.com/cleared-dev/bookkeeper/internal/inventory"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

func newStockCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inventory on hand and stock registers",
	}
	cmd.AddCommand(
		newStockListCommand(root),
		newStockRegisterCommand(root),
	)
	return cmd
}

// resolveItem finds an inventory item by ID or case-insensitive name.
func resolveItem(b *books.Books, ref string) (model.InventoryItem, error) {
	items := b.InventoryItems()
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, strings.TrimSpace(ref)) {
			return it, nil
		}
	}
	return model.InventoryItem{}, fmt.Errorf("%w: %q", inventory.ErrItemNotFound, ref)
}

func newStockListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show quantity and value on hand per item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				summaries := a.books.StockSummaries()
				fmtr := a.amounts()
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						s.Item.Name, s.Item.Unit, format.Quantity(s.Quantity),
						fmtr.Amount(s.Value), fmtr.Amount(s.Item.LastPurchaseRate),
					})
				}
				if a.output != outputJSON {
					fmt.Fprintf(a.out, "Valuation: %s\n", a.books.Settings().InventoryMethod)
				}
				return a.show(summaries, []string{"ITEM", "UNIT", "QTY", "VALUE", "LAST RATE"}, rows)
			})
		},
	}
}

func newStockRegisterCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register <item>",
		Short: "Show an item's receipts and issues with running balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				item, err := resolveItem(a.books, args[0])
				if err != nil {
					return err
				}
				reg, err := a.books.StockRegister(item.ID)
				if err != nil {
					return err
				}
				fmtr := a.amounts()
				rows := make([][]string, 0, len(reg))
				for _, r := range reg {
					t := r.Transaction
					rows = append(rows, []string{
						t.Date.String(), string(t.Type), t.RefDocID,
						format.Quantity(t.Quantity), fmtr.Amount(t.Rate), fmtr.Amount(t.Amount),
						format.Quantity(r.BalanceQty), fmtr.Amount(r.BalanceValue),
					})
				}
				return a.show(reg, []string{"DATE", "TYPE", "REF", "QTY", "RATE", "AMOUNT", "BAL QTY", "BAL VALUE"}, rows)
			})
		},
	}
}
