package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func newInvoiceCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice",
		Aliases: []string{"invoices"},
		Short:   "Purchase, sales and return documents",
	}
	cmd.AddCommand(
		newInvoicePostCommand(root),
		newInvoiceListCommand(root),
		newInvoiceRefsCommand(root),
	)
	return cmd
}

func newInvoicePostCommand(root *rootOptions) *cobra.Command {
	var (
		book          string
		party         string
		dateStr       string
		items         []string
		tradeDiscount string
		cashDiscount  string
		reference     string
		number        string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a purchase, sales or return document",
		Long: `Post a subsidiary book document. Items are DESCRIPTION:QTY:RATE[:UNIT].

Example:
  bookkeeper invoice post --book sales --party "Bharat Stores" \
    --item "Widget:15:12:pcs" --trade-discount 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bt, err := model.ParseBookType(book)
			if err != nil {
				return err
			}
			doc := model.SubsidiaryEntry{
				BookType:      bt,
				PartyName:     party,
				ReferenceID:   reference,
				InvoiceNumber: number,
			}
			if doc.Date, err = parseDate(dateStr); err != nil {
				return err
			}
			for _, s := range items {
				it, err := parseItem(s)
				if err != nil {
					return err
				}
				doc.Items = append(doc.Items, it)
			}
			if doc.TradeDiscountPercent, err = parseAmount(tradeDiscount); err != nil {
				return err
			}
			if doc.CashDiscountAmount, err = parseAmount(cashDiscount); err != nil {
				return err
			}

			return root.withBooks(cmd, func(a *app) error {
				posted, entry, err := a.books.PostInvoice(doc)
				if err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "invoice", action: "post_invoice",
					details:   fmt.Sprintf("%s %s %s", posted.InvoiceNumber, posted.PartyName, posted.TotalAmount.StringFixed(2)),
					reference: entry.ID,
				}); err != nil {
					return err
				}
				if a.output == outputJSON {
					return printJSON(a.out, map[string]any{"invoice": posted, "entry": entry})
				}
				fmt.Fprintf(a.out, "Posted %s %s %s total %s\n",
					posted.BookType, posted.InvoiceNumber, posted.PartyName, a.amounts().Amount(posted.TotalAmount))
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&book, "book", "", "PURCHASE, SALES, PURCHASE_RETURN or SALES_RETURN (required)")
	flags.StringVar(&party, "party", "", "supplier or customer name (required)")
	flags.StringVar(&dateStr, "date", "", "document date, YYYY-MM-DD (default today)")
	flags.StringArrayVar(&items, "item", nil, "line item DESCRIPTION:QTY:RATE[:UNIT] (repeatable)")
	flags.StringVar(&tradeDiscount, "trade-discount", "", "trade discount percent")
	flags.StringVar(&cashDiscount, "cash-discount", "", "cash discount amount")
	flags.StringVar(&reference, "ref", "", "original document number, for returns")
	flags.StringVar(&number, "number", "", "document number (generated when empty)")
	_ = cmd.MarkFlagRequired("book")
	_ = cmd.MarkFlagRequired("party")
	return cmd
}

func newInvoiceListCommand(root *rootOptions) *cobra.Command {
	var book string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posted documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter model.BookType
			if book != "" {
				bt, err := model.ParseBookType(book)
				if err != nil {
					return err
				}
				filter = bt
			}

			return root.withBooks(cmd, func(a *app) error {
				fmtr := a.amounts()
				var docs []model.SubsidiaryEntry
				var rows [][]string
				for _, d := range a.books.SubsidiaryEntries() {
					if filter != "" && d.BookType != filter {
						continue
					}
					docs = append(docs, d)
					rows = append(rows, []string{
						d.Date.String(), d.InvoiceNumber, string(d.BookType), d.PartyName, d.ReferenceID,
						fmtr.Amount(d.SubTotal), fmtr.Amount(d.DiscountAmount), fmtr.Amount(d.TotalAmount),
					})
				}
				return a.show(docs, []string{"DATE", "NUMBER", "BOOK", "PARTY", "REF", "SUBTOTAL", "DISCOUNT", "TOTAL"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&book, "book", "", "only list documents of this book")
	return cmd
}

func newInvoiceRefsCommand(root *rootOptions) *cobra.Command {
	var book string

	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List documents a return in the given book may reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bt, err := model.ParseBookType(book)
			if err != nil {
				return err
			}
			return root.withBooks(cmd, func(a *app) error {
				docs := a.books.ValidReferenceDocs(bt)
				fmtr := a.amounts()
				rows := make([][]string, 0, len(docs))
				for _, d := range docs {
					rows = append(rows, []string{d.InvoiceNumber, d.Date.String(), d.PartyName, fmtr.Amount(d.TotalAmount)})
				}
				return a.show(docs, []string{"NUMBER", "DATE", "PARTY", "TOTAL"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&book, "book", "", "SALES_RETURN or PURCHASE_RETURN (required)")
	_ = cmd.MarkFlagRequired("book")
	return cmd
}
