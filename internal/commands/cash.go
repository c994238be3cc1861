package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func newCashCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cash",
		Short: "Three-column cash book",
	}
	cmd.AddCommand(
		newCashPostCommand(root),
		newCashListCommand(root),
		newCashBalanceCommand(root),
	)
	return cmd
}

type voucherFlags struct {
	date        string
	voucherType string
	account     string
	particulars string
	cash        string
	bank        string
	discount    string
	contra      string
	opening     bool
}

func (f voucherFlags) voucher() (model.CashBookEntry, error) {
	var v model.CashBookEntry
	var err error
	if v.Date, err = parseDate(f.date); err != nil {
		return v, err
	}

	switch {
	case f.contra != "":
		v.IsContra = true
		if v.ContraDirection, err = model.ParseContraDirection(f.contra); err != nil {
			return v, err
		}
	case f.opening:
		v.IsOpeningBalance = true
	}

	t := f.voucherType
	if t == "" && (v.IsContra || v.IsOpeningBalance) {
		t = string(model.VoucherReceipt)
	}
	if v.Type, err = model.ParseVoucherType(t); err != nil {
		return v, err
	}

	v.AccountName = f.account
	v.Particulars = f.particulars
	if v.CashAmount, err = parseAmount(f.cash); err != nil {
		return v, err
	}
	if v.BankAmount, err = parseAmount(f.bank); err != nil {
		return v, err
	}
	if v.DiscountAmount, err = parseAmount(f.discount); err != nil {
		return v, err
	}
	return v, nil
}

func newCashPostCommand(root *rootOptions) *cobra.Command {
	var f voucherFlags

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a receipt, payment, contra or opening balance voucher",
		Long: `Post a cash book voucher.

Examples:
  bookkeeper cash post --opening --cash 10000 --bank 50000
  bookkeeper cash post --type payment --account "Rent A/c" --cash 1500
  bookkeeper cash post --type receipt --account "Bharat Stores" --bank 2450 --discount 50
  bookkeeper cash post --contra CASH_TO_BANK --cash 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := f.voucher()
			if err != nil {
				return err
			}

			return root.withBooks(cmd, func(a *app) error {
				posted, entry, err := a.books.PostCashVoucher(v)
				if err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "cash", action: "post_voucher",
					details: entry.Narration, reference: entry.ID,
				}); err != nil {
					return err
				}
				fmtr := a.amounts()
				fmt.Fprintf(a.out, "Posted %s %s cash %s bank %s\n",
					entry.ID, posted.AccountName, fmtr.Amount(posted.CashAmount), fmtr.Amount(posted.BankAmount))
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.date, "date", "", "voucher date, YYYY-MM-DD (default today)")
	flags.StringVar(&f.voucherType, "type", "", "RECEIPT or PAYMENT")
	flags.StringVar(&f.account, "account", "", "counter account name")
	flags.StringVar(&f.particulars, "particulars", "", "particulars")
	flags.StringVar(&f.cash, "cash", "", "cash column amount")
	flags.StringVar(&f.bank, "bank", "", "bank column amount")
	flags.StringVar(&f.discount, "discount", "", "cash discount allowed or received")
	flags.StringVar(&f.contra, "contra", "", "contra direction: CASH_TO_BANK or BANK_TO_CASH")
	flags.BoolVar(&f.opening, "opening", false, "record the opening balance against Capital")
	cmd.MarkFlagsMutuallyExclusive("contra", "opening")
	return cmd
}

func newCashListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cash book vouchers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				vouchers := a.books.CashBookEntries()
				fmtr := a.amounts()
				rows := make([][]string, 0, len(vouchers))
				for _, v := range vouchers {
					kind := string(v.Type)
					switch {
					case v.IsOpeningBalance:
						kind = "OPENING"
					case v.IsContra:
						kind = "CONTRA " + string(v.ContraDirection)
					}
					rows = append(rows, []string{
						v.Date.String(), kind, v.AccountName, v.Particulars,
						fmtr.Amount(v.CashAmount), fmtr.Amount(v.BankAmount), fmtr.Amount(v.DiscountAmount),
					})
				}
				return a.show(vouchers, []string{"DATE", "TYPE", "ACCOUNT", "PARTICULARS", "CASH", "BANK", "DISCOUNT"}, rows)
			})
		},
	}
}

func newCashBalanceCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the cash book's cash and bank columns carried down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				bal := a.books.CashBookBalance()
				if a.output == outputJSON {
					return printJSON(a.out, bal)
				}
				fmtr := a.amounts()
				fmt.Fprintf(a.out, "Cash: %s\nBank: %s\n", fmtr.Balance(bal.Cash), fmtr.Balance(bal.Bank))
				return nil
			})
		},
	}
}
