package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/model"
	"github.com/cleared-dev/bookkeeper/internal/reports"
)

func newReportCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Ledgers, trial balance and final accounts",
	}

	type report struct {
		use, short string
		build      func(a *app, md reports.Markdown) (any, string)
	}
	simple := []report{
		{"trial", "Trial balance", func(a *app, md reports.Markdown) (any, string) {
			tb := a.books.TrialBalance()
			return tb, md.TrialBalance(tb)
		}},
		{"trading", "Trading account", func(a *app, md reports.Markdown) (any, string) {
			fa := a.books.FinalAccounts()
			return fa.Trading, md.Trading(fa.Trading)
		}},
		{"pl", "Profit and loss account", func(a *app, md reports.Markdown) (any, string) {
			fa := a.books.FinalAccounts()
			return fa.ProfitLoss, md.ProfitLoss(fa.ProfitLoss)
		}},
		{"bs", "Balance sheet", func(a *app, md reports.Markdown) (any, string) {
			fa := a.books.FinalAccounts()
			return fa.BalanceSheet, md.BalanceSheet(fa.BalanceSheet)
		}},
		{"final", "Trading, profit and loss, and balance sheet", func(a *app, md reports.Markdown) (any, string) {
			fa := a.books.FinalAccounts()
			doc := strings.Join([]string{
				md.Trading(fa.Trading), md.ProfitLoss(fa.ProfitLoss), md.BalanceSheet(fa.BalanceSheet),
			}, "\n")
			return fa, doc
		}},
		{"fiscal", "One-pass fiscal analysis", func(a *app, md reports.Markdown) (any, string) {
			fa := a.books.FiscalAnalysis()
			return fa, md.Fiscal(fa)
		}},
	}

	for _, r := range simple {
		cmd.AddCommand(&cobra.Command{
			Use:   r.use,
			Short: r.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.withBooks(cmd, func(a *app) error {
					v, doc := r.build(a, a.markdown())
					return a.report(v, doc)
				})
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ledger <account>",
		Short: "An account's ledger with running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				acct, err := resolveAccount(a.books, args[0])
				if err != nil {
					return err
				}
				l, err := a.books.Ledger(acct.ID)
				if err != nil {
					return err
				}
				return a.report(l, a.markdown().Ledger(l))
			})
		},
	})

	return cmd
}

// markdown returns a renderer captioned with the business name and the
// financial year of the latest entry.
func (a *app) markdown() reports.Markdown {
	settings := a.books.Settings()
	asOf := model.Today()
	if entries := a.books.Entries(); len(entries) > 0 {
		asOf = entries[0].Date
		for _, e := range entries[1:] {
			if asOf.Before(e.Date) {
				asOf = e.Date
			}
		}
	}

	var parts []string
	if a.cfg.Business.Name != "" {
		parts = append(parts, a.cfg.Business.Name)
	}
	parts = append(parts, settings.FinancialYear.Label(asOf))

	return reports.Markdown{
		Amounts:  a.amounts(),
		Subtitle: strings.Join(parts, ", "),
	}
}

func (a *app) report(v any, md string) error {
	if a.output == outputJSON {
		return printJSON(a.out, v)
	}
	return renderMarkdown(a.out, md, a.output)
}
