package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/posting"
)

func newDepreciateCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depreciate",
		Short: "Charge depreciation on tangible assets",
	}
	cmd.AddCommand(
		newDepreciateAssetsCommand(root),
		newDepreciatePostCommand(root),
	)
	return cmd
}

func newDepreciateAssetsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List assets eligible for depreciation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				assets := a.books.EligibleDepreciationAssets()
				fmtr := a.amounts()
				rows := make([][]string, 0, len(assets))
				for _, as := range assets {
					rows = append(rows, []string{
						as.Account.ID, as.Account.Name, fmtr.Amount(as.Cost),
						fmtr.Amount(as.AccumulatedDepreciation), fmtr.Amount(as.CurrentBalance),
					})
				}
				return a.show(assets, []string{"ID", "ASSET", "COST", "DEPRECIATED", "BOOK VALUE"}, rows)
			})
		},
	}
}

func newDepreciatePostCommand(root *rootOptions) *cobra.Command {
	var (
		asset   string
		method  string
		rate    string
		dateStr string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Compute and post one year's depreciation for an asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := posting.ParseDepreciationMethod(method)
			if err != nil {
				return err
			}
			pct, err := parseAmount(rate)
			if err != nil {
				return err
			}
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}

			return root.withBooks(cmd, func(a *app) error {
				acct, err := resolveAccount(a.books, asset)
				if err != nil {
					return err
				}
				charge, err := a.books.DepreciationCharge(acct.ID, m, pct, date)
				if err != nil {
					return err
				}
				if dryRun {
					if a.output == outputJSON {
						return printJSON(a.out, charge)
					}
					fmt.Fprintf(a.out, "%s\nAmount: %s (not posted)\n", charge.Narration, a.amounts().Amount(charge.Amount))
					return nil
				}

				entry, err := a.books.PostDepreciation(charge)
				if err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "depreciate", action: "post_depreciation",
					details: charge.Narration, reference: entry.ID,
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Posted %s %s\nAmount: %s\n", entry.ID, charge.Narration, a.amounts().Amount(charge.Amount))
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&asset, "asset", "", "asset account name or ID (required)")
	flags.StringVar(&method, "method", string(posting.WrittenDown), "SLM or WDV")
	flags.StringVar(&rate, "rate", "", "annual rate in percent (required)")
	flags.StringVar(&dateStr, "date", "", "posting date, YYYY-MM-DD (default today)")
	flags.BoolVar(&dryRun, "dry-run", false, "show the charge without posting it")
	_ = cmd.MarkFlagRequired("asset")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
