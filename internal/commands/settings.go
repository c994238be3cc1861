package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

func newSettingsCommand(root *rootOptions) *cobra.Command {
	var inventoryMethod, negativeFormat, financialYear string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change book settings",
		Long: `Show the book settings, or change them with flags.

Changing the inventory method revalues closing stock in every report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				s := a.books.Settings()
				flags := cmd.Flags()
				changed := flags.Changed("inventory-method") || flags.Changed("negative-format") || flags.Changed("financial-year")

				if changed {
					var err error
					if flags.Changed("inventory-method") {
						if s.InventoryMethod, err = model.ParseValuationMethod(inventoryMethod); err != nil {
							return err
						}
					}
					if flags.Changed("negative-format") {
						if s.NegativeFormat, err = model.ParseNegativeFormat(negativeFormat); err != nil {
							return err
						}
					}
					if flags.Changed("financial-year") {
						if s.FinancialYear, err = model.ParseFinancialYear(financialYear); err != nil {
							return err
						}
					}
					if err := a.books.UpdateSettings(s); err != nil {
						return err
					}
					s = a.books.Settings()
					if err := a.save(cmd.Context(), change{
						command: "settings", action: "update_settings",
						details: fmt.Sprintf("%s %s %s", s.InventoryMethod, s.NegativeFormat, s.FinancialYear),
					}); err != nil {
						return err
					}
				}

				if a.output == outputJSON {
					return printJSON(a.out, s)
				}
				fmt.Fprintf(a.out, "Inventory method: %s\nNegative format:  %s\nFinancial year:   %s\n",
					s.InventoryMethod, s.NegativeFormat, s.FinancialYear)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&inventoryMethod, "inventory-method", "", "FIFO, LIFO or WEIGHTED_AVERAGE")
	cmd.Flags().StringVar(&negativeFormat, "negative-format", "", "MINUS or BRACKETS")
	cmd.Flags().StringVar(&financialYear, "financial-year", "", "INDIAN or CALENDAR")
	return cmd
}
