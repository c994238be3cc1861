package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/importer"
)

func newIngestCommand(root *rootOptions) *cobra.Command {
	var formatName, account string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Post vouchers from CSV files dropped in the import directory",
		Long: `Parse every CSV file in <dir>/import and post its vouchers. Each file is
posted as a whole or not at all; posted files move to import/processed.
The format is detected from the header row unless --format is given.

Formats:
  cashbook   date,type,account,particulars,cash,bank,discount,contra,direction,opening
  statement  bank statement export (Date, Narration, Ref No, Withdrawal, Deposit, Balance)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := importer.DefaultRegistry(account)
			var forced importer.Parser
			if formatName != "" {
				if forced = reg.Get(formatName); forced == nil {
					return fmt.Errorf("unknown format %q (have %v)", formatName, reg.Formats())
				}
			}

			return root.withBooks(cmd, func(a *app) error {
				inbox := importer.NewInbox(a.dir)
				files, err := inbox.Pending()
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(a.out, "No files to import")
					return nil
				}

				for _, f := range files {
					parser := forced
					if parser == nil {
						if parser, err = reg.Detect(f.Path); err != nil {
							return err
						}
					}
					vouchers, err := importer.ParseFile(parser, f.Path)
					if err != nil {
						return err
					}
					if dryRun {
						fmt.Fprintf(a.out, "%s: %d %s vouchers\n", f.Name, len(vouchers), parser.Format())
						continue
					}

					posted, err := a.books.PostCashVouchers(vouchers)
					if err != nil {
						return fmt.Errorf("%s: %w", f.Name, err)
					}
					if _, err := inbox.Done(f.Name); err != nil {
						return err
					}
					if err := a.save(cmd.Context(), change{
						command: "ingest", action: "import_vouchers",
						details: fmt.Sprintf("%d vouchers from %s", len(posted), f.Name), reference: f.Name,
					}); err != nil {
						return err
					}
					a.logger.Info("imported file", "file", f.Name, "format", parser.Format(), "vouchers", len(posted))
					fmt.Fprintf(a.out, "%s: posted %d vouchers\n", f.Name, len(posted))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&formatName, "format", "", "file format: cashbook or statement (default detect)")
	cmd.Flags().StringVar(&account, "account", "", "counter account for statement lines (default "+importer.DefaultSuspenseAccount+")")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse files without posting them")
	return cmd
}
