package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/model"
	"github.com/cleared-dev/bookkeeper/internal/posting"
)

func newJournalCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Post and list journal entries",
	}
	cmd.AddCommand(
		newJournalPostCommand(root),
		newJournalListCommand(root),
		newJournalExportCommand(root),
		newJournalImportCommand(root),
	)
	return cmd
}

func newJournalPostCommand(root *rootOptions) *cobra.Command {
	var (
		dateStr    string
		narration  string
		debits     []string
		credits    []string
		autoCreate bool
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a journal entry",
		Long: `Post a journal entry from debit and credit lines.

Example:
  bookkeeper journal post --narration "Being rent paid" \
    --dr "Rent A/c=1500" --cr "Cash A/c=1500"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			var lines []posting.ManualLine
			for _, group := range []struct {
				side  model.Side
				pairs []string
			}{{model.Debit, debits}, {model.Credit, credits}} {
				for _, p := range group.pairs {
					name, value, err := splitPair(p)
					if err != nil {
						return err
					}
					amt, err := parseAmount(value)
					if err != nil {
						return err
					}
					lines = append(lines, posting.ManualLine{Side: group.side, Account: name, Amount: amt})
				}
			}

			return root.withBooks(cmd, func(a *app) error {
				entry, err := a.books.PostJournal(date, narration, lines, posting.JournalOptions{AutoCreate: autoCreate})
				if err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "journal", action: "post_journal",
					details: entry.Narration, reference: entry.ID,
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Posted %s %s\n", entry.ID, entry.Narration)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "entry date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&narration, "narration", "", "narration (required)")
	cmd.Flags().StringArrayVar(&debits, "dr", nil, "debit line ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "cr", nil, "credit line ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().BoolVar(&autoCreate, "auto-create", false, "open unknown account heads instead of rejecting the entry")
	_ = cmd.MarkFlagRequired("narration")
	return cmd
}

func newJournalListCommand(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				entries := a.books.Entries()
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}
				fmtr := a.amounts()
				var rows [][]string
				for _, e := range entries {
					for i, l := range e.Lines {
						date, id, narration := "", "", ""
						if i == 0 {
							date, id, narration = e.Date.String(), e.ID, e.Narration
						}
						dr, cr := "", ""
						if l.Type == model.Debit {
							dr = fmtr.Amount(l.Amount)
						} else {
							cr = fmtr.Amount(l.Amount)
						}
						rows = append(rows, []string{date, id, l.AccountName, dr, cr, narration})
					}
				}
				return a.show(entries, []string{"DATE", "ENTRY", "ACCOUNT", "DEBIT", "CREDIT", "NARRATION"}, rows)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many entries")
	return cmd
}

func newJournalExportCommand(root *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the journal as CSV, one row per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				if file == "" {
					return a.books.ExportJournalCSV(a.out)
				}
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				if err := a.books.ExportJournalCSV(f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of stdout")
	return cmd
}

func newJournalImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Post every entry of a journal CSV, or none",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return root.withBooks(cmd, func(a *app) error {
				n, err := a.books.ImportJournalCSV(f)
				if err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "journal", action: "import_journal",
					details: fmt.Sprintf("%d entries from %s", n, args[0]),
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Imported %d entries\n", n)
				return nil
			})
		},
	}
}
