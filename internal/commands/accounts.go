package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/books"
	"github.com/cleared-dev/bookkeeper/internal/model"
)

func newAccountsCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(root),
		newAccountsCreateCommand(root),
		newAccountsUpdateCommand(root),
		newAccountsDeleteCommand(root),
		newAccountsExportCommand(root),
		newAccountsImportCommand(root),
	)
	return cmd
}

// resolveAccount finds an account by ID or, failing that, by name.
func resolveAccount(b *books.Books, ref string) (model.Account, error) {
	if a, ok := b.Account(ref); ok {
		return a, nil
	}
	if a, ok := b.AccountByName(ref); ok {
		return a, nil
	}
	return model.Account{}, fmt.Errorf("%w: %q", accounts.ErrNotFound, ref)
}

func newAccountsListCommand(root *rootOptions) *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				var filter model.AccountType
				if accountType != "" {
					t, err := model.ParseAccountType(accountType)
					if err != nil {
						return err
					}
					filter = t
				}

				fmtr := a.amounts()
				var list []model.Account
				var rows [][]string
				for _, acct := range a.books.Accounts() {
					if filter != "" && acct.Type != filter {
						continue
					}
					list = append(list, acct)
					rows = append(rows, []string{
						acct.ID, acct.Code, acct.Name, string(acct.Type),
						string(acct.Classification), fmtr.Balance(a.books.Balance(acct.ID)),
					})
				}
				return a.show(list, []string{"ID", "CODE", "NAME", "TYPE", "CLASSIFICATION", "BALANCE"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&accountType, "type", "", "only list accounts of this type")
	return cmd
}

func newAccountsCreateCommand(root *rootOptions) *cobra.Command {
	var accountType, classification, category, description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Open a new account head",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseAccountType(accountType)
			if err != nil {
				return err
			}
			c, err := model.ParseClassification(classification)
			if err != nil {
				return err
			}
			cat, err := model.ParseFinalCategory(category)
			if err != nil {
				return err
			}

			return root.withBooks(cmd, func(a *app) error {
				acct, err := a.books.CreateAccount(args[0], t, c, cat)
				if err != nil {
					return err
				}
				if description != "" {
					if acct, err = a.books.UpdateAccount(acct.ID, accounts.Patch{Description: &description}); err != nil {
						return err
					}
				}
				if err := a.save(cmd.Context(), change{
					command: "accounts", action: "create_account",
					details: fmt.Sprintf("%s (%s)", acct.Name, acct.Code), reference: acct.ID,
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Created %s (%s) %s\n", acct.Name, acct.Code, acct.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&accountType, "type", "", "ASSET, LIABILITY, EQUITY, REVENUE or EXPENSE (required)")
	cmd.Flags().StringVar(&classification, "classification", "", "classification, e.g. SUNDRY_DEBTOR (required)")
	cmd.Flags().StringVar(&category, "category", "", "DIRECT or INDIRECT for revenue and expense heads")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("classification")
	return cmd
}

func newAccountsUpdateCommand(root *rootOptions) *cobra.Command {
	var name, accountType, classification, category, description string

	cmd := &cobra.Command{
		Use:   "update <account>",
		Short: "Rename or reclassify an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p accounts.Patch
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = &name
			}
			if flags.Changed("type") {
				t, err := model.ParseAccountType(accountType)
				if err != nil {
					return err
				}
				p.Type = &t
			}
			if flags.Changed("classification") {
				c, err := model.ParseClassification(classification)
				if err != nil {
					return err
				}
				p.Classification = &c
			}
			if flags.Changed("category") {
				cat, err := model.ParseFinalCategory(category)
				if err != nil {
					return err
				}
				p.FinalAccountCategory = &cat
			}
			if flags.Changed("description") {
				p.Description = &description
			}

			return root.withBooks(cmd, func(a *app) error {
				acct, err := resolveAccount(a.books, args[0])
				if err != nil {
					return err
				}
				updated, err := a.books.UpdateAccount(acct.ID, p)
				if err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "accounts", action: "update_account",
					details: updated.Name, reference: updated.ID,
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Updated %s (%s)\n", updated.Name, updated.Code)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&accountType, "type", "", "new account type")
	cmd.Flags().StringVar(&classification, "classification", "", "new classification")
	cmd.Flags().StringVar(&category, "category", "", "new final account category")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func newAccountsDeleteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account that has no postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				acct, err := resolveAccount(a.books, args[0])
				if err != nil {
					return err
				}
				if err := a.books.DeleteAccount(acct.ID); err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "accounts", action: "delete_account",
					details: acct.Name, reference: acct.ID,
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %s\n", acct.Name)
				return nil
			})
		},
	}
}

func newAccountsExportCommand(root *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart of accounts as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				if file == "" {
					return a.books.ExportChartCSV(a.out)
				}
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				if err := a.books.ExportChartCSV(f); err != nil {
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

func newAccountsImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add the accounts of a chart-of-accounts CSV",
		Long: `Add every account of a CSV written by "accounts export". Accounts already
in the chart under the same ID and name are skipped. A blank code is
generated. If any row is rejected, no account is added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return root.withBooks(cmd, func(a *app) error {
				n, err := a.books.ImportChartCSV(f)
				if err != nil {
					return err
				}
				if n > 0 {
					if err := a.save(cmd.Context(), change{
						command: "accounts", action: "import_chart",
						details: fmt.Sprintf("%d accounts from %s", n, args[0]),
					}); err != nil {
						return err
					}
				}
				fmt.Fprintf(a.out, "Imported %d accounts\n", n)
				return nil
			})
		},
	}
}
