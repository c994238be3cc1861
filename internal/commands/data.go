package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/auditlog"
	"github.com/cleared-dev/bookkeeper/internal/books"
	"github.com/cleared-dev/bookkeeper/internal/model"
	"github.com/cleared-dev/bookkeeper/internal/store"
)

func newExportCommand(root *rootOptions) *cobra.Command {
	var file, selectPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole books document as JSON",
		Long: `Write the books document as JSON. --select applies a JSONPath
expression to the document first.

Example:
  bookkeeper export --select '$.accounts[*].name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				data, err := a.books.Export()
				if err != nil {
					return err
				}
				if selectPath != "" {
					if data, err = selectJSON(data, selectPath); err != nil {
						return err
					}
				}
				if file == "" {
					_, err = a.out.Write(append(data, '\n'))
					return err
				}
				return os.WriteFile(file, data, 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&selectPath, "select", "", "JSONPath expression selecting part of the document")
	return cmd
}

// selectJSON evaluates a JSONPath expression against a JSON document.
func selectJSON(data []byte, path string) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", path, err)
	}
	return json.MarshalIndent(v, "", "  ")
}

func newImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the books with an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return root.withBooks(cmd, func(a *app) error {
				if err := a.books.Import(data); err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "import", action: "import_document", details: args[0],
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Imported %d accounts and %d entries\n", len(a.books.Accounts()), len(a.books.Entries()))
				return nil
			})
		},
	}
}

func newResetCommand(root *rootOptions) *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all transactions",
		Long: `Clear journal entries, documents, vouchers and stock. Accounts, notes
and settings are kept unless --hard is given, which also restores the
default chart of accounts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				a.books.Reset(hard)
				action := "reset"
				if hard {
					action = "hard_reset"
				}
				if err := a.save(cmd.Context(), change{command: "reset", action: action, details: "books cleared"}); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Books cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "also restore the default chart and drop notes")
	return cmd
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the books document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), documentSchema())
		},
	}
}

// documentSchema describes books.Document, with amounts as numbers and
// dates as YYYY-MM-DD strings.
func documentSchema() *jsonschema.Schema {
	decimalType := reflect.TypeOf(decimal.Decimal{})
	dateType := reflect.TypeOf(model.Date{})
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case decimalType:
				return &jsonschema.Schema{Type: "number"}
			case dateType:
				return &jsonschema.Schema{Type: "string", Format: "date"}
			}
			return nil
		},
	}
	s := r.Reflect(&books.Document{})
	s.Title = "Books document"
	return s
}

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var prune int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved snapshots (sqlite storage only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				db, err := a.snapshots()
				if err != nil {
					return err
				}
				if prune > 0 {
					n, err := db.Prune(cmd.Context(), prune)
					if err != nil {
						return err
					}
					a.logger.Info("pruned snapshots", "removed", n, "kept", prune)
				}
				snaps, err := db.History(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(snaps))
				for _, s := range snaps {
					rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.SavedAt.Local().Format("2006-01-02 15:04:05"), strconv.Itoa(s.Size)})
				}
				return a.show(snaps, []string{"ID", "SAVED", "BYTES"}, rows)
			})
		},
	}
	cmd.Flags().IntVar(&prune, "prune", 0, "keep only the newest N snapshots")

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <id>",
		Short: "Restore the books from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q", args[0])
			}
			return root.withBooks(cmd, func(a *app) error {
				db, err := a.snapshots()
				if err != nil {
					return err
				}
				data, err := db.LoadVersion(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := a.books.Import(data); err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "history", action: "restore_snapshot",
					details: "restored snapshot " + args[0], reference: args[0],
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Restored snapshot %d\n", id)
				return nil
			})
		},
	})
	return cmd
}

func (a *app) snapshots() (*store.SQLite, error) {
	db, ok := a.store.(*store.SQLite)
	if !ok {
		return nil, fmt.Errorf("snapshot history needs the %s storage driver", store.DriverSQLite)
	}
	return db, nil
}

func newLogCommand(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the audit log of changes made from the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				entries, err := auditlog.Read(a.dir)
				if err != nil {
					return err
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Command, e.Action, e.Details, e.Reference, e.CommitHash,
					})
				}
				return a.show(entries, []string{"TIME", "COMMAND", "ACTION", "DETAILS", "REFERENCE", "COMMIT"}, rows)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last N changes")
	return cmd
}
