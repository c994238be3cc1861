package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/books"
	"github.com/cleared-dev/bookkeeper/internal/config"
	"github.com/cleared-dev/bookkeeper/internal/gitops"
	"github.com/cleared-dev/bookkeeper/internal/store"
)

type initOptions struct {
	name            string
	storage         string
	git             bool
	inventoryMethod string
	financialYear   string
	negativeFormat  string
}

func newInitCommand(root *rootOptions) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new books directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := root.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.storage, "storage", store.DriverFile, "storage driver: file or sqlite")
	cmd.Flags().BoolVar(&opts.git, "git", false, "keep the directory under git and commit every change")
	cmd.Flags().StringVar(&opts.inventoryMethod, "inventory-method", "FIFO", "FIFO, LIFO or WEIGHTED_AVERAGE")
	cmd.Flags().StringVar(&opts.financialYear, "financial-year", "INDIAN", "INDIAN (April-March) or CALENDAR")
	cmd.Flags().StringVar(&opts.negativeFormat, "negative-format", "MINUS", "MINUS or BRACKETS")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	ctx := cmd.Context()

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	dirs := []string{
		"logs",
		"exports",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(opts.name)
	cfg.Books.InventoryMethod = opts.inventoryMethod
	cfg.Books.FinancialYear = opts.financialYear
	cfg.Books.NegativeFormat = opts.negativeFormat
	cfg.Storage.Driver = opts.storage
	cfg.Storage.Path = ""
	cfg.Git.AutoCommit = opts.git

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	// Store the canonical spellings.
	cfg.Books.InventoryMethod = string(settings.InventoryMethod)
	cfg.Books.FinancialYear = string(settings.FinancialYear)
	cfg.Books.NegativeFormat = string(settings.NegativeFormat)

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	b := books.New(nil)
	if err := b.UpdateSettings(settings); err != nil {
		return err
	}
	data, err := b.Export()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.Storage.Driver, cfg.StoragePath(dir))
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(ctx, data); err != nil {
		return fmt.Errorf("writing books: %w", err)
	}

	gitignore := ".env\nexports/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	out := cmd.OutOrStdout()
	if !opts.git {
		fmt.Fprintf(out, "Initialized books for %s at %s\n", opts.name, dir)
		return nil
	}

	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Open books for "+opts.name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized books for %s at %s (%s)\n", opts.name, dir, hash)
	return nil
}
