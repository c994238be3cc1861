package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/auditlog"
	"github.com/cleared-dev/bookkeeper/internal/books"
	"github.com/cleared-dev/bookkeeper/internal/buildinfo"
	"github.com/cleared-dev/bookkeeper/internal/config"
	"github.com/cleared-dev/bookkeeper/internal/format"
	"github.com/cleared-dev/bookkeeper/internal/gitops"
	"github.com/cleared-dev/bookkeeper/internal/store"
)

// Output formats selected with --output.
const (
	outputText     = "text"
	outputMarkdown = "markdown"
	outputJSON     = "json"
)

type rootOptions struct {
	dir       string
	logLevel  string
	logFormat string
	output    string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "bookkeeper",
		Short:   "Double-entry bookkeeping for small traders",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputText, outputMarkdown, outputJSON:
				return nil
			default:
				return fmt.Errorf("unknown output format %q", opts.output)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "C", ".", "books directory")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json (overrides config)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text, markdown or json")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAccountsCommand(opts),
		newJournalCommand(opts),
		newCashCommand(opts),
		newInvoiceCommand(opts),
		newDepreciateCommand(opts),
		newStockCommand(opts),
		newReportCommand(opts),
		newNotesCommand(opts),
		newSettingsCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newIngestCommand(opts),
		newResetCommand(opts),
		newHistoryCommand(opts),
		newSchemaCommand(),
		newLogCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}

// app is an open set of books for the duration of one command.
type app struct {
	dir    string
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	books  *books.Books
	out    io.Writer
	output string
}

// open loads the config and books of the selected directory. A store with
// no saved data yields fresh books carrying the configured settings.
func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()

	dir, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Storage.Driver, cfg.StoragePath(dir))
	if err != nil {
		return nil, err
	}

	b := books.New(logger)
	data, err := st.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoData):
		settings, err := cfg.Settings()
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := b.UpdateSettings(settings); err != nil {
			st.Close()
			return nil, err
		}
		logger.Debug("starting empty books", "dir", dir)
	case err != nil:
		st.Close()
		return nil, err
	default:
		if err := b.Import(data); err != nil {
			st.Close()
			return nil, err
		}
	}

	return &app{
		dir:    dir,
		cfg:    cfg,
		logger: logger,
		store:  st,
		books:  b,
		out:    cmd.OutOrStdout(),
		output: o.output,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// amounts returns the formatter for the books' negative-number setting.
func (a *app) amounts() format.Amounts {
	return format.New(a.books.Settings().NegativeFormat)
}

// change describes an accepted change for the audit log and commit message.
type change struct {
	command   string
	action    string
	details   string
	reference string
}

// save persists the books, commits the directory when auto-commit is on,
// and appends the change to the audit log.
func (a *app) save(ctx context.Context, c change) error {
	data, err := a.books.Export()
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, data); err != nil {
		return fmt.Errorf("saving books: %w", err)
	}

	var hash string
	if a.cfg.Git.AutoCommit && gitops.IsRepo(a.dir) {
		msg := fmt.Sprintf("%s: %s", c.command, c.details)
		hash, err = gitops.CommitAll(ctx, a.dir, msg, a.cfg.Git.AuthorName, a.cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("committing books: %w", err)
		}
	}

	a.logger.Debug("books saved", "action", c.action, "reference", c.reference, "commit", hash)

	return auditlog.Append(a.dir, auditlog.Entry{
		Timestamp:  time.Now(),
		Command:    c.command,
		Action:     c.action,
		Details:    c.details,
		Reference:  c.reference,
		CommitHash: hash,
	})
}

// withBooks opens the books, runs fn and closes the store.
func (o *rootOptions) withBooks(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
