// Package importer reads cash-book vouchers from CSV files dropped into the
// books directory's import/ folder.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// Parser converts a CSV file into unposted cash-book vouchers.
type Parser interface {
	Format() string
	// Matches reports whether a header row belongs to this format.
	Matches(header []string) bool
	Parse(r io.Reader) ([]model.CashBookEntry, error)
}

// ErrUnknownFormat is returned when no parser recognises a file.
var ErrUnknownFormat = errors.New("unrecognised CSV format")

// Registry holds parsers by format name.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// DefaultRegistry returns a registry with the cash-book and bank-statement
// parsers. Statement lines post against account, or the suspense account
// when empty.
func DefaultRegistry(account string) *Registry {
	r := NewRegistry()
	r.Register(&CashBookParser{})
	r.Register(&StatementParser{Account: account})
	return r
}

// Register adds a parser. Registering a format twice panics.
func (r *Registry) Register(p Parser) {
	name := strings.ToLower(p.Format())
	if _, dup := r.parsers[name]; dup {
		panic("importer: format registered twice: " + name)
	}
	r.parsers[name] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(strings.TrimSpace(format))]
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Detect picks the parser whose header matches the first row of the file
// at path.
func (r *Registry) Detect(path string) (Parser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", filepath.Base(path), err)
	}
	for _, name := range r.Formats() {
		if p := r.parsers[name]; p.Matches(header) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnknownFormat)
}

// ParseFile opens and parses one file.
func ParseFile(p Parser, path string) ([]model.CashBookEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	vouchers, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return vouchers, nil
}

// File is a CSV waiting in the inbox.
type File struct {
	Name string
	Path string
	Size int64
}

// Inbox is the import/ folder of a books directory. Posted files move to
// import/processed/.
type Inbox struct {
	dir string
}

// NewInbox returns the inbox of booksDir.
func NewInbox(booksDir string) Inbox {
	return Inbox{dir: filepath.Join(booksDir, "import")}
}

// Dir returns the inbox folder.
func (in Inbox) Dir() string { return in.dir }

func (in Inbox) processed() string { return filepath.Join(in.dir, "processed") }

// Pending lists the CSV files waiting in the inbox, by name. A missing
// inbox has nothing pending.
func (in Inbox) Pending() ([]File, error) {
	entries, err := os.ReadDir(in.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, File{Name: e.Name(), Path: filepath.Join(in.dir, e.Name()), Size: info.Size()})
	}
	return files, nil
}

// Done moves a posted file to processed/. A file of the same name already
// there is kept; the new one gets a timestamp suffix.
func (in Inbox) Done(name string) (string, error) {
	if err := os.MkdirAll(in.processed(), 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(in.processed(), name)
	if _, err := os.Stat(dst); err == nil {
		ext := filepath.Ext(name)
		stamp := time.Now().UTC().Format("20060102T150405")
		dst = filepath.Join(in.processed(), strings.TrimSuffix(name, ext)+"-"+stamp+ext)
	}
	if err := os.Rename(filepath.Join(in.dir, name), dst); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return dst, nil
}

// normalizeHeader lower-cases and trims header cells for matching.
func normalizeHeader(h []string) []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))
	}
	return out
}
