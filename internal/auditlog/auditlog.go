// Package auditlog keeps a CSV trail of changes made to the books from the
// command line.
package auditlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// RelPath is the log's location inside a books directory.
var RelPath = filepath.Join("logs", "audit-log.csv")

var header = []string{"timestamp", "command", "action", "details", "reference", "commit_hash"}

// Entry is one recorded change.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	Reference  string    `json:"reference,omitempty"`
	CommitHash string    `json:"commitHash,omitempty"`
}

func (e Entry) record() []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Command,
		e.Action,
		e.Details,
		e.Reference,
		e.CommitHash,
	}
}

func parseRecord(rec []string) (Entry, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return Entry{}, fmt.Errorf("timestamp %q: %w", rec[0], err)
	}
	return Entry{
		Timestamp:  ts,
		Command:    rec[1],
		Action:     rec[2],
		Details:    rec[3],
		Reference:  rec[4],
		CommitHash: rec[5],
	}, nil
}

// Append adds entries to the audit log of booksDir, creating the file with
// its header on first use.
func Append(booksDir string, entries ...Entry) error {
	path := filepath.Join(booksDir, RelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		_ = w.Write(header)
	}
	for _, e := range entries {
		_ = w.Write(e.record())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	return nil
}

// Read returns the audit log of booksDir, oldest first. A missing log reads
// as empty.
func Read(booksDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(booksDir, RelPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses an audit log CSV, header included.
func Decode(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
}
