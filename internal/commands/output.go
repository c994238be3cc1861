package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes tab-aligned rows under a header.
func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// renderMarkdown writes a markdown report, styled for the terminal unless
// raw markdown was requested.
func renderMarkdown(w io.Writer, md, output string) error {
	if output == outputMarkdown {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// show prints v as JSON when requested, otherwise as a table.
func (a *app) show(v any, header []string, rows [][]string) error {
	if a.output == outputJSON {
		return printJSON(a.out, v)
	}
	return printTable(a.out, header, rows)
}
