package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNotesCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Saved notes kept with the books",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				notes := a.books.Notes()
				rows := make([][]string, 0, len(notes))
				for _, n := range notes {
					rows = append(rows, []string{n.ID, n.Date.String(), n.Title})
				}
				return a.show(notes, []string{"ID", "DATE", "TITLE"}, rows)
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <title> <content>",
		Short: "Save a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				n, err := a.books.AddNote(args[0], args[1])
				if err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "notes", action: "add_note", details: n.Title, reference: n.ID,
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Saved note %s\n", n.ID)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				if err := a.books.DeleteNote(args[0]); err != nil {
					return err
				}
				if err := a.save(cmd.Context(), change{
					command: "notes", action: "delete_note", details: args[0], reference: args[0],
				}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted note %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}
