package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved documents for a user, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("user", defaultUser(), "user whose documents to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")

	engine, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	entries, err := engine.History(cmd.Context(), user)
	if err != nil {
		return err
	}

	return render(cmd, entries, func(w io.Writer) error {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No documents found.")
			return nil
		}
		fmt.Fprintf(w, "%-5s  %-24s  %-20s  %-7s  %-5s  %s\n",
			"ID", "File", "Keyword", "Format", "Found", "Created")
		fmt.Fprintln(w, strings.Repeat("-", 90))
		for _, e := range entries {
			fmt.Fprintf(w, "%-5d  %-24s  %-20s  %-7s  %-5t  %s\n",
				e.ID, truncate(e.Filename, 24), truncate(e.Keyword, 20),
				e.CitationFormat, e.DefinitionFound, e.CreatedAt)
		}
		fmt.Fprintf(w, "\n%d documents\n", len(entries))
		return nil
	})
}
