package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"netcheck/pkg/catalog"
	"netcheck/pkg/form"
)

var tasksSearch string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Print the checklist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		printChecklist(cmd.OutOrStdout(), form.New(), tasksSearch)
		return nil
	},
}

func init() {
	tasksCmd.Flags().StringVarP(&tasksSearch, "search", "s", "", "only systems containing this text")
}

func printChecklist(w io.Writer, snap *form.Store, search string) {
	fmt.Fprintln(w, strings.Join(catalog.Header(), "\n"))
	fmt.Fprintln(w)
	for task := range snap.Filter(search) {
		fmt.Fprintf(w, "%s. %s\n", task.ID, task.System)
		for _, svc := range task.Services {
			fmt.Fprintf(w, "   - %s  [State: %s]", svc.Name, svc.State.Label())
			if svc.Comment != "" {
				fmt.Fprintf(w, "  %q", svc.Comment)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, catalog.Note)
}
