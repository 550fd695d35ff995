package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"netcheck/pkg/localdb"
	"netcheck/pkg/screen"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print every saved row as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, err := localdb.Open(ctx, cfg.DBPath, localdb.WithLogger(logger.Named("localdb")))
		if db != nil {
			defer db.Close()
		}
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), screen.AlertFor(err))
			return err
		}

		rows, alert, err := screen.NewFormScreen(db).FetchAll(ctx)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), alert)
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	},
}
