package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints row counts for the local store.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			fatal(err)
		}

		db, err := config.Database.OpenDB()
		if err != nil {
			fatal(err)
		}
		defer db.Close()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Table", "Rows"})

		for _, tbl := range []string{"organizations", "animals"} {
			var count int
			err := db.QueryRowContext(
				cmd.Context(),
				fmt.Sprintf("SELECT COUNT(*) FROM %s", tbl),
			).Scan(&count)
			if err != nil {
				// tables only exist after the first import
				t.AppendRow(table.Row{tbl, "-"})
				continue
			}
			t.AppendRow(table.Row{tbl, count})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
