package cmd

import (
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(upcomingCmd)
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Lists upcoming matches from the front page.",
	Run: func(cmd *cobra.Command, args []string) {
		upcoming, err := client.UpcomingMatches(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Team A", "Team B", "Link"})
		for _, m := range upcoming {
			t.AppendRow(table.Row{m.TeamA, m.TeamB, m.Link})
		}
		t.Render()
	},
}
