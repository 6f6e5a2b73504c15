package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/khemingkapat/vlrinspect/lib/history"
	"github.com/spf13/cobra"
)

var historyDepth int

func init() {
	historyCmd.Flags().IntVar(&historyDepth, "depth", 0, "historical matches per team (0 uses the configured default)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <match-url>",
	Short: "Scrapes and summarizes the match history of both teams of an upcoming match.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		depth := historyDepth
		if depth == 0 {
			depth = config.HistoryDepth
		}

		histA, histB, err := history.BuildTeamHistory(cmd.Context(), client, args[0], depth)
		if err != nil {
			log.Fatal(err)
		}

		for _, hist := range []*history.History{histA, histB} {
			fmt.Printf("%s (%s)\n", hist.FullName, hist.ShortName)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Match", "Event", "Stage", "Date", "Opponent", "Score", "Result"})
			for _, row := range hist.MatchesTable() {
				t.AppendRow(table.Row{
					row.MatchID,
					row.EventName,
					row.StageName,
					row.Date.Format("2006-01-02"),
					row.Opponent,
					fmt.Sprintf("%d:%d", row.TeamScore, row.OppScore),
					row.Result,
				})
			}
			t.Render()

			t = table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Match", "Game", "Map", "Winner"})
			for _, row := range hist.GamesTable() {
				t.AppendRow(table.Row{row.MatchID, row.GameID, row.MapName, row.Winner})
			}
			t.Render()
		}
	},
}
