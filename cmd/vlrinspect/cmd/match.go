package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/khemingkapat/vlrinspect/lib/scrapers/vlr"
	"github.com/spf13/cobra"
)

// column order for the per-player stat table
var overviewColumns = []string{"r2.0", "acs", "k", "d", "a", "kast", "adr", "hs%", "fk", "fd"}

func init() {
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <match-url>",
	Short: "Scrapes one completed match and prints its per-map player stats.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match := client.ScrapeMatch(cmd.Context(), args[0], nil)
		if match == nil {
			log.Fatal("match could not be assembled, see the log above")
		}

		fmt.Println(match)
		for _, game := range match.Games {
			fmt.Printf("%s (winner: %s)\n", game.MapName, game.Winner)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			header := table.Row{"Player", "Team", "Agent"}
			for _, col := range overviewColumns {
				header = append(header, vlr.StatName(col))
			}
			t.AppendHeader(header)
			for _, p := range game.Players {
				row := table.Row{p.Name, p.Team, p.Agent}
				for _, col := range overviewColumns {
					row = append(row, p.Stats[vlr.StatKey{Stat: col, Side: vlr.SideAll}].String())
				}
				t.AppendRow(row)
			}
			t.Render()
		}
	},
}
