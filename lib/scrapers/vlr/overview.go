package vlr

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/khemingkapat/vlrinspect/lib/htmlutil"
)

const rosterSize = 5

// sideForClass maps the span class markers of a stat cell to a side.
func sideForClass(span *goquery.Selection) (Side, bool) {
	switch {
	case htmlutil.HasClass(span, "mod-both"):
		return SideAll, true
	case htmlutil.HasClass(span, "mod-t"):
		return SideAtk, true
	case htmlutil.HasClass(span, "mod-ct"):
		return SideDef, true
	}
	return "", false
}

// extractOverview parses one team's per-player stat table for one map.
// The header row names the stat columns (the two leading player/agent
// label columns are skipped); each body row carries one player with
// every stat split three ways by side markers on nested spans. A table
// without exactly one full roster of rows yields nil and marks the
// extraction invalid.
func extractOverview(table *goquery.Selection, mapName string, gameID int) []PlayerGameRow {
	var headers []string
	table.Find("thead tr th").Each(func(i int, th *goquery.Selection) {
		if i < 2 {
			return
		}
		// stat keys are lowercase regardless of page styling
		headers = append(headers, strings.ToLower(htmlutil.CleanText(th.Text())))
	})

	var players []PlayerGameRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		row := PlayerGameRow{
			GameID:  gameID,
			MapName: mapName,
			Name:    htmlutil.CleanText(tr.Find("div.text-of").First().Text()),
			Team:    htmlutil.CleanText(tr.Find("div.ge-text-light").First().Text()),
			Agent:   tr.Find("img").First().AttrOr("alt", ""),
			Stats:   map[StatKey]Value{},
		}

		tr.Find("td:not(.mod-player):not(.mod-agents)").Each(func(i int, td *goquery.Selection) {
			if i >= len(headers) {
				return
			}
			td.Find("span").Each(func(_ int, span *goquery.Selection) {
				side, ok := sideForClass(span)
				if !ok {
					return
				}
				key := StatKey{Stat: headers[i], Side: side}
				row.Stats[key] = ParseValue(htmlutil.CleanText(span.Text()))
			})
		})

		players = append(players, row)
	})

	if len(players) != rosterSize {
		return nil
	}

	return players
}
