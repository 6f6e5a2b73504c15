package vlr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// fixture builders emitting the markup shapes the extractors consume

type fixtureRound struct {
	num       int
	winSlot   int    // 0 = top team's square, 1 = bottom team's
	sideClass string // mod-t or mod-ct on the winning square
	reason    string
	score     string
}

func roundsRowHTML(teams [2]string, rounds []fixtureRound) string {
	var b strings.Builder
	b.WriteString(`<div class="vlr-rounds-row">`)
	fmt.Fprintf(&b,
		`<div class="vlr-rounds-row-col"><div class="team">%s</div><div class="team">%s</div></div>`,
		teams[0], teams[1])
	for _, r := range rounds {
		fmt.Fprintf(&b, `<div class="vlr-rounds-row-col" title="%s">`, r.score)
		fmt.Fprintf(&b, `<div class="rnd-num">%d</div>`, r.num)
		for slot := 0; slot < 2; slot++ {
			if slot == r.winSlot {
				fmt.Fprintf(&b,
					`<div class="rnd-sq mod-win %s"><img src="/img/vlr/game/round/%s.webp"></div>`,
					r.sideClass, r.reason)
			} else {
				b.WriteString(`<div class="rnd-sq"></div>`)
			}
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`<div class="vlr-rounds-row-col mod-spacing"></div>`)
	b.WriteString(`</div>`)
	return b.String()
}

type fixtureEcon struct {
	winSlot   int
	sideClass string
	topBuy    string // run of $ glyphs, empty = full eco
	botBuy    string
}

func econRowHTML(rounds []fixtureEcon) string {
	var b strings.Builder
	b.WriteString(`<div class="vlr-rounds-row">`)
	for _, r := range rounds {
		b.WriteString(`<div class="vlr-rounds-row-col" title="econ">`)
		for slot := 0; slot < 2; slot++ {
			class := "rnd-sq"
			if slot == r.winSlot {
				class = fmt.Sprintf("rnd-sq mod-win %s", r.sideClass)
			}
			buy := r.topBuy
			if slot == 1 {
				buy = r.botBuy
			}
			fmt.Fprintf(&b, `<div class="%s">%s</div>`, class, buy)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`<div class="vlr-rounds-row-col mod-spacing"></div>`)
	b.WriteString(`</div>`)
	return b.String()
}

type fixturePlayer struct {
	name  string
	agent string
	// header -> {all, atk, def} display strings
	stats map[string][3]string
}

func overviewTableHTML(team string, headers []string, players []fixturePlayer) string {
	var b strings.Builder
	b.WriteString(`<table class="wf-table-inset mod-overview"><thead><tr><th></th><th></th>`)
	for _, h := range headers {
		fmt.Fprintf(&b, `<th>%s</th>`, h)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, p := range players {
		b.WriteString(`<tr>`)
		fmt.Fprintf(&b,
			`<td class="mod-player"><div class="text-of">%s</div><div class="ge-text-light">%s</div></td>`,
			p.name, team)
		fmt.Fprintf(&b, `<td class="mod-agents"><img alt="%s"></td>`, p.agent)
		for _, h := range headers {
			vals := p.stats[h]
			fmt.Fprintf(&b,
				`<td><span class="mod-both">%s</span><span class="mod-t">%s</span><span class="mod-ct">%s</span></td>`,
				vals[0], vals[1], vals[2])
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func mapBlockHTML(gameID int, mapName string, active bool, inner ...string) string {
	class := "vm-stats-game"
	if active {
		class += " mod-active"
	}
	return fmt.Sprintf(
		`<div class="%s" data-game-id="%d"><div class="map"><span>%s</span></div>%s</div>`,
		class, gameID, mapName, strings.Join(inner, ""),
	)
}

// halfAndHalfRounds is a 13:3 regulation map: the top team attacks the
// first half, wins 11 of 12, then closes 13:3 on defense.
func halfAndHalfRounds() []fixtureRound {
	rounds := []fixtureRound{
		{num: 1, winSlot: 0, sideClass: "mod-t", reason: "elim", score: "1-0"},
		{num: 2, winSlot: 1, sideClass: "mod-ct", reason: "defuse", score: "1-1"},
	}
	for n := 3; n <= 12; n++ {
		rounds = append(rounds, fixtureRound{
			num: n, winSlot: 0, sideClass: "mod-t", reason: "elim",
			score: fmt.Sprintf("%d-1", n-1),
		})
	}
	rounds = append(rounds,
		fixtureRound{num: 13, winSlot: 1, sideClass: "mod-t", reason: "elim", score: "11-2"},
		fixtureRound{num: 14, winSlot: 1, sideClass: "mod-t", reason: "boom", score: "11-3"},
		fixtureRound{num: 15, winSlot: 0, sideClass: "mod-ct", reason: "elim", score: "12-3"},
		fixtureRound{num: 16, winSlot: 0, sideClass: "mod-ct", reason: "defuse", score: "13-3"},
	)
	return rounds
}

func parseFixture(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}
