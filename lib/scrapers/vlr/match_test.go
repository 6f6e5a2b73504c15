package vlr

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khemingkapat/vlrinspect/lib/telemetry"
	"github.com/stretchr/testify/require"
)

var fixtureAbbr = map[string]string{
	"Fnatic":      "FNC",
	"FNC":         "Fnatic",
	"Team Liquid": "TL",
	"TL":          "Team Liquid",
}

func buildMatchPage(withScore bool) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Fnatic vs. Team Liquid | VLR.gg</title></head><body>`)
	b.WriteString(`<a class="match-header-event" href="/event/1"><div><div>Champions Tour 2025</div></div></a>`)
	b.WriteString(`<div class="match-header-event-series">Grand Final</div>`)
	b.WriteString(`<div class="moment-tz-convert" data-utc-ts="2025-08-10 14:00:00"></div>`)
	if withScore {
		b.WriteString(`<div class="js-spoiler">1:0</div>`)
	}
	b.WriteString(`<div class="match-header-super"><div style="margin-top: 4px;"><div style="font-style: italic;">Patch 7.04</div></div></div>`)
	b.WriteString(`<div class="match-header-note">FNC ban Bind; TL ban Split; FNC pick Ascent; Haven remains</div>`)
	b.WriteString(mapBlockHTML(1001, "Ascent", true,
		roundsRowHTML(fixtureTeams, halfAndHalfRounds()),
		overviewTableHTML("FNC", overviewHeaders, fixtureRoster("fnc")),
		overviewTableHTML("TL", overviewHeaders, fixtureRoster("tl")),
	))
	b.WriteString(`</body></html>`)
	return b.String()
}

func buildEconomyPage() string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	b.WriteString(mapBlockHTML(1001, "Ascent", true, fixtureEconomyBlocks()...))
	b.WriteString(`</body></html>`)
	return b.String()
}

func newFixtureServer(t *testing.T, pages map[string]string) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	for path, page := range pages {
		page := page
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, page)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	return server, client
}

func TestScrapeMatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:vlr")
	defer cleanup()

	matchPage := buildMatchPage(true)
	econPage := buildEconomyPage()

	mux := http.NewServeMux()
	mux.HandleFunc("/378822/fnatic-vs-team-liquid", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tab") == "economy" {
			fmt.Fprint(w, econPage)
			return
		}
		fmt.Fprint(w, matchPage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseURL: server.URL + "/"})
	require.NoError(t, err)

	match := client.ScrapeMatch(context.Background(), server.URL+"/378822/fnatic-vs-team-liquid", fixtureAbbr)
	require.NotNil(t, match)

	require.Equal(t, 378822, match.ID)
	require.Equal(t, [2]string{"Fnatic", "Team Liquid"}, match.Teams)
	require.Equal(t, "Champions Tour 2025", match.EventName)
	require.Equal(t, "Grand Final", match.StageName)
	require.Equal(t, 7.04, match.Patch)
	require.Equal(t, map[string]int{"Fnatic": 1, "Team Liquid": 0}, match.Score)
	require.Equal(t, "Fnatic", match.Winner())
	require.Equal(t, 2025, match.Date.Year())

	require.Equal(t, []PickBanEntry{
		{Action: "ban", MapName: "Bind"},
		{Action: "pick", MapName: "Ascent"},
	}, match.PickBan["Fnatic"])
	require.Equal(t, []PickBanEntry{
		{Action: "ban", MapName: "Split"},
	}, match.PickBan["Team Liquid"])

	require.Len(t, match.Games, 1)
	game := match.Games[0]
	require.Equal(t, 1001, game.GameID)
	require.Equal(t, "Ascent", game.MapName)
	require.Equal(t, "Fnatic", game.Winner)
	require.Len(t, game.Rounds, 16)
	require.Len(t, game.Players, 10)

	// economy merged in, pistols forced on both half openers
	require.Equal(t, BuyPistol, game.Rounds[0].AtkBuy)
	require.Equal(t, BuyPistol, game.Rounds[0].DefBuy)
	require.Equal(t, BuyPistol, game.Rounds[12].AtkBuy)
	require.Equal(t, BuyFullBuy, game.Rounds[1].AtkBuy)
}

func TestScrapeMatchMissingCrucialField(t *testing.T) {
	_, client := newFixtureServer(t, map[string]string{
		"/378822/fnatic-vs-team-liquid": buildMatchPage(false),
	})

	match := client.ScrapeMatch(
		context.Background(),
		client.AbsoluteURL("/378822/fnatic-vs-team-liquid"),
		fixtureAbbr,
	)
	require.Nil(t, match)
}

func TestScrapeMatchFetchFailure(t *testing.T) {
	_, client := newFixtureServer(t, map[string]string{})

	match := client.ScrapeMatch(
		context.Background(),
		client.AbsoluteURL("/999999/nowhere"),
		fixtureAbbr,
	)
	require.Nil(t, match)
}

func TestMatchIDFromURL(t *testing.T) {
	id, err := matchIDFromURL("https://www.vlr.gg/378822/fnatic-vs-team-liquid")
	require.NoError(t, err)
	require.Equal(t, 378822, id)

	_, err = matchIDFromURL("https://www.vlr.gg/not-a-number/x")
	require.Error(t, err)
}

func TestResolveTeamName(t *testing.T) {
	require.Equal(t, "Fnatic", resolveTeamName("FNC", fixtureAbbr))
	// close-but-not-exact abbreviations resolve through fuzzy matching
	require.Equal(t, "Fnatic", resolveTeamName("Fnatics", fixtureAbbr))
	require.Equal(t, "ZZZ", resolveTeamName("ZZZ", fixtureAbbr))
}

func TestExtractPickBanMalformedClause(t *testing.T) {
	pickBan := extractPickBan("FNC ban Bind; garbage; TL pick Ascent; Haven remains", fixtureAbbr)
	require.Equal(t, []PickBanEntry{{Action: "ban", MapName: "Bind"}}, pickBan["Fnatic"])
	require.Equal(t, []PickBanEntry{{Action: "pick", MapName: "Ascent"}}, pickBan["Team Liquid"])
	require.Len(t, pickBan, 2)
}
