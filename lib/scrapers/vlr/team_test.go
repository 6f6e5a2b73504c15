package vlr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureTeamPage = `<html><body>
<h1 class="wf-title">Fnatic</h1>
<h2 class="wf-title team-header-tag">FNC</h2>
<a class="wf-card fc-flex m-item" href="/378822/fnatic-vs-team-liquid"></a>
<a class="wf-card fc-flex m-item" href="/378123/fnatic-vs-drx"></a>
<a class="wf-card fc-flex m-item" href="/377999/fnatic-vs-edg"></a>
</body></html>`

const fixtureTeamPageNoTag = `<html><body>
<h1 class="wf-title">Sentinels</h1>
<a class="wf-card fc-flex m-item" href="/400000/sentinels-vs-nrg"></a>
</body></html>`

func TestTeamHistory(t *testing.T) {
	_, client := newFixtureServer(t, map[string]string{
		"/team/2593/fnatic": fixtureTeamPage,
	})

	links, identity, err := client.TeamHistory(context.Background(), client.AbsoluteURL("/team/2593/fnatic"), -1)
	require.NoError(t, err)
	require.Equal(t, "Fnatic", identity.FullName)
	require.Equal(t, "FNC", identity.ShortName)
	require.Len(t, links, 3)
	require.Equal(t, client.AbsoluteURL("/378822/fnatic-vs-team-liquid"), links[0])

	abbr := identity.AbbreviationMap()
	require.Equal(t, "FNC", abbr["Fnatic"])
	require.Equal(t, "Fnatic", abbr["FNC"])
}

func TestTeamHistoryDepth(t *testing.T) {
	_, client := newFixtureServer(t, map[string]string{
		"/team/2593/fnatic": fixtureTeamPage,
	})

	links, _, err := client.TeamHistory(context.Background(), client.AbsoluteURL("/team/2593/fnatic"), 2)
	require.NoError(t, err)
	require.Len(t, links, 2)
}

func TestTeamHistoryNoAbbreviation(t *testing.T) {
	_, client := newFixtureServer(t, map[string]string{
		"/team/2/sentinels": fixtureTeamPageNoTag,
	})

	_, identity, err := client.TeamHistory(context.Background(), client.AbsoluteURL("/team/2/sentinels"), -1)
	require.NoError(t, err)
	require.Equal(t, "Sentinels", identity.FullName)
	require.Equal(t, "Sentinels", identity.ShortName)
}

func TestMergeAbbreviations(t *testing.T) {
	merged := MergeAbbreviations(
		TeamIdentity{FullName: "Fnatic", ShortName: "FNC"},
		TeamIdentity{FullName: "Team Liquid", ShortName: "TL"},
	)
	require.Equal(t, fixtureAbbr, merged)
}

func TestTeamPagesFromMatch(t *testing.T) {
	matchPage := `<html><body>
<a class="match-header-link" href="/team/2593/fnatic"></a>
<a class="match-header-link" href="/team/474/team-liquid"></a>
</body></html>`
	teamMatches := `<html><body>
<span class="wf-dropdown">
<a href="/team/matches/2593/fnatic/?core_id=1"></a>
<a href="/team/matches/2593/fnatic/?core_id=2"></a>
</span>
</body></html>`

	_, client := newFixtureServer(t, map[string]string{
		"/378822/fnatic-vs-team-liquid": matchPage,
		"/team/matches/2593/fnatic":     teamMatches,
		"/team/matches/474/team-liquid": teamMatches,
	})

	pages, err := client.TeamPagesFromMatch(context.Background(), client.AbsoluteURL("/378822/fnatic-vs-team-liquid"))
	require.NoError(t, err)
	require.Equal(t, client.AbsoluteURL("/team/matches/2593/fnatic/?core_id=2"), pages[0])
}
