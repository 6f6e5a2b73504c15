// Package history collects the assembled matches of one team and
// exposes the derived tabular views the analytics layer consumes.
package history

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/khemingkapat/vlrinspect/lib/scrapers/vlr"
)

// MatchRow is one line of the per-match summary table, keyed by match id.
type MatchRow struct {
	MatchID   int
	EventName string
	StageName string
	Date      time.Time
	Opponent  string
	TeamScore int
	OppScore  int
	Result    string
}

// GameRow is one line of the per-game summary table, keyed by game id.
type GameRow struct {
	MatchID int
	GameID  int
	MapName string
	Winner  string
}

// OverviewRow is a player stat line widened with its match id, the
// (MatchID, GameID, Team, Name) tuple is the row key.
type OverviewRow struct {
	MatchID int
	vlr.PlayerGameRow
}

// RoundRow is a round outcome widened with its match id, the
// (MatchID, GameID, Round) tuple is the row key.
type RoundRow struct {
	MatchID int
	vlr.RoundOutcome
}

// History is one team's ordered collection of assembled matches.
// Instances are immutable: the derived tables are computed at most
// once per instance, and Filter returns a fresh instance instead of
// mutating the receiver.
type History struct {
	FullName      string
	ShortName     string
	Abbreviations map[string]string

	matches []*vlr.Match

	matchesOnce  sync.Once
	matchRows    []MatchRow
	gamesOnce    sync.Once
	gameRows     []GameRow
	overviewOnce sync.Once
	overviewRows []OverviewRow
	roundsOnce   sync.Once
	roundRows    []RoundRow
}

func New(fullName, shortName string, abbr map[string]string, matches []*vlr.Match) *History {
	return &History{
		FullName:      fullName,
		ShortName:     shortName,
		Abbreviations: abbr,
		matches:       matches,
	}
}

// Matches returns the underlying match collection. Callers must treat
// it as read-only.
func (h *History) Matches() []*vlr.Match {
	return h.matches
}

func (h *History) Len() int {
	return len(h.matches)
}

// MatchesTable is the per-match summary: opponent, event, stage, date,
// scores and outcome from this team's point of view.
func (h *History) MatchesTable() []MatchRow {
	h.matchesOnce.Do(func() {
		h.matchRows = make([]MatchRow, 0, len(h.matches))
		for _, m := range h.matches {
			opponent := m.Opponent(h.FullName)
			result := "lose"
			if m.Winner() == h.FullName {
				result = "win"
			}
			h.matchRows = append(h.matchRows, MatchRow{
				MatchID:   m.ID,
				EventName: m.EventName,
				StageName: m.StageName,
				Date:      m.Date,
				Opponent:  opponent,
				TeamScore: m.Score[h.FullName],
				OppScore:  m.Score[opponent],
				Result:    result,
			})
		}
	})
	return h.matchRows
}

// GamesTable is the per-game summary across every match.
func (h *History) GamesTable() []GameRow {
	h.gamesOnce.Do(func() {
		for _, m := range h.matches {
			for _, g := range m.Games {
				h.gameRows = append(h.gameRows, GameRow{
					MatchID: m.ID,
					GameID:  g.GameID,
					MapName: g.MapName,
					Winner:  g.Winner,
				})
			}
		}
	})
	return h.gameRows
}

// OverviewTable flattens every player stat line of every game.
func (h *History) OverviewTable() []OverviewRow {
	h.overviewOnce.Do(func() {
		for _, m := range h.matches {
			for _, g := range m.Games {
				for _, p := range g.Players {
					h.overviewRows = append(h.overviewRows, OverviewRow{
						MatchID:       m.ID,
						PlayerGameRow: p,
					})
				}
			}
		}
	})
	return h.overviewRows
}

// RoundResultTable flattens every resolved round of every game.
func (h *History) RoundResultTable() []RoundRow {
	h.roundsOnce.Do(func() {
		for _, m := range h.matches {
			for _, g := range m.Games {
				for _, r := range g.Rounds {
					h.roundRows = append(h.roundRows, RoundRow{
						MatchID:      m.ID,
						RoundOutcome: r,
					})
				}
			}
		}
	})
	return h.roundRows
}

// FilterOptions narrows a history retrospectively. Zero values leave
// the corresponding criterion unapplied.
type FilterOptions struct {
	// inclusive date range bounds
	From time.Time
	To   time.Time
	// exact patch version
	Patch float64
	// case-insensitive event name substring
	Event string
	// use the earliest date among matches of this event as an
	// implicit start-date cutoff
	SinceEvent string
	// keep only games on these maps, dropping matches left empty
	Maps []string
}

// Filter returns a new History containing only matches (and games)
// passing the given criteria. The receiver is left untouched and the
// result memoizes its own tables.
func (h *History) Filter(opts FilterOptions) *History {
	from := opts.From
	if opts.SinceEvent != "" {
		if since, ok := h.earliestEventDate(opts.SinceEvent); ok {
			if from.IsZero() || since.After(from) {
				from = since
			}
		}
	}

	allowed := map[string]bool{}
	for _, name := range opts.Maps {
		allowed[name] = true
	}

	var filtered []*vlr.Match
	for _, m := range h.matches {
		if !from.IsZero() && m.Date.Before(from) {
			continue
		}
		if !opts.To.IsZero() && m.Date.After(opts.To) {
			continue
		}
		if opts.Patch != 0 && m.Patch != opts.Patch {
			continue
		}
		if opts.Event != "" &&
			!strings.Contains(strings.ToLower(m.EventName), strings.ToLower(opts.Event)) {
			continue
		}

		if len(allowed) > 0 {
			var games []vlr.Game
			for _, g := range m.Games {
				if allowed[g.MapName] {
					games = append(games, g)
				}
			}
			if len(games) == 0 {
				continue
			}
			if len(games) != len(m.Games) {
				trimmed := *m
				trimmed.Games = games
				m = &trimmed
			}
		}

		filtered = append(filtered, m)
	}

	return New(h.FullName, h.ShortName, h.Abbreviations, filtered)
}

func (h *History) earliestEventDate(event string) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, m := range h.matches {
		if !strings.Contains(strings.ToLower(m.EventName), strings.ToLower(event)) {
			continue
		}
		if !found || m.Date.Before(earliest) {
			earliest = m.Date
			found = true
		}
	}
	return earliest, found
}

// BuildTeamHistory scrapes the history of both teams of an upcoming
// match: team pages resolved from the match header, abbreviation maps
// merged across both teams, then up to `depth` historical matches per
// team scraped sequentially.
func BuildTeamHistory(ctx context.Context, client *vlr.Client, matchURL string, depth int) (*History, *History, error) {
	pages, err := client.TeamPagesFromMatch(ctx, matchURL)
	if err != nil {
		return nil, nil, err
	}

	linksA, teamA, err := client.TeamHistory(ctx, pages[0], depth)
	if err != nil {
		return nil, nil, err
	}
	linksB, teamB, err := client.TeamHistory(ctx, pages[1], depth)
	if err != nil {
		return nil, nil, err
	}

	abbr := vlr.MergeAbbreviations(teamA, teamB)

	histA := New(teamA.FullName, teamA.ShortName, abbr, client.ScrapeMatches(ctx, linksA, abbr))
	histB := New(teamB.FullName, teamB.ShortName, abbr, client.ScrapeMatches(ctx, linksB, abbr))
	return histA, histB, nil
}
