package vlr

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"github.com/khemingkapat/vlrinspect/lib/htmlutil"
	"go.opentelemetry.io/otel/codes"
)

const utcTimestampLayout = "2006-01-02 15:04:05"

// PatchUnknown is the sentinel for match pages without a patch marker.
const PatchUnknown = float64(-1)

const abbreviationSimilarityFloor = 0.8

// matchIDFromURL derives the numeric match id from the first path
// segment of the canonical match URL.
func matchIDFromURL(matchURL string) (int, error) {
	u, err := url.Parse(matchURL)
	if err != nil {
		return 0, err
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" {
			continue
		}
		return strconv.Atoi(seg)
	}
	return 0, fmt.Errorf("no match id in '%s'", matchURL)
}

// resolveTeamName maps a pick/ban abbreviation to a full team name
// through the shared lookup, falling back to the closest known name
// when the site abbreviates differently than the team page does.
func resolveTeamName(name string, abbr map[string]string) string {
	if full, ok := abbr[name]; ok {
		return full
	}

	best := ""
	bestScore := abbreviationSimilarityFloor
	for known := range abbr {
		score := matchr.JaroWinkler(name, known, false)
		if score > bestScore {
			bestScore = score
			best = known
		}
	}
	if best != "" {
		// the lookup is bidirectional, keep the full-name form
		full := abbr[best]
		if len(best) > len(full) {
			return best
		}
		return full
	}
	return name
}

// extractPickBan parses the pre-match map-selection note. Malformed
// clauses and trailing "remains" clauses are dropped, the rest still
// parse.
func extractPickBan(note string, abbr map[string]string) map[string][]PickBanEntry {
	pickBan := map[string][]PickBanEntry{}
	for _, clause := range strings.Split(note, ";") {
		fields := strings.Fields(clause)
		if len(fields) < 3 {
			continue
		}
		if strings.EqualFold(fields[len(fields)-1], "remains") {
			continue
		}

		team := resolveTeamName(fields[0], abbr)
		pickBan[team] = append(pickBan[team], PickBanEntry{
			Action:  fields[1],
			MapName: fields[2],
		})
	}
	return pickBan
}

type mapTab struct {
	name   string
	gameID int
}

// mapTabs enumerates the per-map stat tabs of a match page. Pages of
// single-map matches render no tab strip, the active stat block then
// stands in for the only map.
func mapTabs(doc *goquery.Document) []mapTab {
	var tabs []mapTab

	navItems := doc.Find("div.vm-stats-gamesnav-item.js-map-switch")
	navItems.Each(func(_ int, item *goquery.Selection) {
		id, err := strconv.Atoi(item.AttrOr("data-game-id", ""))
		if err != nil {
			return
		}
		if item.AttrOr("data-disabled", "") == "1" {
			return
		}
		if strings.Contains(item.Text(), "All Maps") {
			return
		}
		tabs = append(tabs, mapTab{
			name:   htmlutil.FirstLine(item.Text()),
			gameID: id,
		})
	})

	if navItems.Length() > 0 {
		return tabs
	}

	active := doc.Find("div.vm-stats-game.mod-active").First()
	if active.Length() == 0 {
		return nil
	}
	id, err := strconv.Atoi(active.AttrOr("data-game-id", ""))
	if err != nil {
		return nil
	}
	return []mapTab{{
		name:   htmlutil.CleanText(active.Find("div.map span").First().Text()),
		gameID: id,
	}}
}

// gameWinner declares the map winner by round-score comparison.
func gameWinner(rounds []RoundOutcome) string {
	wins := map[string]int{}
	for _, r := range rounds {
		wins[r.WinningTeam()]++
	}

	winner := ""
	best := 0
	for team, n := range wins {
		if n > best {
			winner = team
			best = n
		}
	}
	return winner
}

// economyURL is the match URL with the economy tab selected.
func economyURL(matchURL string) string {
	u, err := url.Parse(matchURL)
	if err != nil {
		return matchURL
	}
	q := u.Query()
	q.Set("tab", "economy")
	u.RawQuery = q.Encode()
	return u.String()
}

// ScrapeMatch fetches and assembles one completed match. Any missing
// crucial field or failed consistency check rejects the whole match:
// the cause is logged and nil comes back, batch scrapes simply skip
// it. Optional fields (patch, pick/ban) degrade to sentinels instead.
func (c *Client) ScrapeMatch(ctx context.Context, matchURL string, abbr map[string]string) *Match {
	ctx, span := tracer.Start(ctx, "ScrapeMatch")
	defer span.End()

	match, err := c.scrapeMatch(ctx, matchURL, abbr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "match rejected")
		slog.WarnContext(ctx, "match rejected", "url", matchURL, "err", err)
		return nil
	}
	return match
}

func (c *Client) scrapeMatch(ctx context.Context, matchURL string, abbr map[string]string) (*Match, error) {
	doc, err := c.getPage(ctx, matchURL)
	if err != nil {
		return nil, err
	}

	matchID, err := matchIDFromURL(matchURL)
	if err != nil {
		return nil, err
	}

	// crucial fields, any of these missing rejects the match
	title := htmlutil.CleanText(doc.Find("title").First().Text())
	teams := strings.Split(strings.Split(title, " | ")[0], " vs. ")
	if len(teams) != 2 {
		return nil, fmt.Errorf("could not read team names from title '%s'", title)
	}

	eventName := htmlutil.CleanText(doc.Find("a.match-header-event div > div").First().Text())
	if eventName == "" {
		return nil, fmt.Errorf("missing event name")
	}
	stageName := htmlutil.CleanText(doc.Find("div.match-header-event-series").First().Text())
	if stageName == "" {
		return nil, fmt.Errorf("missing stage name")
	}

	ts, ok := doc.Find("div.moment-tz-convert").First().Attr("data-utc-ts")
	if !ok {
		return nil, fmt.Errorf("missing match timestamp")
	}
	date, err := time.Parse(utcTimestampLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("unparsable match timestamp '%s': %w", ts, err)
	}

	scoreText := htmlutil.CleanText(doc.Find("div.js-spoiler").First().Text())
	scoreParts := strings.Split(strings.ReplaceAll(scoreText, " ", ""), ":")
	if len(scoreParts) != 2 {
		return nil, fmt.Errorf("unparsable final score '%s'", scoreText)
	}
	score := map[string]int{}
	for i, part := range scoreParts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("unparsable final score '%s': %w", scoreText, err)
		}
		score[teams[i]] = n
	}

	// optional fields, absence degrades to sentinels
	patch := PatchUnknown
	patchText := doc.Find("div.match-header-super").
		Find(`div[style="margin-top: 4px;"]`).
		Find(`div[style="font-style: italic;"]`).
		First().Text()
	if patchText != "" {
		parsed, err := strconv.ParseFloat(
			strings.TrimPrefix(htmlutil.CleanText(patchText), "Patch "), 64)
		if err == nil {
			patch = parsed
		} else {
			slog.DebugContext(ctx, "no patch found, keeping -1", "url", matchURL)
		}
	}

	pickBan := map[string][]PickBanEntry{}
	if note := doc.Find("div.match-header-note").First(); note.Length() > 0 {
		pickBan = extractPickBan(htmlutil.CleanText(note.Text()), abbr)
	}

	var econDoc *goquery.Document
	econDoc, err = c.getPage(ctx, economyURL(matchURL))
	if err != nil {
		slog.WarnContext(ctx, "economy tab unavailable, buy types will be unknown",
			"url", matchURL, "err", err)
		econDoc = nil
	}

	tabs := mapTabs(doc)
	if len(tabs) == 0 {
		return nil, fmt.Errorf("no map stat blocks found")
	}

	var games []Game
	totalRounds := 0
	totalPlayers := 0
	for _, tab := range tabs {
		blockSelector := fmt.Sprintf(`div.vm-stats-game[data-game-id="%d"]`, tab.gameID)
		block := doc.Find(blockSelector).First()
		if block.Length() == 0 {
			slog.WarnContext(ctx, "skipping map with missing stat block",
				"url", matchURL, "game_id", tab.gameID)
			continue
		}

		rounds := extractRounds(block, tab.name, tab.gameID)
		if econDoc != nil {
			econBlock := econDoc.Find(blockSelector).First()
			if econBlock.Length() > 0 {
				mergeEconomy(rounds, extractEconomy(econBlock))
			}
		}

		var players []PlayerGameRow
		block.Find("table.wf-table-inset.mod-overview").Each(func(_ int, table *goquery.Selection) {
			players = append(players, extractOverview(table, tab.name, tab.gameID)...)
		})

		totalRounds += len(rounds)
		totalPlayers += len(players)
		games = append(games, Game{
			GameID:  tab.gameID,
			MapName: tab.name,
			Winner:  gameWinner(rounds),
			Rounds:  rounds,
			Players: players,
		})
	}

	// consistency checks, a partial scrape must not pollute aggregates
	if totalPlayers == 0 || totalPlayers != len(tabs)*2*rosterSize {
		return nil, fmt.Errorf("expected %d overview rows, got %d", len(tabs)*2*rosterSize, totalPlayers)
	}
	if totalRounds < 13*len(tabs) {
		return nil, fmt.Errorf("expected at least %d round rows, got %d", 13*len(tabs), totalRounds)
	}

	return &Match{
		ID:            matchID,
		URL:           matchURL,
		Teams:         [2]string{teams[0], teams[1]},
		EventName:     eventName,
		StageName:     stageName,
		Date:          date,
		Patch:         patch,
		Score:         score,
		Abbreviations: abbr,
		PickBan:       pickBan,
		Games:         games,
	}, nil
}

// ScrapeMatches assembles every match it can from the given URLs,
// sequentially. A rejected or unreachable match is skipped, never
// fatal for the batch.
func (c *Client) ScrapeMatches(ctx context.Context, matchURLs []string, abbr map[string]string) []*Match {
	var matches []*Match
	for _, matchURL := range matchURLs {
		slog.InfoContext(ctx, "scraping match", "url", matchURL)
		if match := c.ScrapeMatch(ctx, matchURL, abbr); match != nil {
			matches = append(matches, match)
		}
	}
	return matches
}
