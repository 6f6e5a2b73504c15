package vlr

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/khemingkapat/vlrinspect/lib/htmlutil"
)

// UpcomingMatch is one entry of the front-page listing. Only matches
// that have not started and have both sides decided are reported.
type UpcomingMatch struct {
	TeamA string
	TeamB string
	Link  string
}

// UpcomingMatches scrapes the front-page listing of upcoming matches.
// The listing page is served from a one-hour cache to avoid hammering
// the site while a session navigates around.
func (c *Client) UpcomingMatches(ctx context.Context) ([]UpcomingMatch, error) {
	ctx, span := tracer.Start(ctx, "UpcomingMatches")
	defer span.End()

	doc, err := c.getListingPage(ctx, c.BaseURL.String())
	if err != nil {
		return nil, err
	}

	var upcoming []UpcomingMatch
	doc.Find("a.mod-match").Each(func(_ int, card *goquery.Selection) {
		// a score counter means the match is live or finished
		if card.Find("div.h-match-team-score.mod-count.js-spoiler").Length() > 0 {
			return
		}

		names := card.Find("div.h-match-team-name")
		if names.Length() != 2 {
			return
		}
		teamA := htmlutil.CleanText(names.Eq(0).Text())
		teamB := htmlutil.CleanText(names.Eq(1).Text())
		if teamA == "TBD" || teamB == "TBD" {
			return
		}

		href, ok := card.Attr("href")
		if !ok {
			return
		}

		upcoming = append(upcoming, UpcomingMatch{
			TeamA: teamA,
			TeamB: teamB,
			Link:  c.AbsoluteURL(href),
		})
	})

	return upcoming, nil
}
