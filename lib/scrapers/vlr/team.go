package vlr

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/khemingkapat/vlrinspect/lib/htmlutil"
	"go.opentelemetry.io/otel/codes"
)

// TeamIdentity is the full name / abbreviation pair scraped from a
// team page. Teams without a distinct tag use the full name for both.
type TeamIdentity struct {
	FullName  string
	ShortName string
}

// AbbreviationMap returns the bidirectional lookup for this team.
func (t TeamIdentity) AbbreviationMap() map[string]string {
	return map[string]string{
		t.FullName:  t.ShortName,
		t.ShortName: t.FullName,
	}
}

// MergeAbbreviations folds several per-team lookups into the shared
// table used while scraping one match.
func MergeAbbreviations(identities ...TeamIdentity) map[string]string {
	merged := map[string]string{}
	for _, id := range identities {
		for k, v := range id.AbbreviationMap() {
			merged[k] = v
		}
	}
	return merged
}

// TeamHistory scrapes a team's match-history page, returning up to
// `depth` historical match URLs (most recent first) and the team's
// identity. depth < 0 means all of them.
func (c *Client) TeamHistory(ctx context.Context, teamURL string, depth int) ([]string, TeamIdentity, error) {
	ctx, span := tracer.Start(ctx, "TeamHistory")
	defer span.End()

	doc, err := c.getPage(ctx, teamURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch team page")
		return nil, TeamIdentity{}, err
	}

	fullName := htmlutil.CleanText(doc.Find("h1.wf-title").First().Text())
	if fullName == "" {
		err := fmt.Errorf("no team title on '%s'", teamURL)
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing team title")
		return nil, TeamIdentity{}, err
	}
	shortName := htmlutil.CleanText(doc.Find("h2.wf-title.team-header-tag").First().Text())
	if shortName == "" {
		shortName = fullName
	}

	var links []string
	doc.Find("a.wf-card.fc-flex.m-item").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if depth >= 0 && len(links) >= depth {
			return false
		}
		href, ok := card.Attr("href")
		if !ok {
			return true
		}
		links = append(links, c.AbsoluteURL(href))
		return true
	})

	return links, TeamIdentity{FullName: fullName, ShortName: shortName}, nil
}

// TeamPagesFromMatch resolves the two team-history page URLs of a
// match. Each team's page is re-fetched through its matches listing to
// pick up the most recent roster core.
func (c *Client) TeamPagesFromMatch(ctx context.Context, matchURL string) ([2]string, error) {
	ctx, span := tracer.Start(ctx, "TeamPagesFromMatch")
	defer span.End()

	var pages [2]string

	doc, err := c.getPage(ctx, matchURL)
	if err != nil {
		return pages, err
	}

	teams := doc.Find("a.match-header-link")
	if teams.Length() != 2 {
		return pages, fmt.Errorf("expected 2 team links on '%s', got %d", matchURL, teams.Length())
	}

	for i := 0; i < 2; i++ {
		href, ok := teams.Eq(i).Attr("href")
		if !ok {
			return pages, fmt.Errorf("team link %d on '%s' has no href", i, matchURL)
		}

		matchesURL := c.AbsoluteURL(strings.Replace(href, "/team/", "/team/matches/", 1))
		teamDoc, err := c.getPage(ctx, matchesURL)
		if err != nil {
			return pages, err
		}

		cores := teamDoc.Find("span.wf-dropdown a[href*='?core_id=']")
		if cores.Length() < 2 {
			return pages, fmt.Errorf("no roster core dropdown on '%s'", matchesURL)
		}
		coreHref, ok := cores.Eq(1).Attr("href")
		if !ok {
			return pages, fmt.Errorf("roster core link on '%s' has no href", matchesURL)
		}
		pages[i] = c.AbsoluteURL(coreHref)
	}

	return pages, nil
}
