package vlr

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/khemingkapat/vlrinspect/lib/restyutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/vlr")

const DefaultBaseURL = "https://www.vlr.gg/"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// listings move slowly, an hour of staleness is acceptable
const listingCacheTTL = time.Hour

// Client is a scraping session against one results site. It carries a
// single HTTP session (cookie jar, fixed User-Agent) reused across
// every page fetch, plus a short-lived cache for listing pages.
type Client struct {
	BaseURL *url.URL

	http    *resty.Client
	listing *expirable.LRU[string, []byte]
}

type ClientOptions struct {
	// defaults to DefaultBaseURL
	BaseURL string
	// defaults to a desktop Chrome User-Agent
	UserAgent string
	// defaults to 30 seconds
	Timeout time.Duration
	// when set, every HTTP exchange is dumped into this directory
	DebugDumpDir string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	client.SetTimeout(opts.Timeout)

	var dump restyutil.DumpOutput
	if opts.DebugDumpDir != "" {
		dump = restyutil.NewFilesystemOutput(opts.DebugDumpDir)
	}
	restyutil.InstrumentClient(client, tracer, dump)

	return &Client{
		BaseURL: baseURL,
		http:    client,
		listing: expirable.NewLRU[string, []byte](64, nil, listingCacheTTL),
	}, nil
}

// AbsoluteURL resolves a relative href from the site against the base.
func (c *Client) AbsoluteURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.BaseURL.ResolveReference(ref).String()
}

func (c *Client) fetch(ctx context.Context, link string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "fetch")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := fmt.Errorf("unexpected status %d for '%s'", res.StatusCode(), link)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}
	return res.Body(), nil
}

// getPage fetches a page and parses it.
func (c *Client) getPage(ctx context.Context, link string) (*goquery.Document, error) {
	body, err := c.fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(body))
}

// getListingPage is getPage behind the time-boxed listing cache.
func (c *Client) getListingPage(ctx context.Context, link string) (*goquery.Document, error) {
	if cached, hit := c.listing.Get(link); hit {
		return goquery.NewDocumentFromReader(bytes.NewBuffer(cached))
	}

	body, err := c.fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	c.listing.Add(link, body)

	return goquery.NewDocumentFromReader(bytes.NewBuffer(body))
}
