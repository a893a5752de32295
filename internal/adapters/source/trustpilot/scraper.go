// Package trustpilot scrapes the public review listing of one business page.
// Pages are walked newest first until a review older than the cutoff shows up,
// no next link remains, or the page cap is hit
package trustpilot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reviewpulse/internal/core/review"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	ptime "reviewpulse/internal/platform/time"
	"reviewpulse/internal/platform/tracing"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const (
	selCard    = `article[data-service-review-card-paper="true"]`
	selRating  = `div[data-service-review-rating]`
	selText    = `p[data-service-review-text-typography]`
	selAuthor  = `span[data-consumer-name-typography="true"]`
	selTime    = `time[datetime]`
	selNext    = `a[aria-label="Page suivante"]`
	selRelNext = `a[rel="next"]`
)

// Scraper implements the ingest review source over HTTP
type Scraper struct {
	cfg   Config
	http  *http.Client
	clock ptime.Clock
	sleep func(ctx context.Context, d time.Duration) error
}

// Option customizes a Scraper
type Option func(*Scraper)

// WithHTTPClient replaces the transport
func WithHTTPClient(c *http.Client) Option { return func(s *Scraper) { s.http = c } }

// WithClock pins scrape time
func WithClock(c ptime.Clock) Option { return func(s *Scraper) { s.clock = c } }

// New builds a scraper
func New(cfg Config, opts ...Option) *Scraper {
	cfg = cfg.normalized()
	s := &Scraper{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		clock: ptime.System,
		sleep: sleepCtx,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch walks the listing and returns reviews published within the cutoff, deduplicated by id
func (s *Scraper) Fetch(ctx context.Context) (out []review.Review, err error) {
	ctx, span := tracing.Start(ctx, "scrape.fetch", attribute.String("start_url", s.cfg.StartURL))
	defer func() {
		span.SetAttributes(attribute.Int("reviews", len(out)))
		tracing.End(span, err)
	}()

	log := logger.C(ctx).With().Str("component", "trustpilot").Logger()

	today := ptime.Today(s.clock)
	cutoff := today.AddDate(0, 0, -s.cfg.CutoffDays)
	seen := make(map[string]struct{})

	next, err := url.Parse(s.cfg.StartURL)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "scraper start url %q", s.cfg.StartURL)
	}

	for page := 1; next != nil; page++ {
		if page > s.cfg.MaxPages {
			log.Warn().Int("max_pages", s.cfg.MaxPages).Msg("page cap reached")
			break
		}
		if page > 1 {
			if err := s.sleep(ctx, s.delay()); err != nil {
				return out, err
			}
		}

		log.Info().Int("page", page).Str("url", next.String()).Msg("scraping page")
		doc, err := s.get(ctx, next)
		if err != nil {
			return out, err
		}

		rows, stop := parsePage(doc, today, cutoff, s.cfg.UnknownName)
		for _, r := range rows {
			if _, dup := seen[r.ReviewID]; dup {
				continue
			}
			seen[r.ReviewID] = struct{}{}
			out = append(out, r)
		}
		if stop {
			log.Info().Str("cutoff", ptime.FormatDay(cutoff)).Msg("reached reviews older than cutoff")
			break
		}
		next = nextPage(doc, next)
	}

	log.Info().Int("reviews", len(out)).Msg("scrape finished")
	return out, nil
}

func (s *Scraper) get(ctx context.Context, u *url.URL) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "build scrape request")
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "get %s", u)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, perr.Upstreamf("get %s: status %d", u, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "parse %s", u)
	}
	return doc, nil
}

func (s *Scraper) delay() time.Duration {
	lo, hi := s.cfg.DelayMin, s.cfg.DelayMax
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

// parsePage extracts the cards of one listing page. stop is true once a card predates cutoff
func parsePage(doc *goquery.Document, scrapeDay, cutoff time.Time, unknownAuthor string) (rows []review.Review, stop bool) {
	doc.Find(selCard).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		r, ok := parseCard(card, unknownAuthor)
		if !ok {
			return true
		}
		if r.PublicationDate.Before(cutoff) {
			stop = true
			return false
		}
		r.ScrapeDate = scrapeDay
		r.ReviewID = r.ComputeID()
		rows = append(rows, r)
		return true
	})
	return rows, stop
}

func parseCard(card *goquery.Selection, unknownAuthor string) (review.Review, bool) {
	raw, ok := card.Find(selTime).First().Attr("datetime")
	if !ok {
		return review.Review{}, false
	}
	pub, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return review.Review{}, false
	}

	ratingAttr, _ := card.Find(selRating).First().Attr("data-service-review-rating")
	rating, err := strconv.Atoi(strings.TrimSpace(ratingAttr))
	if err != nil || rating < 1 || rating > 5 {
		return review.Review{}, false
	}

	content := blockText(card.Find(selText).First())
	if content == "" {
		return review.Review{}, false
	}

	author := strings.TrimSpace(card.Find(selAuthor).First().Text())
	if author == "" {
		author = unknownAuthor
	}

	return review.Review{
		Rating:          rating,
		Content:         content,
		Author:          author,
		PublicationDate: ptime.Day(pub),
	}, true
}

// blockText joins the text of each child node with newlines so <br> separated lines stay apart
func blockText(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, n *goquery.Selection) {
		if t := strings.TrimSpace(n.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}

func nextPage(doc *goquery.Document, cur *url.URL) *url.URL {
	a := doc.Find(selNext).First()
	if a.Length() == 0 {
		a = doc.Find(selRelNext).First()
	}
	href, ok := a.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	return cur.ResolveReference(ref)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// String describes the source for logs
func (s *Scraper) String() string { return fmt.Sprintf("trustpilot(%s)", s.cfg.StartURL) }
