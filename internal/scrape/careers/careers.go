package careers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobalert/internal/domain"
	"jobalert/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Name           string // source label on postings
	ListingURL     string
	JobSelector    string // anchor selector; empty scans all anchors
	HydrateDetails bool   // fetch each job page for title/location
	MaxHydrate     int    // concurrent detail fetches
}

type Scraper struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Scraper {
	if cfg.Name == "" {
		cfg.Name = "careers"
	}
	if cfg.MaxHydrate <= 0 {
		cfg.MaxHydrate = 4
	}
	return &Scraper{
		cfg: cfg,
		hc:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *Scraper) Name() string { return s.cfg.Name }

// Fetch scrapes the listing page once. A non-2xx listing or a parse failure
// is an error; individual detail pages failing is not.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.JobPosting, error) {
	doc, err := s.get(ctx, s.cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("careers listing: %w", err)
	}

	base, err := url.Parse(s.cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("careers listing url: %w", err)
	}

	sel := s.cfg.JobSelector
	if sel == "" {
		sel = "a[href]"
	}

	seen := map[string]bool{}
	now := time.Now().UTC()

	var jobs []domain.JobPosting
	doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		abs := resolveURL(base, href)
		id := ExtractJobID(abs)
		if id == "" {
			return
		}
		if seen[id] {
			return
		}
		seen[id] = true

		title := util.CleanText(a.Text())
		if looksLikeJunkTitle(title) {
			// detail page has the real title; keep the entry
			title = ""
		}

		jobs = append(jobs, domain.JobPosting{
			ID:        id,
			Title:     title,
			URL:       abs,
			Source:    s.cfg.Name,
			FetchedAt: now,
		})
	})

	if s.cfg.HydrateDetails {
		s.hydrateAll(ctx, jobs)
	}

	return jobs, nil
}

// hydrateAll fills in title/location from each job page. Bounded parallelism;
// errors leave the minimal listing entry in place.
func (s *Scraper) hydrateAll(ctx context.Context, jobs []domain.JobPosting) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxHydrate)

	for i := range jobs {
		i := i
		g.Go(func() error {
			_ = s.hydrate(gctx, &jobs[i])
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Scraper) hydrate(ctx context.Context, j *domain.JobPosting) error {
	doc, err := s.get(ctx, j.URL)
	if err != nil {
		return err
	}

	if j.Title == "" {
		if t := util.CleanText(doc.Find("h1").First().Text()); t != "" {
			j.Title = t
		}
	}

	if j.Location == "" {
		j.Location = findLocation(doc)
	}
	return nil
}

func (s *Scraper) get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "JobAlert/1.0 (+local)")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}

	return goquery.NewDocumentFromReader(res.Body)
}

func resolveURL(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(u).String()
}

// ExtractJobID pulls a numeric job identifier out of a posting URL. Handles
// the common /job/<id> and /jobs/<id> path shapes, then falls back to the
// last all-digit path segment.
func ExtractJobID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segs {
		if seg != "job" && seg != "jobs" {
			continue
		}
		if i+1 < len(segs) {
			if id := leadingDigits(segs[i+1]); id != "" {
				return id
			}
		}
	}

	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" && segs[i] == leadingDigits(segs[i]) {
			return segs[i]
		}
	}
	return ""
}

func leadingDigits(s string) string {
	id := ""
	for _, r := range s {
		if r >= '0' && r <= '9' {
			id += string(r)
		} else {
			break
		}
	}
	return id
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return l == "" || strings.Contains(l, "view") || strings.Contains(l, "apply") || strings.Contains(l, "see details")
}

func findLocation(doc *goquery.Document) string {
	candidates := []string{
		".location",
		".job__location",
		"[data-testid='job-location']",
		"[data-testid='location']",
	}

	for _, sel := range candidates {
		if t := util.CleanText(doc.Find(sel).First().Text()); t != "" {
			return util.NormalizeLocation(t)
		}
	}

	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if loc := util.ExtractLocationFromLabeledText(v); loc != "" {
			return util.NormalizeLocation(loc)
		}
	}

	body := util.CleanText(doc.Find("body").Text())
	if loc := util.ExtractLocationFromLabeledText(body); loc != "" {
		return util.NormalizeLocation(loc)
	}

	return ""
}
