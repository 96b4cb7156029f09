package mostaql

import (
	"context"
	"fmt"
	"go-mostaql-watcher/internal/config"
	"go-mostaql-watcher/internal/scraper"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultListURL = "https://mostaql.com/projects?category=development"
	DefaultOrigin  = "https://mostaql.com"

	untitled     = "(بدون عنوان)"
	unknownOwner = "(غير مذكور)"

	maxParagraphs = 8
)

// Selectors holds every structural query the scraper relies on.
type Selectors struct {
	Listing string
	Title   scraper.Chain
	Budget  scraper.Chain
	Owner   scraper.Chain
	Details scraper.Chain
}

// DefaultSelectors match the site markup as of the last check.
func DefaultSelectors() Selectors {
	return Selectors{
		Listing: "table tbody tr h2 a[href]",
		Title:   scraper.Chain{"div.page-title h1 span", "h1 span", "h1"},
		Budget: scraper.Chain{
			"#project-meta-panel .meta-value span",
			"#project-meta-panel .meta-value",
			".project-card .text-center span",
		},
		Owner: scraper.Chain{
			`#project-users\  h5 bdi`, //id with trailing space
			"#project-users h5 bdi",
			".user-card h5 bdi",
			".user-card .user-name",
			".username bdi",
			".username a",
		},
		Details: scraper.Chain{
			"#projectDetailsTab > div > div",
			"#projectDetailsTab",
			"div.project-card",
		},
	}
}

type Scraper struct {
	fetcher   *scraper.Fetcher
	listURL   string
	origin    *url.URL
	selectors Selectors
}

// NewScraper builds a mostaql scraper, applying any site overrides from cfg.
func NewScraper(cfg *config.Config, fetcher *scraper.Fetcher) (*Scraper, error) {
	listURL := DefaultListURL
	originStr := DefaultOrigin
	sel := DefaultSelectors()

	site := cfg.Site
	if site.ListURL != "" {
		listURL = site.ListURL
	}
	if site.Origin != "" {
		originStr = site.Origin
	}
	if site.Selectors.Listing != "" {
		sel.Listing = site.Selectors.Listing
	}
	if len(site.Selectors.Title) > 0 {
		sel.Title = site.Selectors.Title
	}
	if len(site.Selectors.Budget) > 0 {
		sel.Budget = site.Selectors.Budget
	}
	if len(site.Selectors.Owner) > 0 {
		sel.Owner = site.Selectors.Owner
	}
	if len(site.Selectors.Details) > 0 {
		sel.Details = site.Selectors.Details
	}

	origin, err := url.Parse(originStr)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid site origin %q", originStr)
	}

	return &Scraper{
		fetcher:   fetcher,
		listURL:   listURL,
		origin:    origin,
		selectors: sel,
	}, nil
}

func (s *Scraper) Name() string {
	return "Mostaql"
}

// FetchLinks returns project URLs from the listing page in page order (newest first).
func (s *Scraper) FetchLinks(ctx context.Context) ([]string, error) {
	doc, err := s.fetcher.Document(ctx, s.listURL)
	if err != nil {
		return nil, fmt.Errorf("listing fetch failed: %w", err)
	}

	var links []string
	doc.Find(s.selectors.Listing).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if abs := s.absolute(href); abs != "" {
			links = append(links, abs)
		}
	})
	return links, nil
}

// absolute resolves href against the site origin; "" if it can't be parsed.
func (s *Scraper) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return s.origin.ResolveReference(ref).String()
}

// FetchDetail loads one project page. Missing fields degrade to placeholders;
// only transport failures and non-2xx statuses are errors.
func (s *Scraper) FetchDetail(ctx context.Context, projectURL string) (scraper.Project, error) {
	doc, err := s.fetcher.Document(ctx, projectURL)
	if err != nil {
		return scraper.Project{}, fmt.Errorf("detail fetch failed: %w", err)
	}
	p := s.extract(doc.Selection)
	p.URL = projectURL
	return p, nil
}

func (s *Scraper) extract(root *goquery.Selection) scraper.Project {
	title := s.selectors.Title.Text(root)
	if title == "" {
		title = untitled
	}

	owner := s.selectors.Owner.Text(root)
	if owner == "" {
		owner = unknownOwner
	}

	return scraper.Project{
		Title:       title,
		Budget:      s.selectors.Budget.Text(root),
		Owner:       owner,
		Description: s.description(root),
	}
}

func (s *Scraper) description(root *goquery.Selection) string {
	container := s.selectors.Details.First(root)
	if container == nil {
		return ""
	}

	var paragraphs []string
	container.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		paragraphs = append(paragraphs, scraper.NodeText(p))
		return len(paragraphs) < maxParagraphs
	})

	//some posts have the text directly in the container
	if len(paragraphs) == 0 {
		return scraper.NodeText(container)
	}
	return scraper.CollapseSpace(strings.Join(paragraphs, " "))
}
