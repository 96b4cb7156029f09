// Shared types and helpers for site scrapers

package scraper

import (
	"context"
)

// Project is one posting as extracted from its detail page.
type Project struct {
	Title       string `json:"title"`
	Budget      string `json:"budget"` // raw text, not parsed
	Owner       string `json:"owner"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Lister discovers project identifiers on a listing page, in page order.
type Lister interface {
	FetchLinks(ctx context.Context) ([]string, error)
}

// Extractor loads one project page and pulls its fields.
type Extractor interface {
	FetchDetail(ctx context.Context, url string) (Project, error)
}
