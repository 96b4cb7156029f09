package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Chain is an ordered list of CSS selectors tried until one yields text.
// Keeping them as data means a markup change is a config edit.
type Chain []string

// Text returns the collapsed text of the first selector whose first match is non-empty.
func (c Chain) Text(root *goquery.Selection) string {
	for _, css := range c {
		el := root.Find(css).First()
		if el.Length() == 0 {
			continue
		}
		if text := NodeText(el); text != "" {
			return text
		}
	}
	return ""
}

// First returns the first element matched by any selector in order, or nil.
func (c Chain) First(root *goquery.Selection) *goquery.Selection {
	for _, css := range c {
		if el := root.Find(css).First(); el.Length() > 0 {
			return el
		}
	}
	return nil
}

// NodeText joins every text node under sel with a space, so adjacent inline
// elements don't run together, then collapses whitespace.
func NodeText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			switch goquery.NodeName(c) {
			case "#text":
				parts = append(parts, c.Text())
			case "#comment", "script", "style":
				// skip
			default:
				walk(c)
			}
		})
	}
	walk(sel)
	return CollapseSpace(strings.Join(parts, " "))
}

// CollapseSpace NFC-normalizes s, squeezes whitespace runs to one space and trims.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
