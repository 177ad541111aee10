// Package extract turns a rendered kp.ru page into a candidate article
// record. Every field is filled by an ordered chain of structural
// queries; the first non-empty result wins.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kpnews/internal/article"
	"kpnews/internal/text"
)

// sourceAuthor is the fallback byline when a page names no author.
const sourceAuthor = "kp.ru"

var slugSplitter = regexp.MustCompile(`[/_-]+`)

// textContainers are tried in order; paragraphs are taken from the
// first container that matches.
var textContainers = []string{
	`div[data-gtm-el="content-body"]`,
	`div[class*="article__text"]`,
	`div[class*="article-content"]`,
	"article",
}

// listingLinkQueries harvest article candidates from a listing page, in
// page-discovery order per query.
var listingLinkQueries = []string{
	`a[href*="/daily/"]`,
	`a[href*="/online/news/"]`,
	"article a[href]",
	"main a[href]",
}

type fieldQuery func(doc *goquery.Document) string

// Extract builds a raw article from doc fetched at pageURL.
func Extract(doc *goquery.Document, pageURL string) article.Raw {
	raw := article.Raw{
		Title:               firstNonEmpty(doc, headingText, metaProperty("og:title"), documentTitle),
		Description:         firstNonEmpty(doc, metaName("description"), metaProperty("og:description")),
		ArticleText:         articleText(doc),
		PublicationDatetime: firstNonEmpty(doc, timeAttr, metaProperty("article:published_time"), metaName("publish-date")),
		Keywords:            keywords(doc),
		Authors:             authors(doc),
		SourceURL:           pageURL,
		HeaderPhotoURL:      headerPhotoURL(doc, pageURL),
	}

	// Repair rules, applied in order so both text fields are non-empty
	// whenever the title is.
	if raw.Description == "" {
		raw.Description = raw.Title
	}
	if raw.ArticleText == "" {
		if raw.Description != "" {
			raw.ArticleText = raw.Description
		} else {
			raw.ArticleText = raw.Title
		}
	}
	if raw.PublicationDatetime == "" {
		raw.PublicationDatetime = dateClassText(doc)
	}
	if len(raw.Keywords) == 0 {
		raw.Keywords = slugKeywords(pageURL)
	}
	if len(raw.Authors) == 0 {
		raw.Authors = []string{sourceAuthor}
	}
	return raw
}

// Links returns every hyperlink on the page resolved against pageURL,
// in document order. Scope filtering is the frontier's job.
func Links(doc *goquery.Document, pageURL string) []string {
	return collectLinks(doc, pageURL, []string{"a[href]"})
}

// ListingLinks returns candidate links from a listing page using the
// listing-specific queries.
func ListingLinks(doc *goquery.Document, pageURL string) []string {
	return collectLinks(doc, pageURL, listingLinkQueries)
}

// NextListingPage finds the pagination link of a listing page, or "".
func NextListingPage(doc *goquery.Document, pageURL string) string {
	next := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !strings.Contains(class, "pagination") && !strings.Contains(s.Text(), "Следующая") {
			return true
		}
		href, _ := s.Attr("href")
		next = resolveURL(href, pageURL)
		return next == ""
	})
	return next
}

func collectLinks(doc *goquery.Document, pageURL string, queries []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, query := range queries {
		doc.Find(query).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			abs := resolveURL(href, pageURL)
			if abs == "" {
				return
			}
			if _, dup := seen[abs]; dup {
				return
			}
			seen[abs] = struct{}{}
			out = append(out, abs)
		})
	}
	return out
}

func firstNonEmpty(doc *goquery.Document, queries ...fieldQuery) string {
	for _, q := range queries {
		if value := text.Clean(q(doc)); value != "" {
			return value
		}
	}
	return ""
}

func headingText(doc *goquery.Document) string {
	return doc.Find("h1").First().Text()
}

func documentTitle(doc *goquery.Document) string {
	return doc.Find("title").First().Text()
}

func metaProperty(property string) fieldQuery {
	return func(doc *goquery.Document) string {
		content, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
		return content
	}
}

func metaName(name string) fieldQuery {
	return func(doc *goquery.Document) string {
		content, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
		return content
	}
}

func timeAttr(doc *goquery.Document) string {
	datetime, _ := doc.Find("time[datetime]").First().Attr("datetime")
	return datetime
}

func articleText(doc *goquery.Document) string {
	for _, container := range textContainers {
		sel := doc.Find(container).First()
		if sel.Length() == 0 {
			continue
		}
		var parts []string
		sel.Find("p").Each(func(_ int, p *goquery.Selection) {
			parts = append(parts, p.Text())
		})
		if joined := text.CleanJoin(parts); joined != "" {
			return joined
		}
	}
	return ""
}

func keywords(doc *goquery.Document) []string {
	var values []string
	if content, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		values = append(values, strings.Split(content, ",")...)
	}
	doc.Find(`a[href*="/tags/"]`).Each(func(_ int, s *goquery.Selection) {
		values = append(values, s.Text())
	})
	doc.Find(`span[class*="tag"]`).Each(func(_ int, s *goquery.Selection) {
		values = append(values, s.Text())
	})
	return text.CleanList(values)
}

// slugKeywords derives up to the last 3 non-empty path segments of the
// page URL, split on slashes, underscores and hyphens.
func slugKeywords(pageURL string) []string {
	parts := slugSplitter.Split(pageURL, -1)
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) > 3 {
		nonEmpty = nonEmpty[len(nonEmpty)-3:]
	}
	return nonEmpty
}

func authors(doc *goquery.Document) []string {
	var values []string
	doc.Find(`a[href*="/daily/author"]`).Each(func(_ int, s *goquery.Selection) {
		values = append(values, s.Text())
	})
	doc.Find(`span[class*="author"]`).Each(func(_ int, s *goquery.Selection) {
		values = append(values, s.Text())
	})
	if content, ok := doc.Find(`meta[name="author"]`).First().Attr("content"); ok {
		values = append(values, content)
	}
	return text.CleanList(values)
}

func headerPhotoURL(doc *goquery.Document, pageURL string) string {
	src := firstNonEmpty(doc,
		metaProperty("og:image"),
		func(doc *goquery.Document) string {
			s, _ := doc.Find("figure img").First().Attr("src")
			return s
		},
		func(doc *goquery.Document) string {
			s, _ := doc.Find(`img[class*="article__image"]`).First().Attr("src")
			return s
		},
	)
	if src == "" {
		return ""
	}
	return resolveURL(src, pageURL)
}

// dateClassText scans elements classed as date or time containers for
// raw text, the last-resort datetime source.
func dateClassText(doc *goquery.Document) string {
	value := ""
	doc.Find(`[class*="date"], [class*="time"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		value = text.Clean(s.Text())
		return value == ""
	})
	return value
}

func resolveURL(href, base string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := baseURL.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
