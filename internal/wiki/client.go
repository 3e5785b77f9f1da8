// Package wiki fetches article content from the Wikimedia REST API and
// extracts prose paragraphs with inline citation markers preserved,
// together with the article's reference list.
package wiki

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/wikibias/wikibias/internal/model"
)

// Config holds the Wikipedia client configuration
type Config struct {
	BaseURL   string // Wikimedia REST API root, e.g. https://en.wikipedia.org/api/rest_v1
	UserAgent string
	Timeout   time.Duration
}

// Client retrieves Wikipedia article HTML
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a Wikipedia client
func NewClient(cfg Config, log *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org/api/rest_v1"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// GetTextAndRefs fetches the article and returns its prose paragraphs,
// with inline citation markers flattened to plain text, and its
// reference list
func (c *Client) GetTextAndRefs(ctx context.Context, title string) ([]string, []model.Reference, error) {
	endpoint := fmt.Sprintf("%s/page/html/%s", c.baseURL, url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch article %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("fetch article %q: status %d: %s", title, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse article %q: %w", title, err)
	}

	main := doc.Find("main")
	if main.Length() == 0 {
		main = doc.Selection
	}

	// Drop non-prose containers
	for _, sel := range []string{
		"table",
		"figure",
		"aside",
		"div.hatnote",
		"div.navbox",
		"div.sidebar",
		"table.infobox",
		"table.metadata",
	} {
		main.Find(sel).Remove()
	}

	// Flatten inline ref markers to their text so paragraphs keep [1]-style
	// markers that downstream claim parsing can see
	main.Find("sup.reference").Each(func(_ int, sup *goquery.Selection) {
		sup.ReplaceWithHtml(html.EscapeString(strings.TrimSpace(sup.Text())))
	})

	paragraphs := extractArticleParagraphs(main)
	refs := extractReferences(main)

	c.log.Debug("article fetched",
		zap.String("title", title),
		zap.Int("paragraphs", len(paragraphs)),
		zap.Int("refs", len(refs)))

	return paragraphs, refs, nil
}

// extractArticleParagraphs walks the sectioned Parsoid output; when the
// page has no section elements it falls back to legacy parser output
func extractArticleParagraphs(main *goquery.Selection) []string {
	var paragraphs []string

	add := func(_ int, p *goquery.Selection) {
		if text := normalizeSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	sections := main.Find("section[data-mw-section-id]")
	if sections.Length() > 0 {
		sections.Each(func(_ int, sec *goquery.Selection) {
			sec.ChildrenFiltered("p").Each(add)
		})
		return paragraphs
	}

	main.Find(".mw-parser-output > p").Each(add)
	return paragraphs
}

// extractReferences reads the article's reference list. Keys come from
// the footnote-number attribute and stay strings: lettered footnotes are
// valid citation targets.
func extractReferences(main *goquery.Selection) []model.Reference {
	var refs []model.Reference

	main.Find("ol.references > li").Each(func(_ int, li *goquery.Selection) {
		id, ok := li.Attr("id")
		if !ok || !strings.HasPrefix(id, "cite_note-") {
			return
		}

		key, ok := li.Attr("data-mw-footnote-number")
		if !ok || key == "" {
			return
		}

		kind := model.RefKindNote
		if isNumeric(key) {
			kind = model.RefKindReference
		}

		textNode := li.Find("span.reference-text").First()
		if textNode.Length() == 0 {
			textNode = li
		}

		refs = append(refs, model.Reference{
			Key:  key,
			Text: normalizeSpace(textNode.Text()),
			URL:  externalURL(li),
			Kind: kind,
		})
	})

	return refs
}

// externalURL finds the citation's external link: the first http anchor
// that does not point back into Wikipedia, preferring anchors inside the
// cite element over the rest of the entry
func externalURL(li *goquery.Selection) string {
	if cite := li.Find("cite").First(); cite.Length() > 0 {
		if href := firstExternalHref(cite); href != "" {
			return href
		}
	}
	return firstExternalHref(li)
}

func firstExternalHref(s *goquery.Selection) string {
	var found string
	s.Find(`a[href^="http"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if ok && !strings.Contains(href, "wikipedia.org") {
			found = href
			return false
		}
		return true
	})
	return found
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
