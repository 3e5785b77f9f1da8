// Package scrape retrieves and chunks the text content of cited sources.
// Retrieval failures are recoverable by design: a dead or unscrapable
// citation is itself evidence about the source, so callers convert
// RetrievalError into a zero-score report rather than aborting.
package scrape

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/wikibias/wikibias/internal/util"
)

// minParagraphChars filters boilerplate: only blocks with substantial
// content count as paragraphs
const minParagraphChars = 50

// RetrievalError indicates that source content could not be fetched or parsed
type RetrievalError struct {
	URL string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Config holds scraper configuration
type Config struct {
	Timeout           time.Duration
	UserAgent         string
	MaxBodyBytes      int64
	RequestsPerSecond float64
	RespectRobots     bool
	CacheTTL          time.Duration
	HTTPProxy         string
	HTTPSProxy        string
}

// Scraper fetches the text content of cited source pages
type Scraper struct {
	httpClient *http.Client
	cache      *gocache.Cache
	robots     *RobotsChecker
	limiter    *Limiter
	userAgent  string
	maxBytes   int64
	log        *zap.Logger
}

// NewScraper creates a new scraper. The cache is per-process only: a
// second run starts cold.
func NewScraper(cfg Config, log *zap.Logger) *Scraper {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes == 0 {
		maxBytes = 2_000_000
	}
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = 1.0
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}

	var robots *RobotsChecker
	if cfg.RespectRobots {
		robots = NewRobotsChecker(cfg.UserAgent, timeout)
	}

	return &Scraper{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		cache:     gocache.New(ttl, 2*ttl),
		robots:    robots,
		limiter:   NewLimiter(rps, 2),
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		log:       log,
	}
}

// Scrape fetches the page at rawURL and returns its text content as an
// ordered list of paragraph blocks. Failures return *RetrievalError.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) ([]string, error) {
	key := cacheKey(rawURL)
	if cached, found := s.cache.Get(key); found {
		var paragraphs []string
		if err := json.Unmarshal(cached.([]byte), &paragraphs); err == nil {
			return paragraphs, nil
		}
	}

	if s.robots != nil {
		allowed, crawlDelay, err := s.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, &RetrievalError{URL: rawURL, Err: fmt.Errorf("disallowed by robots.txt")}
		}
		if crawlDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, &RetrievalError{URL: rawURL, Err: ctx.Err()}
			case <-time.After(crawlDelay):
			}
		}
	}

	if err := s.limiter.Wait(ctx, rawURL); err != nil {
		return nil, &RetrievalError{URL: rawURL, Err: err}
	}

	body, err := s.fetch(ctx, rawURL)
	if err != nil {
		return nil, &RetrievalError{URL: rawURL, Err: err}
	}

	paragraphs, err := extractParagraphs(body, rawURL)
	if err != nil {
		return nil, &RetrievalError{URL: rawURL, Err: err}
	}

	if encoded, err := json.Marshal(paragraphs); err == nil {
		s.cache.Set(key, encoded, gocache.DefaultExpiration)
	}

	s.log.Debug("scraped source",
		zap.String("url", rawURL),
		zap.Int("paragraphs", len(paragraphs)))

	return paragraphs, nil
}

// fetch retrieves the raw HTML with a size cap
func (s *Scraper) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// extractParagraphs pulls substantial text blocks out of the page.
// Content-tag selection first; readability when the DOM yields too
// little; a plain text walk as a last resort.
func extractParagraphs(htmlContent, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	main := doc.Selection
	for _, sel := range []string{"main", "article", "div.content"} {
		if found := doc.Find(sel); found.Length() > 0 {
			main = found.First()
			break
		}
	}

	var paragraphs []string
	main.Find("p, div, section").Each(func(_ int, el *goquery.Selection) {
		text := strings.TrimSpace(normalizeSpace(el.Text()))
		if len(text) > minParagraphChars {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) >= 3 {
		return paragraphs, nil
	}

	// Sparse DOM extraction: let readability find the main content
	if parsed, err := url.Parse(pageURL); err == nil {
		if article, err := readability.FromReader(strings.NewReader(htmlContent), parsed); err == nil {
			for _, line := range strings.Split(article.TextContent, "\n") {
				line = strings.TrimSpace(line)
				if len(line) > minParagraphChars {
					paragraphs = append(paragraphs, line)
				}
			}
			if len(paragraphs) > 0 {
				return dedupe(paragraphs), nil
			}
		}
	}

	// Last resort: raw visible-text walk
	if node, err := html.Parse(strings.NewReader(htmlContent)); err == nil {
		for _, line := range strings.Split(visibleText(node), "\n") {
			line = strings.TrimSpace(line)
			if len(line) > minParagraphChars {
				paragraphs = append(paragraphs, line)
			}
		}
	}

	return dedupe(paragraphs), nil
}

// visibleText extracts text nodes, skipping non-content tags
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "header", "footer", "aside":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupe(paragraphs []string) []string {
	seen := make(map[string]bool, len(paragraphs))
	var out []string
	for _, p := range paragraphs {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// cacheKey generates a cache key from a URL
func cacheKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return "wikibias:v1:" + hex.EncodeToString(hash[:])
}
