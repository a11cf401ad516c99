// Package fetcher downloads a Terms & Conditions page and reduces it to
// analyzable plain text.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"tnc-backend/internal/shared/metrics"
	"tnc-backend/internal/shared/telemetry"
)

const (
	// MaxTextLen caps extracted text to protect downstream prompt size.
	MaxTextLen = 12000

	requestTimeout = 15 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Elements that never contribute analyzable content.
const noiseSelector = "script, style, nav, header, footer, meta, link, button"

// FetchError represents a failure to retrieve or parse a source document.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves pages over HTTP with a browser-like header set.
type Fetcher struct {
	client *http.Client
}

// New constructs a Fetcher with the default timeout.
func New() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: requestTimeout}}
}

// Fetch downloads the page at url, strips non-content markup and returns at
// most MaxTextLen characters of visible text. One page, one pass; no retries.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Message: "invalid request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.IncFetchFailed()
		return "", &FetchError{URL: url, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncFetchFailed()
		return "", &FetchError{URL: url, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Message: "parse HTML", Cause: err}
	}

	doc.Find(noiseSelector).Remove()

	text := normalize(visibleText(doc))
	if len(text) > MaxTextLen {
		text = text[:MaxTextLen]
	}

	telemetry.Info("fetch.complete", map[string]any{
		"url":   url,
		"chars": len(text),
	})
	return text, nil
}

// visibleText collects text nodes depth-first, newline-separated.
func visibleText(doc *goquery.Document) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Selection.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}

// normalize trims lines, splits on runs of two-or-more spaces to catch
// concatenated inline text, drops empty fragments and rejoins with newlines.
func normalize(text string) string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if trimmed := strings.TrimSpace(phrase); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
		}
	}
	return strings.Join(chunks, "\n")
}
