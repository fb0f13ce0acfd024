package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

var ErrPageFetch = errors.New("failed to fetch main page")

var spreadsheetExtensions = []string{".xlsx", ".xls"}
var downloadExtensions = []string{".xlsx", ".xls", ".zip"}
var downloadLinkHints = []string{"download", "result"}

// DownloadLink is a results file announced on the auction page.
type DownloadLink struct {
	URL      string
	Filename string
}

type FetchConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// RequestDelay is the minimum spacing between two downloads.
	RequestDelay time.Duration
}

// FetchService reads the auction results page and the files it links to.
type FetchService struct {
	client    *http.Client
	baseURL   *url.URL
	userAgent string
	limiter   *rate.Limiter
}

// NewFetchService builds a fetcher for cfg.BaseURL. When client is nil a
// client with cfg.Timeout is used.
func NewFetchService(client *http.Client, cfg FetchConfig) (*FetchService, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if cfg.RequestDelay < 0 {
		return nil, errors.New("request delay is negative")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", cfg.BaseURL)
	}

	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)
	}

	return &FetchService{
		client:    client,
		baseURL:   base,
		userAgent: cfg.UserAgent,
		limiter:   limiter,
	}, nil
}

// FetchPage returns the HTML of the auction results page.
func (s *FetchService) FetchPage(ctx context.Context) (string, error) {
	if s == nil {
		return "", errors.New("fetch service is nil")
	}

	body, err := s.get(ctx, s.baseURL.String())
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Download returns the content at rawURL. Calls are spaced by the configured
// request delay.
func (s *FetchService) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("fetch service is nil")
	}
	if rawURL == "" {
		return nil, errors.New("url is empty")
	}
	if s.limiter == nil {
		return nil, errors.New("rate limiter is nil")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for download slot: %w", err)
	}

	return s.get(ctx, rawURL)
}

func (s *FetchService) get(ctx context.Context, rawURL string) ([]byte, error) {
	if s.client == nil {
		return nil, errors.New("http client is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request url=%s: %w", rawURL, err)
	}

	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("request url=%s: unexpected status %d", rawURL, resp.StatusCode)
	}
	if readErr != nil {
		return nil, fmt.Errorf("read response: %w", readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close response: %w", closeErr)
	}

	return body, nil
}

// FindDownloadLinks lists the result files linked from rawHTML, in page
// order. An anchor qualifies when its path ends in a spreadsheet extension,
// or when its text mentions a download or results and its path ends in a
// spreadsheet or zip extension. Each URL is reported once.
func (s *FetchService) FindDownloadLinks(rawHTML string) ([]DownloadLink, error) {
	if s == nil {
		return nil, errors.New("fetch service is nil")
	}
	if strings.TrimSpace(rawHTML) == "" {
		return []DownloadLink{}, nil
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	links := []DownloadLink{}
	seen := map[string]bool{}

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			if link, ok := s.downloadLink(node); ok && !seen[link.URL] {
				seen[link.URL] = true
				links = append(links, link)
			}
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return links, nil
}

func (s *FetchService) downloadLink(anchor *html.Node) (DownloadLink, bool) {
	href, ok := attribute(anchor, "href")
	if !ok || strings.TrimSpace(href) == "" {
		return DownloadLink{}, false
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return DownloadLink{}, false
	}

	target := strings.ToLower(ref.Path)
	switch {
	case hasAnySuffix(target, spreadsheetExtensions):
	case containsAny(strings.ToLower(nodeText(anchor)), downloadLinkHints) && hasAnySuffix(target, downloadExtensions):
	default:
		return DownloadLink{}, false
	}

	resolved := s.baseURL.ResolveReference(ref)

	return DownloadLink{URL: resolved.String(), Filename: path.Base(resolved.Path)}, true
}

func attribute(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

func nodeText(node *html.Node) string {
	var builder strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return strings.TrimSpace(builder.String())
}

func hasAnySuffix(value string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(value, suffix) {
			return true
		}
	}
	return false
}

func containsAny(value string, parts []string) bool {
	for _, part := range parts {
		if strings.Contains(value, part) {
			return true
		}
	}
	return false
}
