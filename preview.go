package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
}

type cacheState int

const (
	cachePending cacheState = iota
	cacheResolved
)

// PreviewCache holds link previews keyed by URL. Entries are pending while a
// fetch is in flight, which stops duplicate fetches for the same URL. Only
// the event loop touches it.
type PreviewCache struct {
	entries map[string]*previewEntry
}

type previewEntry struct {
	state   cacheState
	preview LinkPreview
}

func NewPreviewCache() *PreviewCache {
	return &PreviewCache{entries: map[string]*previewEntry{}}
}

func (c *PreviewCache) Get(url string) (LinkPreview, bool) {
	e, ok := c.entries[url]
	if !ok || e.state != cacheResolved {
		return LinkPreview{}, false
	}
	return e.preview, true
}

func (c *PreviewCache) Known(url string) bool {
	_, ok := c.entries[url]
	return ok
}

func (c *PreviewCache) MarkPending(url string) {
	c.entries[url] = &previewEntry{state: cachePending}
}

func (c *PreviewCache) Resolve(url string, p LinkPreview) {
	c.entries[url] = &previewEntry{state: cacheResolved, preview: p}
}

// Forget drops a pending entry so a failed fetch can be retried later.
func (c *PreviewCache) Forget(url string) {
	delete(c.entries, url)
}

var previewClient = &http.Client{Timeout: 10 * time.Second}

// fetchLinkPreview grabs Open Graph metadata for a URL, best effort. Local
// (non-HTTP) targets are answered without a request.
func fetchLinkPreview(rawURL string) (LinkPreview, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return LinkPreview{URL: rawURL, Title: rawURL, SiteName: "Local File"}, nil
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return LinkPreview{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := previewClient.Do(req)
	if err != nil {
		return LinkPreview{}, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return LinkPreview{}, err
	}
	return parseLinkPreview(doc, rawURL), nil
}

func parseLinkPreview(doc *html.Node, pageURL string) LinkPreview {
	meta := map[string]string{}
	var title string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				if content := attr(n, "content"); key != "" && content != "" {
					if _, seen := meta[key]; !seen {
						meta[key] = content
					}
				}
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p := LinkPreview{URL: pageURL}
	p.Title = firstOf(meta["og:title"], title)
	p.Description = firstOf(meta["og:description"], meta["description"])
	p.Image = firstOf(meta["og:image"], meta["twitter:image"])
	p.SiteName = meta["og:site_name"]

	// Resolve a relative preview image against the page URL.
	if strings.HasPrefix(p.Image, "/") {
		if base, err := url.Parse(pageURL); err == nil {
			if ref, err := url.Parse(p.Image); err == nil {
				p.Image = base.ResolveReference(ref).String()
			}
		}
	}
	return p
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// MarkdownCache holds the contents of local markdown files referenced by
// link nodes, with the same pending/resolved discipline as PreviewCache.
type MarkdownCache struct {
	entries map[string]*mdEntry
}

type mdEntry struct {
	state   cacheState
	content string
}

func NewMarkdownCache() *MarkdownCache {
	return &MarkdownCache{entries: map[string]*mdEntry{}}
}

func (c *MarkdownCache) Get(path string) (string, bool) {
	e, ok := c.entries[path]
	if !ok || e.state != cacheResolved {
		return "", false
	}
	return e.content, true
}

func (c *MarkdownCache) Known(path string) bool {
	_, ok := c.entries[path]
	return ok
}

func (c *MarkdownCache) MarkPending(path string) {
	c.entries[path] = &mdEntry{state: cachePending}
}

func (c *MarkdownCache) Resolve(path, content string) {
	c.entries[path] = &mdEntry{state: cacheResolved, content: content}
}

func (c *MarkdownCache) Forget(path string) {
	delete(c.entries, path)
}
