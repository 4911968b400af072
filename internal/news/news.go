package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cognicore/wordchart/pkg/wordchart/decode"
	"github.com/cognicore/wordchart/pkg/wordchart/fetch"
	"github.com/cognicore/wordchart/pkg/wordchart/logger"
)

// Selectors locate list items and article bodies.
type Selectors struct {
	Item    string
	Title   string
	Content string
}

// DefaultSelectors match the list and article markup of the news portal the extractor was written for.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:    "div.box.clearfix",
		Title:   "p.title a",
		Content: "div.wzZW p",
	}
}

const (
	untitled  = "untitled"
	noContent = "no content"
)

// Article is one extracted news item.
type Article struct {
	Title   string
	URL     string
	Content string
}

// Extractor walks a news list page and pulls the body of each linked article.
type Extractor struct {
	fetcher   fetch.Fetcher
	decoder   *decode.Decoder
	selectors Selectors
	max       int
	log       logger.Logger
}

// NewExtractor creates an Extractor. max <= 0 extracts every item.
func NewExtractor(f fetch.Fetcher, sel Selectors, max int, log logger.Logger) *Extractor {
	if f == nil {
		f = fetch.NewHTTPFetcher()
	}
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Extractor{
		fetcher:   f,
		decoder:   decode.New(nil),
		selectors: sel,
		max:       max,
		log:       log,
	}
}

type listItem struct {
	title string
	link  string
}

// Run fetches listURL and walks its items in order until max articles have
// been extracted (max <= 0 means all). A failed list fetch is an error; a
// failed article fetch is logged and skipped and does not count toward max.
func (e *Extractor) Run(ctx context.Context, listURL string) ([]Article, error) {
	base, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("parse list url: %w", err)
	}

	doc, err := e.load(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("load list page: %w", err)
	}

	var items []listItem
	doc.Find(e.selectors.Item).Each(func(_ int, s *goquery.Selection) {
		a := s.Find(e.selectors.Title).First()
		title := strings.TrimSpace(a.Text())
		if title == "" {
			title = untitled
		}
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			href = "#"
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			e.log.Warn("skipping item with bad link", "title", title, "href", href)
			return
		}
		items = append(items, listItem{title: title, link: base.ResolveReference(ref).String()})
	})

	var articles []Article
	for _, it := range items {
		if e.max > 0 && len(articles) >= e.max {
			break
		}
		if err := ctx.Err(); err != nil {
			return articles, err
		}
		page, err := e.load(ctx, it.link)
		if err != nil {
			e.log.Warn("article fetch failed", "url", it.link, "err", err)
			continue
		}
		content := strings.TrimSpace(page.Find(e.selectors.Content).First().Text())
		if content == "" {
			content = noContent
		}
		articles = append(articles, Article{Title: it.title, URL: it.link, Content: content})
		e.log.Info("article extracted", "title", it.title, "url", it.link)
	}
	return articles, nil
}

func (e *Extractor) load(ctx context.Context, u string) (*goquery.Document, error) {
	raw, err := e.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	if !raw.OK {
		return nil, fmt.Errorf("fetch %s: status %d", u, raw.StatusCode)
	}
	text := e.decoder.Decode(raw.Body)
	return goquery.NewDocumentFromReader(bytes.NewReader([]byte(text.Text)))
}

// Save writes each article to dir as "<title>.txt" and returns the paths written.
func Save(dir string, articles []Article) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	used := make(map[string]bool)
	var paths []string
	for _, a := range articles {
		base := FileName(a.Title)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true

		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FileName makes a title safe to use as a file name.
func FileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, ". ")
	if name == "" {
		return untitled
	}
	return name
}
