package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/animetimes/annbot/internal/news"
	"github.com/animetimes/annbot/internal/retry"
)

// Scraper fetches the listing page and per-item detail pages.
type Scraper struct {
	src    *Source
	client *http.Client
	retry  retry.RetryConfig
}

// New builds a scraper around one source description.
func New(src *Source, timeout time.Duration, rc retry.RetryConfig) *Scraper {
	return &Scraper{
		src:    src,
		client: &http.Client{Timeout: timeout},
		retry:  rc,
	}
}

// FetchListing downloads the listing page and extracts candidate items
// (title, link, raw timestamp). The whole fetch is retried with backoff;
// if every attempt fails the error is returned and the run must abort.
// A candidate missing its title or timestamp is skipped, not fatal.
func (s *Scraper) FetchListing(ctx context.Context) ([]news.Item, error) {
	var doc *goquery.Document

	err := retry.WithRetry(ctx, s.retry, func() error {
		var err error
		doc, err = s.fetchDocument(ctx, s.src.ListingURL)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", s.src.ListingURL, err)
	}

	var items []news.Item
	doc.Find(s.src.Selectors.Item).Each(func(i int, block *goquery.Selection) {
		item, ok := s.extractCandidate(block)
		if !ok {
			slog.Debug("skipping listing block without title or timestamp", "index", i)
			return
		}
		items = append(items, item)
	})

	slog.Info("listing parsed", "source", s.src.Name, "candidates", len(items))
	return items, nil
}

// extractCandidate pulls title, detail link and raw timestamp from one
// listing block.
func (s *Scraper) extractCandidate(block *goquery.Selection) (news.Item, bool) {
	title := news.NormalizeTitle(block.Find(s.src.Selectors.Title).First().Text())
	if title == "" {
		return news.Item{}, false
	}

	rawTime := s.extractRawTime(block)
	if rawTime == "" {
		return news.Item{}, false
	}

	link := ""
	anchor := block.Find(s.src.Selectors.Link).First()
	if href, ok := anchor.Attr("href"); ok {
		link = s.resolveURL(href)
	}

	return news.Item{
		Title:   title,
		Link:    link,
		RawTime: rawTime,
		Source:  s.src.Name,
	}, true
}

// extractRawTime prefers a machine-readable datetime attribute, falling
// back to the element's visible text.
func (s *Scraper) extractRawTime(block *goquery.Selection) string {
	el := block.Find(s.src.Selectors.Time).First()
	if dt, ok := el.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return strings.TrimSpace(el.Text())
}

// FetchDetails enriches items with summary and image from their detail
// pages using a bounded worker pool. A failed detail fetch degrades that
// one item to the placeholder summary; siblings are unaffected.
func (s *Scraper) FetchDetails(ctx context.Context, items []news.Item, workers int) []news.Item {
	if workers < 1 {
		workers = 1
	}

	out := make([]news.Item, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = s.fetchDetail(ctx, items[i])
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

// fetchDetail fills in ImageURL and Summary for one item. Never fails:
// the worst case is placeholder summary and no image.
func (s *Scraper) fetchDetail(ctx context.Context, item news.Item) news.Item {
	item.Summary = news.PlaceholderSummary

	if item.Link == "" {
		return item
	}

	var doc *goquery.Document
	err := retry.WithRetry(ctx, s.retry, func() error {
		var err error
		doc, err = s.fetchDocument(ctx, item.Link)
		return err
	})
	if err != nil {
		slog.Warn("detail fetch failed, posting without summary", "title", item.Title, "error", err)
		return item
	}

	if summary := s.extractSummary(doc); summary != "" {
		item.Summary = summary
	}
	item.ImageURL = s.extractImage(doc)

	return item
}

// extractSummary returns the first meaningful paragraph of the article.
// Boilerplate like archive links and one-liners under 20 chars are passed
// over, same as the old bot did.
func (s *Scraper) extractSummary(doc *goquery.Document) string {
	var summary string
	doc.Find(s.src.Selectors.Summary).EachWithBreak(func(i int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if len(text) <= 20 || strings.Contains(strings.ToLower(text), "see the archives") {
			return true
		}
		summary = text
		return false
	})
	return summary
}

// extractImage returns an absolute image URL, or "" if the page has none.
// Handles both <img src=...> and <meta content=...> style references.
func (s *Scraper) extractImage(doc *goquery.Document) string {
	el := doc.Find(s.src.Selectors.Image).First()

	ref, ok := el.Attr("src")
	if !ok {
		ref, ok = el.Attr("content")
	}
	if !ok || strings.TrimSpace(ref) == "" {
		return ""
	}
	return s.resolveURL(strings.TrimSpace(ref))
}

// ValidateImage probes the image URL with a HEAD request right before it
// is used. Anything other than a 200 with an image content type drops the
// image and the post goes out text-only.
func (s *Scraper) ValidateImage(ctx context.Context, imageURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return false
	}
	if s.src.UserAgent != "" {
		req.Header.Set("User-Agent", s.src.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s.src.UserAgent != "" {
		req.Header.Set("User-Agent", s.src.UserAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// resolveURL makes relative references absolute against the source base.
func (s *Scraper) resolveURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	base, err := url.Parse(s.src.BaseURL)
	if err != nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
