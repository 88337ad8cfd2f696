package rss

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/animetimes/annbot/internal/news"
)

// FetchListing reads candidates from the site's RSS feed instead of the
// HTML listing page. Feed entries carry an absolute publish time, so the
// normalizer's ISO path handles them without year repair.
func FetchListing(ctx context.Context, feedURL, sourceName string, timeout time.Duration) ([]news.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]news.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		title := news.NormalizeTitle(entry.Title)
		if title == "" {
			continue
		}

		item := news.Item{
			Title:   title,
			Link:    entry.Link,
			RawTime: entry.Published,
			Source:  sourceName,
		}
		if entry.PublishedParsed != nil {
			item.Published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			item.Published = *entry.UpdatedParsed
		}

		items = append(items, item)
	}

	return items, nil
}
