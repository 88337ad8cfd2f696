package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/animetimes/annbot/internal/config"
	"github.com/animetimes/annbot/internal/dates"
	"github.com/animetimes/annbot/internal/ledger"
	"github.com/animetimes/annbot/internal/metrics"
	"github.com/animetimes/annbot/internal/news"
	"github.com/animetimes/annbot/internal/publish"
	"github.com/animetimes/annbot/internal/retry"
	"github.com/animetimes/annbot/internal/rss"
	"github.com/animetimes/annbot/internal/scraper"
	"github.com/animetimes/annbot/internal/telegram"
)

// Run executes one full pipeline pass: listing → freshness + dedup filter
// → detail fetch pool → sequential delivery with ledger updates.
//
// Only two things abort a run: broken configuration (caught before Run)
// and listing-fetch exhaustion. Everything per-item is contained.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	src, err := scraper.LoadSource(cfg.SourceConfigPath)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	rc := retry.RetryConfig{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}
	scr := scraper.New(src, cfg.RequestTimeout, rc)
	led := ledger.Open(cfg.LedgerPath)
	slog.Info("ledger loaded", "path", cfg.LedgerPath, "entries", led.Len())

	items, err := fetchListing(ctx, cfg, src, scr, rc)
	if err != nil {
		// Listing is the one fetch the run can't live without. The
		// ledger has not been touched at this point.
		metrics.Global.SetError(err.Error())
		return err
	}
	metrics.Global.AddCandidatesFound(len(items))

	now := time.Now().In(cfg.Location)
	fresh := selectCandidates(items, now, cfg, led)
	slog.Info("candidates selected", "found", len(items), "fresh", len(fresh))

	if len(fresh) == 0 {
		slog.Info("no new news to post")
		metrics.Global.RecordRun(time.Since(start))
		return nil
	}
	if len(fresh) > cfg.MaxNewsLimit {
		fresh = fresh[:cfg.MaxNewsLimit]
	}

	// The pool fully drains before any delivery starts; the ledger and
	// the Telegram client are only touched from this goroutine.
	enriched := scr.FetchDetails(ctx, fresh, cfg.DetailWorkers)
	for _, item := range enriched {
		if !item.HasSummary() {
			metrics.Global.IncrementDetailFailures()
		}
	}

	pub := publish.New(telegram.New(cfg.BotToken, cfg.ChatID, cfg.RequestTimeout), led, rc)

	delivered := 0
	for _, item := range enriched {
		if item.ImageURL == "" && cfg.FallbackImageURL != "" {
			item.ImageURL = cfg.FallbackImageURL
		}
		if item.ImageURL != "" && !scr.ValidateImage(ctx, item.ImageURL) {
			slog.Debug("image failed validation, posting text-only", "title", item.Title, "image", item.ImageURL)
			item.ImageURL = ""
		}

		if err := pub.Publish(ctx, item); err != nil {
			// A failed delivery drops this item only; it stays out of
			// the ledger and gets another chance next run.
			metrics.Global.IncrementDeliveryFailures()
			slog.Error("delivery failed", "title", item.Title, "error", err)
			continue
		}
		metrics.Global.IncrementDelivered()
		delivered++
	}

	metrics.Global.RecordRun(time.Since(start))
	slog.Info("run finished", "delivered", delivered, "duration", time.Since(start))
	return nil
}

// fetchListing picks the configured listing source. The RSS path gets the
// same retry treatment as the HTML path.
func fetchListing(ctx context.Context, cfg *config.Config, src *scraper.Source, scr *scraper.Scraper, rc retry.RetryConfig) ([]news.Item, error) {
	if cfg.ListingMode == "rss" {
		if src.FeedURL == "" {
			return nil, fmt.Errorf("LISTING_MODE=rss but source config has no feed_url")
		}
		var items []news.Item
		err := retry.WithRetry(ctx, rc, func() error {
			var err error
			items, err = rss.FetchListing(ctx, src.FeedURL, src.Name, cfg.RequestTimeout)
			return err
		})
		return items, err
	}
	return scr.FetchListing(ctx)
}

// selectCandidates normalizes timestamps and keeps items that are fresh
// under the configured policy and not yet in the ledger. Listing order is
// preserved; that is also the delivery order.
func selectCandidates(items []news.Item, now time.Time, cfg *config.Config, led *ledger.Ledger) []news.Item {
	var fresh []news.Item
	for _, item := range items {
		if item.Published.IsZero() {
			t, err := dates.Normalize(item.RawTime, now, cfg.Location)
			if err != nil {
				metrics.Global.IncrementUnparseableDates()
				slog.Warn("skipping item with unparseable timestamp", "title", item.Title, "raw", item.RawTime)
				continue
			}
			item.Published = t
		}

		if !dates.Fresh(item.Published, now, cfg.FreshnessPolicy, cfg.FreshnessWindow) {
			continue
		}
		if led.Contains(item.Title) {
			metrics.Global.IncrementDuplicates()
			slog.Debug("already posted, skipping", "title", item.Title)
			continue
		}

		metrics.Global.IncrementFresh()
		fresh = append(fresh, item)
	}
	return fresh
}
