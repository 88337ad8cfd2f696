package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/animetimes/annbot/internal/format"
	"github.com/animetimes/annbot/internal/metrics"
	"github.com/animetimes/annbot/internal/news"
	"github.com/animetimes/annbot/internal/retry"
	"github.com/animetimes/annbot/internal/telegram"
)

// Ledger is what the publisher needs from the dedup ledger.
type Ledger interface {
	Add(title string) error
}

// Publisher delivers one item to Telegram, degrading the formatting when
// the endpoint rejects it, and records the title in the ledger on success.
type Publisher struct {
	client *telegram.Client
	ledger Ledger
	retry  retry.RetryConfig
}

func New(client *telegram.Client, ledger Ledger, rc retry.RetryConfig) *Publisher {
	// Transport hiccups are retried; a rejected payload is not — it goes
	// to the next formatting strategy instead.
	rc.Retryable = func(err error) bool { return !telegram.IsRejection(err) }
	return &Publisher{client: client, ledger: ledger, retry: rc}
}

// strategy is one way of shaping the outbound message plus the send call.
type strategy struct {
	name string
	send func(ctx context.Context) error
}

// Publish runs the formatting strategies in order until one goes through:
// first the rich variant (photo with caption when an image survived
// validation, MarkdownV2 text otherwise), then raw text with no markup
// and no image. The ledger is written exactly once, only on success.
func (p *Publisher) Publish(ctx context.Context, item news.Item) error {
	rich := format.Render(item)
	plain := format.RenderPlain(item)

	strategies := []strategy{
		{name: "rich", send: func(ctx context.Context) error {
			if rich.ImageURL != "" {
				return p.client.SendPhoto(ctx, rich.ImageURL, rich.Text, rich.ParseMode)
			}
			return p.client.SendMessage(ctx, rich.Text, rich.ParseMode)
		}},
		{name: "plain", send: func(ctx context.Context) error {
			return p.client.SendMessage(ctx, plain.Text, plain.ParseMode)
		}},
	}

	var lastErr error
	for i, s := range strategies {
		err := retry.WithRetry(ctx, p.retry, func() error {
			return s.send(ctx)
		})
		if err == nil {
			if i > 0 {
				metrics.Global.IncrementFallbacks()
			}
			p.markDelivered(item.Title)
			slog.Info("item delivered", "title", item.Title, "strategy", s.name)
			return nil
		}

		lastErr = err
		if telegram.IsRejection(err) {
			slog.Warn("telegram rejected message, degrading format", "title", item.Title, "strategy", s.name, "error", err)
		} else {
			slog.Warn("delivery attempts exhausted, degrading format", "title", item.Title, "strategy", s.name, "error", err)
		}
	}

	return fmt.Errorf("all delivery strategies failed for %q: %w", item.Title, lastErr)
}

// markDelivered records the title. A ledger write failure doesn't undo the
// delivery — the post is already out — so it's logged and swallowed.
func (p *Publisher) markDelivered(title string) {
	if err := p.ledger.Add(title); err != nil {
		slog.Error("can't persist ledger entry, item may repost next run", "title", title, "error", err)
	}
}
