package format

import (
	"strings"
	"testing"

	"github.com/animetimes/annbot/internal/news"
)

func TestEscapeMarkdownV2(t *testing.T) {
	if got := EscapeMarkdownV2("A*B"); got != `A\*B` {
		t.Fatalf("expected A\\*B, got %q", got)
	}
	if got := EscapeMarkdownV2("a_b.c!d"); got != `a\_b\.c\!d` {
		t.Fatalf("unexpected escaping: %q", got)
	}
	if got := EscapeMarkdownV2("plain words"); got != "plain words" {
		t.Fatalf("unreserved text was changed: %q", got)
	}
}

func TestTruncateSummary(t *testing.T) {
	long := strings.Repeat("я", 250) // multi-byte runes, counted as runes
	got := TruncateSummary(long, SummaryMaxRunes)

	runes := []rune(got)
	if len(runes) != SummaryMaxRunes+3 {
		t.Fatalf("expected %d runes, got %d", SummaryMaxRunes+3, len(runes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated summary misses the ... marker: %q", got)
	}

	short := "fits fine"
	if TruncateSummary(short, SummaryMaxRunes) != short {
		t.Fatalf("short summary was modified")
	}
}

func TestRenderEscapesAndDecorates(t *testing.T) {
	msg := Render(news.Item{
		Title:    "A*B",
		Summary:  "Studio announces a new season for next year.",
		ImageURL: "https://example.com/pic.jpg",
	})

	if msg.ParseMode != ParseModeMarkdownV2 {
		t.Fatalf("expected MarkdownV2 parse mode, got %q", msg.ParseMode)
	}
	if msg.ImageURL != "https://example.com/pic.jpg" {
		t.Fatalf("image URL lost: %q", msg.ImageURL)
	}
	if !strings.Contains(msg.Text, `A\*B`) {
		t.Fatalf("title not escaped: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "✨") || !strings.Contains(msg.Text, "📖") {
		t.Fatalf("decorations missing: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, `@TheAnimeTimes\_acn`) {
		t.Fatalf("attribution not escaped: %q", msg.Text)
	}
}

func TestRenderOmitsPlaceholderSummary(t *testing.T) {
	msg := Render(news.Item{
		Title:   "Short News",
		Summary: news.PlaceholderSummary,
	})

	if strings.Contains(msg.Text, "📖") {
		t.Fatalf("placeholder summary should be omitted, got %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "Short News") {
		t.Fatalf("title missing: %q", msg.Text)
	}
}

func TestRenderPlainDropsMarkupAndImage(t *testing.T) {
	msg := RenderPlain(news.Item{
		Title:    "A*B",
		Summary:  "Some summary with _underscores_.",
		ImageURL: "https://example.com/pic.jpg",
	})

	if msg.ParseMode != "" {
		t.Fatalf("plain render must not set a parse mode, got %q", msg.ParseMode)
	}
	if msg.ImageURL != "" {
		t.Fatalf("plain render must drop the image, got %q", msg.ImageURL)
	}
	if strings.Contains(msg.Text, `\`) {
		t.Fatalf("plain render must not escape, got %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "A*B") {
		t.Fatalf("raw title missing: %q", msg.Text)
	}
}

func TestRenderTruncatesLongSummary(t *testing.T) {
	msg := RenderPlain(news.Item{
		Title:   "Long One",
		Summary: strings.Repeat("a", 500),
	})

	if !strings.Contains(msg.Text, strings.Repeat("a", SummaryMaxRunes)+"...") {
		t.Fatalf("summary was not truncated to %d + marker", SummaryMaxRunes)
	}
	if strings.Contains(msg.Text, strings.Repeat("a", SummaryMaxRunes+1)) {
		t.Fatalf("summary exceeds the cap")
	}
}
