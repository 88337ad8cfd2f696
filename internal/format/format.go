package format

import (
	"strings"

	"github.com/animetimes/annbot/internal/news"
)

// ParseModeMarkdownV2 is the Telegram parse_mode the rich layout targets.
const ParseModeMarkdownV2 = "MarkdownV2"

// Attribution is the fixed branding line appended to every post.
const Attribution = "Powered by: @TheAnimeTimes_acn"

// SummaryMaxRunes caps the summary before the "..." marker.
const SummaryMaxRunes = 200

// Characters Telegram requires escaped inside MarkdownV2 text.
const markdownV2Reserved = "_*[]()~`>#+-=|{}.!\\"

// Message is an outbound Telegram post, ready for the delivery client.
type Message struct {
	Text      string
	ParseMode string
	ImageURL  string
}

// EscapeMarkdownV2 prefixes every reserved MarkdownV2 character with a
// backslash. Pure string transform, no Telegram calls.
func EscapeMarkdownV2(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownV2Reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TruncateSummary cuts s down to max runes and appends "...". Truncation
// happens on the raw text, before any escaping, so an escape sequence can
// never be split.
func TruncateSummary(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Render builds the rich MarkdownV2 message for an item: decorated title,
// decorated summary (skipped when it's just the placeholder), attribution.
func Render(item news.Item) Message {
	var b strings.Builder

	b.WriteString("✨ " + EscapeMarkdownV2(item.Title) + " ✨")

	if item.HasSummary() {
		summary := TruncateSummary(item.Summary, SummaryMaxRunes)
		b.WriteString("\n\n📖 " + EscapeMarkdownV2(summary) + " 📖")
	}

	b.WriteString("\n\n🌟 " + EscapeMarkdownV2(Attribution) + " 🌟")

	return Message{
		Text:      b.String(),
		ParseMode: ParseModeMarkdownV2,
		ImageURL:  item.ImageURL,
	}
}

// RenderPlain builds the degraded fallback: same layout, no escaping, no
// parse mode, no image. Used when Telegram rejects the rich variant.
func RenderPlain(item news.Item) Message {
	var b strings.Builder

	b.WriteString("✨ " + item.Title + " ✨")

	if item.HasSummary() {
		b.WriteString("\n\n📖 " + TruncateSummary(item.Summary, SummaryMaxRunes) + " 📖")
	}

	b.WriteString("\n\n🌟 " + Attribution + " 🌟")

	return Message{Text: b.String()}
}
