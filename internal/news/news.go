package news

import (
	"strings"
	"time"
)

// PlaceholderSummary is used when no summary could be extracted from the
// detail page. Items carrying it are posted title-only.
const PlaceholderSummary = "No summary available for this article. 📜"

// Item is one news entry discovered on the listing page. Title acts as the
// dedup key; RawTime is whatever timestamp text the source gave us and
// Published is its resolved form (zero until normalization).
type Item struct {
	Title     string
	Link      string
	RawTime   string
	Published time.Time
	ImageURL  string
	Summary   string
	Source    string
}

// HasSummary reports whether the item carries real extracted content
// rather than the placeholder.
func (it Item) HasSummary() bool {
	return it.Summary != "" && it.Summary != PlaceholderSummary
}

// NormalizeTitle collapses runs of whitespace so that the same headline
// scraped twice maps to the same ledger entry.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}
