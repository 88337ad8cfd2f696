package scraper

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors are the CSS queries that locate each piece of a news item.
// They live in the YAML config so a markup change on the site doesn't
// need a rebuild.
type Selectors struct {
	Item    string `yaml:"item"`    // repeated container for one listing entry
	Title   string `yaml:"title"`   // heading inside the container
	Link    string `yaml:"link"`    // anchor to the detail page
	Time    string `yaml:"time"`    // time indicator (text or datetime attr)
	Summary string `yaml:"summary"` // paragraph-like blocks on the detail page
	Image   string `yaml:"image"`   // image reference on the detail page
}

// Source describes the scraped site.
type Source struct {
	Name       string    `yaml:"name"`
	BaseURL    string    `yaml:"base_url"`
	ListingURL string    `yaml:"listing_url"`
	FeedURL    string    `yaml:"feed_url"`
	UserAgent  string    `yaml:"user_agent"`
	Selectors  Selectors `yaml:"selectors"`
}

// LoadSource reads the source description from a YAML file.
func LoadSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source config: %w", err)
	}
	defer f.Close()

	var src Source
	if err := yaml.NewDecoder(f).Decode(&src); err != nil {
		return nil, fmt.Errorf("decode source config %s: %w", path, err)
	}

	if src.ListingURL == "" {
		return nil, fmt.Errorf("source config %s: listing_url is required", path)
	}
	if src.Selectors.Item == "" || src.Selectors.Title == "" {
		return nil, fmt.Errorf("source config %s: selectors.item and selectors.title are required", path)
	}
	return &src, nil
}
