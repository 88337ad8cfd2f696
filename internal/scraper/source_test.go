package scraper

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.yaml")
	content := `
name: testsite
base_url: https://example.com
listing_url: https://example.com/news/
feed_url: https://example.com/rss.xml
selectors:
  item: "div.news-item"
  title: "h3"
  link: "h3 a"
  time: "time"
  summary: "article p"
  image: "img.thumbnail"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	src, err := LoadSource(path)
	if err != nil {
		t.Fatalf("LoadSource error: %v", err)
	}
	if src.Name != "testsite" || src.ListingURL != "https://example.com/news/" {
		t.Fatalf("unexpected source: %+v", src)
	}
	if src.Selectors.Item != "div.news-item" || src.Selectors.Title != "h3" {
		t.Fatalf("unexpected selectors: %+v", src.Selectors)
	}
}

func TestLoadSourceMissingSelectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.yaml")
	content := `
name: testsite
listing_url: https://example.com/news/
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadSource(path); err == nil {
		t.Fatalf("expected error for missing selectors")
	}
}

func TestLoadSourceMissingFile(t *testing.T) {
	if _, err := LoadSource(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
