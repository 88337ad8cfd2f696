package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Ledger is the durable set of already-posted titles. A missing or corrupt
// backing file is treated as an empty ledger, never as a fatal error.
type Ledger struct {
	path   string
	titles map[string]struct{}
	mu     sync.Mutex
}

// Open loads the ledger from path, tolerating absence and corruption.
func Open(path string) *Ledger {
	l := &Ledger{
		path:   path,
		titles: make(map[string]struct{}),
	}
	l.load()
	return l
}

func (l *Ledger) load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("can't read ledger file, starting empty", "path", l.path, "error", err)
		}
		return
	}
	if len(data) == 0 {
		return
	}

	var titles []string
	if err := json.Unmarshal(data, &titles); err == nil {
		for _, t := range titles {
			l.titles[t] = struct{}{}
		}
		return
	}

	// Older runs stored a {"title": true} object; accept that too.
	var legacy map[string]bool
	if err := json.Unmarshal(data, &legacy); err == nil {
		for t := range legacy {
			l.titles[t] = struct{}{}
		}
		return
	}

	slog.Warn("ledger file is corrupt, starting empty", "path", l.path)
}

// Contains reports whether title was already posted.
func (l *Ledger) Contains(title string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.titles[title]
	return ok
}

// Add records title and persists the ledger before returning, so a crash
// right after a successful post can't repost the same item.
func (l *Ledger) Add(title string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.titles[title] = struct{}{}
	return l.save()
}

// Len returns the number of recorded titles.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.titles)
}

// save writes the full set atomically: temp file in the same directory,
// then rename over the old one.
func (l *Ledger) save() error {
	titles := make([]string, 0, len(l.titles))
	for t := range l.titles {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	data, err := json.MarshalIndent(titles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close ledger temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
