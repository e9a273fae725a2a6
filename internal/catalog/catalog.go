// Package catalog holds the static verse corpus used for the daily verse,
// verse lookup and local search.
package catalog

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed verses.yaml
var versesYAML []byte

type Entry struct {
	ID          int    `yaml:"id" json:"id"`
	Reference   string `yaml:"reference" json:"reference"`
	Text        string `yaml:"text" json:"text"`
	Translation string `yaml:"translation" json:"translation"`
}

// VerseID is the identifier a catalog entry carries once it becomes the
// daily verse: its numeric id in decimal.
func (e Entry) VerseID() string {
	return strconv.Itoa(e.ID)
}

// Catalog is an immutable ordered list of entries, addressable by position
// and by numeric id.
type Catalog struct {
	entries []Entry
	byID    map[int]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded data is
// malformed, which can only happen with a broken build.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(versesYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded verses: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a catalog from a YAML list of entries.
func Parse(data []byte) (*Catalog, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(entries)
}

// New builds a catalog from entries. Ids must be unique.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byID:    make(map[int]int, len(entries)),
	}
	copy(c.entries, entries)

	for i, e := range c.entries {
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %d", e.ID)
		}
		c.byID[e.ID] = i
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func (c *Catalog) At(i int) (Entry, bool) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) ByID(id int) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// All returns a copy of every entry in catalog order.
func (c *Catalog) All() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Random picks an entry uniformly from [0, Len()). The catalog must not be
// empty.
func (c *Catalog) Random(r *rand.Rand) Entry {
	if r == nil {
		return c.entries[rand.IntN(len(c.entries))]
	}
	return c.entries[r.IntN(len(c.entries))]
}

// Search returns the entries whose text or reference contains query,
// ignoring case.
func (c *Catalog) Search(query string) []Entry {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	q := strings.ToLower(query)
	var results []Entry
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Text), q) ||
			strings.Contains(strings.ToLower(e.Reference), q) {
			results = append(results, e)
		}
	}
	return results
}
