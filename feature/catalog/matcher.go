package catalog

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultThreshold is the minimum fuzzy similarity used when none is configured.
const DefaultThreshold = 0.6

// Match is the outcome of a detection.
type Match struct {
	// Text is the canonical product name that matched, or the input for Other.
	Text string `json:"text"`
	// Category is the category tag, or "Other".
	Category string `json:"category"`
	// Score is 1 for an exact match, otherwise the similarity of the best candidate.
	Score float64 `json:"score"`
}

type memoEntry struct {
	match Match
	ok    bool
}

type candidate struct {
	name       string
	normalized string
	category   string
}

// Matcher maps free text to a product category. It is safe for concurrent use.
type Matcher struct {
	locales    []Locale
	threshold  float64
	candidates []candidate
	exact      map[string]int
	categories []string
	// memo caches results by normalized input; nil when disabled.
	memo *lru.Cache[string, memoEntry]
}

// NewMatcher builds a matcher over table for the configured locales.
func NewMatcher(table *Table, cfg Config) (*Matcher, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidTable)
	}

	codes := cfg.Locales
	if len(codes) == 0 {
		codes = table.Locales
	}
	locales, err := LookupLocales(codes)
	if err != nil {
		return nil, err
	}

	threshold := cfg.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	m := &Matcher{
		locales:    locales,
		threshold:  threshold,
		exact:      make(map[string]int),
		categories: append([]string(nil), table.Categories...),
	}
	if cfg.MemoSize > 0 {
		if m.memo, err = lru.New[string, memoEntry](cfg.MemoSize); err != nil {
			return nil, fmt.Errorf("failed to create detection memo: %w", err)
		}
	}

	for _, p := range table.Products {
		for _, loc := range locales {
			for _, name := range p.Names[loc.Code] {
				n := Normalize(locales, name)
				if n == "" {
					continue
				}
				if _, seen := m.exact[n]; !seen {
					m.exact[n] = len(m.candidates)
				}
				m.candidates = append(m.candidates, candidate{name: name, normalized: n, category: p.Category})
			}
		}
	}

	if len(m.candidates) == 0 {
		return nil, fmt.Errorf("%w: no names for locales %v", ErrInvalidTable, codes)
	}

	return m, nil
}

// Threshold returns the effective acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Categories returns the known category tags in table order.
func (m *Matcher) Categories() []string {
	return append([]string(nil), m.categories...)
}

// Size returns the number of names the matcher compares against.
func (m *Matcher) Size() int {
	return len(m.candidates)
}

// Detect returns the best matching product for input, if any is close enough.
// Empty or whitespace-only input never matches.
func (m *Matcher) Detect(input string) (Match, bool) {
	key := Normalize(m.locales, input)
	if key == "" {
		return Match{}, false
	}

	if m.memo == nil {
		return m.detect(key)
	}
	if e, ok := m.memo.Get(key); ok {
		return e.match, e.ok
	}

	match, ok := m.detect(key)
	m.memo.Add(key, memoEntry{match: match, ok: ok})
	return match, ok
}

func (m *Matcher) detect(key string) (Match, bool) {
	// Exact pass
	if i, ok := m.exact[key]; ok {
		c := m.candidates[i]
		return Match{Text: c.name, Category: c.category, Score: 1}, true
	}

	// Fuzzy pass; the first candidate at the best score wins
	keyLen := len([]rune(key))
	best := -1
	bestScore := 0.0
	for i, c := range m.candidates {
		nameLen := len([]rune(c.normalized))
		if best >= 0 && lengthBound(keyLen, nameLen) <= bestScore {
			continue
		}
		score := Similarity(key, c.normalized)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 || bestScore < m.threshold {
		return Match{}, false
	}

	c := m.candidates[best]
	return Match{Text: c.name, Category: c.category, Score: bestScore}, true
}

// lengthBound is the highest similarity two strings of these lengths can reach.
func lengthBound(a, b int) float64 {
	longest := max(a, b)
	if longest == 0 {
		return 1
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(longest)
}

// Categorize is Detect with the Other fallback.
func (m *Matcher) Categorize(input string) Match {
	if match, ok := m.Detect(input); ok {
		return match
	}
	return Match{Text: strings.TrimSpace(input), Category: CategoryOther, Score: 0}
}

// Reset clears the detection memo.
func (m *Matcher) Reset() {
	if m.memo != nil {
		m.memo.Purge()
	}
}
