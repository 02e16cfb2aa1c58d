package suggest

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Suggestion is one completion and the frequency it was ranked by.
type Suggestion struct {
	Word      string
	Frequency int
}

// Completer is a patricia-trie backed ICompleter. Words are stored
// lowercase; lookups re-apply the caller's capitalization.
// It is safe for concurrent use.
type Completer struct {
	mu           sync.RWMutex
	trie         *patricia.Trie
	wordFreqs    map[string]int
	maxFrequency int

	minFreq      int
	minFreqShort int
}

// NewCompleter creates an empty Completer with no frequency thresholds.
func NewCompleter() *Completer {
	return &Completer{
		trie:      patricia.NewTrie(),
		wordFreqs: make(map[string]int),
	}
}

// SetThresholds drops words below minFreq from results. minFreqShort applies
// instead when the prefix is two runes or shorter, or repetitive.
func (c *Completer) SetThresholds(minFreq, minFreqShort int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minFreq = minFreq
	c.minFreqShort = minFreqShort
}

// AddWord implements ICompleter.
func (c *Completer) AddWord(word string, frequency int) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trie.Set(patricia.Prefix(word), frequency)
	c.wordFreqs[word] = frequency
	if frequency > c.maxFrequency {
		c.maxFrequency = frequency
	}
}

// Complete implements ICompleter. The prefix itself is never suggested.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	lowerPrefix := strings.ToLower(prefix)
	if lowerPrefix == "" {
		return nil
	}
	caps := capitalPositions(prefix)

	c.mu.RLock()
	defer c.mu.RUnlock()

	threshold := c.minFreq
	if utf8.RuneCountInString(lowerPrefix) <= 2 || utils.IsRepetitive(lowerPrefix) {
		threshold = c.minFreqShort
	}

	filter := utils.NewSuggestionFilter(lowerPrefix)
	var suggestions []Suggestion
	err := c.trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		freq := itemFrequency(word, item)
		if freq < threshold || !filter.ShouldInclude(word) {
			return nil
		}
		suggestions = append(suggestions, Suggestion{
			Word:      ApplyCapitalization(word, caps),
			Frequency: freq,
		})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	slices.SortFunc(suggestions, func(a, b Suggestion) int {
		if a.Frequency != b.Frequency {
			return cmp.Compare(b.Frequency, a.Frequency)
		}
		return strings.Compare(a.Word, b.Word)
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Words implements ICompleter.
func (c *Completer) Words() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.wordFreqs)
}

// Stats implements ICompleter.
func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]int{
		"totalWords":   len(c.wordFreqs),
		"maxFrequency": c.maxFrequency,
	}
}
