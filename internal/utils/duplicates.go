package utils

import "strings"

// SuggestionFilter drops case-insensitive duplicates, including the query itself.
// It is not safe for concurrent use; build one per lookup.
type SuggestionFilter struct {
	seen map[string]struct{}
}

// NewSuggestionFilter creates a filter that already considers input seen.
func NewSuggestionFilter(input string) *SuggestionFilter {
	f := &SuggestionFilter{seen: make(map[string]struct{})}
	f.seen[strings.ToLower(input)] = struct{}{}
	return f
}

// ShouldInclude returns true the first time a word is offered.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	key := strings.ToLower(word)
	if _, ok := f.seen[key]; ok {
		return false
	}
	f.seen[key] = struct{}{}
	return true
}
