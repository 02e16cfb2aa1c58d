package suggest

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
)

const (
	firstCharMatchBonus            = 15
	adjacentMatchBonus             = 10
	separatorMatchBonus            = 12
	camelCaseMatchBonus            = 12
	unmatchedLeadingCharPenalty    = -3
	maxUnmatchedLeadingCharPenalty = -9
)

// FuzzyMatcher corrects misspelled prefixes against a fixed word list.
// It is read-only after construction and safe for concurrent use.
type FuzzyMatcher struct {
	words    []string
	wordFreq map[string]int
}

// Match is a candidate word and its fuzzy score.
type Match struct {
	Str            string
	Score          int
	MatchedIndexes []int
}

// NewFuzzyMatcher indexes words. The map is not retained.
func NewFuzzyMatcher(words map[string]int) *FuzzyMatcher {
	fm := &FuzzyMatcher{
		words:    make([]string, 0, len(words)),
		wordFreq: make(map[string]int, len(words)),
	}
	for word, freq := range words {
		lower := strings.ToLower(word)
		fm.words = append(fm.words, lower)
		fm.wordFreq[lower] = freq
	}
	slices.Sort(fm.words)
	return fm
}

// SuggestCorrection returns the most likely intended word for input and
// whether it differs from input. Exact matches are not corrections.
// Ranking is exact match, then match quality adjusted by frequency and
// length difference.
func (fm *FuzzyMatcher) SuggestCorrection(input string) (string, bool) {
	if utf8.RuneCountInString(input) < 2 {
		return input, false
	}
	lowerInput := strings.ToLower(input)
	if _, ok := fm.wordFreq[lowerInput]; ok {
		return lowerInput, false
	}

	matches := fm.findMatches([]rune(lowerInput))
	if len(matches) == 0 {
		return input, false
	}

	inputLen := utf8.RuneCountInString(lowerInput)
	for i := range matches {
		if freq := fm.wordFreq[matches[i].Str]; freq > 0 {
			matches[i].Score += min(freq/10, 30)
		}
		diff := utf8.RuneCountInString(matches[i].Str) - inputLen
		if diff < 0 {
			diff = -diff
		}
		matches[i].Score -= diff * 2
	}

	best := slices.MaxFunc(matches, func(a, b Match) int {
		if a.Score != b.Score {
			return cmp.Compare(a.Score, b.Score)
		}
		// prefer the alphabetically first word on ties
		return strings.Compare(b.Str, a.Str)
	})
	return best.Str, true
}

func (fm *FuzzyMatcher) findMatches(pattern []rune) []Match {
	var matches []Match
	for _, candidate := range fm.words {
		if len(pattern) > 1 {
			first, _ := utf8.DecodeRuneInString(candidate)
			if !utils.EqualFold(first, pattern[0]) {
				continue
			}
		}
		if m, ok := scoreMatch(pattern, candidate); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

// scoreMatch matches pattern as a subsequence of candidate, rewarding matches
// at the start, after separators, at camel-case humps and in adjacent runs.
func scoreMatch(pattern []rune, candidate string) (Match, bool) {
	runes := []rune(candidate)
	match := Match{Str: candidate, MatchedIndexes: make([]int, 0, len(pattern))}

	p := 0
	adjacent := 0
	for i := 0; i < len(runes) && p < len(pattern); i++ {
		curr := runes[i]
		if !utils.EqualFold(curr, pattern[p]) {
			continue
		}

		score := 0
		if i == 0 {
			score += firstCharMatchBonus
		}
		if i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) && unicode.IsUpper(curr) {
				score += camelCaseMatchBonus
			}
			if utils.IsSeparator(prev) {
				score += separatorMatchBonus
			}
		}
		if n := len(match.MatchedIndexes); n > 0 && match.MatchedIndexes[n-1] == i-1 {
			adjacent = adjacent*2 + adjacentMatchBonus
			score += adjacent
		} else {
			adjacent = 0
		}
		if len(match.MatchedIndexes) == 0 {
			score += max(i*unmatchedLeadingCharPenalty, maxUnmatchedLeadingCharPenalty)
		}

		match.Score += score
		match.MatchedIndexes = append(match.MatchedIndexes, i)
		p++
	}
	if p < len(pattern) {
		return Match{}, false
	}

	match.Score += len(match.MatchedIndexes) - len(runes)
	return match, true
}
