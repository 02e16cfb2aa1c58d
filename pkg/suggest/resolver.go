package suggest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/autocomplete"
)

// ErrPrefixTooLong is returned when a query exceeds ResolverOptions.MaxPrefix.
var ErrPrefixTooLong = errors.New("prefix too long")

// ResolverOptions controls how queries are turned into candidates.
type ResolverOptions struct {
	Limit     int  // maximum candidates, 0 for no limit
	MinPrefix int  // shorter queries resolve to nothing
	MaxPrefix int  // longer queries fail with ErrPrefixTooLong, 0 to disable
	Filter    bool // skip numbers, special characters and repetitive input
	Fuzzy     bool // fall back to a spelling correction when nothing matches
	EchoInput bool // offer the raw query as the first candidate
}

// Resolver adapts an ICompleter to autocomplete.Resolver[string].
type Resolver struct {
	completer ICompleter
	fuzzy     *FuzzyMatcher
	opts      ResolverOptions
}

var _ autocomplete.Resolver[string] = (*Resolver)(nil)

// NewResolver creates a Resolver. With opts.Fuzzy the completer's words are
// indexed once, so words added later are only completed, never corrected to.
func NewResolver(completer ICompleter, opts ResolverOptions) *Resolver {
	r := &Resolver{completer: completer, opts: opts}
	if opts.Fuzzy {
		r.fuzzy = NewFuzzyMatcher(completer.Words())
	}
	return r
}

// Resolve implements autocomplete.Resolver.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := strings.TrimSpace(query)
	n := utf8.RuneCountInString(prefix)
	if r.opts.MaxPrefix > 0 && n > r.opts.MaxPrefix {
		return nil, fmt.Errorf("%w: %d runes, max %d", ErrPrefixTooLong, n, r.opts.MaxPrefix)
	}

	words := []string{}
	if n >= r.opts.MinPrefix && (!r.opts.Filter || utils.IsValidInput(prefix)) {
		words = r.lookup(prefix)
	}

	if r.opts.EchoInput && query != "" {
		words = slices.DeleteFunc(words, func(w string) bool { return w == query })
		words = append([]string{query}, words...)
	}
	if r.opts.Limit > 0 && len(words) > r.opts.Limit {
		words = words[:r.opts.Limit]
	}
	return words, nil
}

func (r *Resolver) lookup(prefix string) []string {
	words := toWords(r.completer.Complete(prefix, r.opts.Limit))
	if len(words) > 0 || r.fuzzy == nil {
		return words
	}

	corrected, ok := r.fuzzy.SuggestCorrection(prefix)
	if !ok {
		return words
	}
	corrected = ApplyCapitalization(corrected, capitalPositions(prefix))
	return append([]string{corrected}, toWords(r.completer.Complete(corrected, r.opts.Limit))...)
}

func toWords(suggestions []Suggestion) []string {
	words := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		words = append(words, s.Word)
	}
	return words
}
