// Package suggest turns a word-frequency dictionary into completions for the
// autocomplete state machine.
package suggest

// ICompleter is a prefix completion engine.
type ICompleter interface {
	// Complete returns up to limit suggestions extending prefix, most frequent first.
	Complete(prefix string, limit int) []Suggestion

	// AddWord inserts or updates a word and its frequency.
	AddWord(word string, frequency int)

	// Words returns a snapshot of every word and its frequency.
	Words() map[string]int

	// Stats returns counters about the loaded dictionary.
	Stats() map[string]int
}
