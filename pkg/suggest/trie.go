package suggest

import (
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// itemFrequency reads a frequency stored in the trie.
func itemFrequency(word string, item patricia.Item) int {
	switch v := item.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	default:
		log.Errorf("Unknown item type: %T for word %s", item, word)
		return 1
	}
}

// capitalPositions marks the runes of s that are upper case.
func capitalPositions(s string) []bool {
	var positions []bool
	found := false
	for _, r := range s {
		upper := unicode.IsUpper(r)
		positions = append(positions, upper)
		found = found || upper
	}
	if !found {
		return nil
	}
	return positions
}

// ApplyCapitalization upper-cases the runes of word at the positions
// that were upper case in the typed prefix.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}
	runes := []rune(word)
	for i := 0; i < len(runes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}
