package transcript

import (
	"regexp"
	"strings"
)

// nonWord matches every rune that is not a letter, digit or whitespace
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// sanitizeQuery strips operator characters from a raw search phrase so user
// input can never inject tsquery syntax, and collapses the leftover runs of
// whitespace
func sanitizeQuery(phrase string) string {
	cleaned := nonWord.ReplaceAllString(phrase, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}
