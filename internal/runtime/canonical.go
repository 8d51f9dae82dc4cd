package runtime

import "github.com/aretw0/turing/pkg/domain"

// Canonicalize renders the tape without its leading and trailing blanks.
// Inner blank runs are kept. A tape made only of blanks renders as a single
// blank, never as the empty string. The tape is not modified.
func Canonicalize(tape *domain.Tape, blank domain.Symbol) string {
	if tape == nil {
		return blank.String()
	}
	return CanonicalizeString(tape.String(), blank)
}

// CanonicalizeString applies the same trimming to an already concatenated
// tape. It is idempotent.
func CanonicalizeString(s string, blank domain.Symbol) string {
	runes := []rune(s)
	left, right := 0, len(runes)-1
	for left <= right && runes[left] == rune(blank) {
		left++
	}
	if left > right {
		return blank.String()
	}
	for runes[right] == rune(blank) {
		right--
	}
	return string(runes[left : right+1])
}
