package runs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

var (
	// DefaultMaxInputSize bounds tapes submitted by remote clients (1 MiB).
	DefaultMaxInputSize = 1 << 20
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TURING_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = domain.ErrInvalidUTF8
)

// CheckInput rejects remote tape input that is oversized or not valid
// UTF-8. Input is never rewritten: every character is a tape symbol.
func CheckInput(input string) error {
	limit := MaxInputSize()
	if len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}
	return nil
}

// MaxInputSize returns the effective input limit in bytes.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
