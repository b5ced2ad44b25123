package directory

import (
	"strings"

	"github.com/jaevor/go-nanoid"
)

// Room keys are short uppercase hex strings, generated server-side.
const (
	keyAlphabet = "0123456789ABCDEF"
	// KeyLength is the length of generated room keys.
	KeyLength = 6
)

// NewKeyGenerator returns a function producing random room keys drawn
// uniformly from the hex alphabet.
func NewKeyGenerator() (func() string, error) {
	return nanoid.CustomASCII(keyAlphabet, KeyLength)
}

// NormalizeKey canonicalizes a room key for storage and lookup. Keys are
// uppercased on both create and lookup so clients may send either case.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// IsValidKey reports whether a key has the generated shape: exactly
// KeyLength characters from the hex alphabet after normalization.
func IsValidKey(key string) bool {
	if len(key) != KeyLength {
		return false
	}
	for _, c := range key {
		if !strings.ContainsRune(keyAlphabet, c) {
			return false
		}
	}
	return true
}
