// Package shortcode generates and validates the short codes that identify links.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultLength is the length of generated codes when none is configured.
const DefaultLength = 5

// MaxLength bounds user-supplied codes; it matches the links.code column size.
const MaxLength = 32

// charset defines the character set used for generated codes (62 characters).
// 62^5 gives ~916 million codes at the default length.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// reserved holds codes that collide with fixed routes of the HTTP server.
var reserved = map[string]struct{}{
	"health": {},
	"api":    {},
}

// Generator produces candidate codes. Uniqueness is enforced by the store.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws codes uniformly from charset using crypto/rand.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator returns a generator of codes with the given length.
func NewRandomGenerator(length int) *RandomGenerator {
	if length < 1 {
		length = DefaultLength
	}
	return &RandomGenerator{length: length}
}

// Length returns the configured code length.
func (g *RandomGenerator) Length() int {
	return g.length
}

// Generate returns a new random code.
func (g *RandomGenerator) Generate() (string, error) {
	code := make([]byte, g.length)
	max := big.NewInt(int64(len(charset)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = charset[n.Int64()]
	}
	return string(code), nil
}

// Valid reports whether a user-supplied code fits in a single URL path
// segment: 1 to MaxLength characters from [A-Za-z0-9_-], and is not a
// reserved route name.
func Valid(code string) bool {
	if len(code) == 0 || len(code) > MaxLength {
		return false
	}
	if _, ok := reserved[code]; ok {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

var _ Generator = (*RandomGenerator)(nil)
