package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Generator creates opaque IDs for leagues and payouts.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a lowercase base32 token with 160 bits of randomness,
// safe to embed in URLs.
func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return strings.ToLower(idEncoding.EncodeToString(buf)), nil
}
