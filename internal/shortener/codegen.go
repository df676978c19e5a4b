package shortener

import (
	"sync"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the 62-character set short codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength is the starting length for generated codes.
const DefaultCodeLength = 6

// maxAttemptsPerLength bounds retries before escalating to a longer code.
const maxAttemptsPerLength = 100

// Generator produces random alphanumeric short codes and resolves
// collisions by bounded retry followed by length escalation.
type Generator struct {
	mu    sync.Mutex
	draws map[int]func() string // one nanoid generator per length
}

// NewGenerator creates a code generator.
func NewGenerator() *Generator {
	return &Generator{draws: make(map[int]func() string)}
}

// Generate draws a code of the given length uniformly from Alphabet.
func (g *Generator) Generate(length int) string {
	g.mu.Lock()
	draw, ok := g.draws[length]
	if !ok {
		draw, _ = nanoid.CustomASCII(Alphabet, length)
		g.draws[length] = draw
	}
	g.mu.Unlock()

	return draw()
}

// TakenFunc reports whether a candidate code is already in use.
type TakenFunc func(code string) bool

// GenerateUnique returns a code for which taken reports false. It
// retries at the requested length, then escalates to longer codes until
// one is free, so it terminates for any finite exclusion set.
func (g *Generator) GenerateUnique(taken TakenFunc, length int) string {
	for {
		for attempt := 0; attempt < maxAttemptsPerLength; attempt++ {
			code := g.Generate(length)
			if !taken(code) {
				return code
			}
		}

		length++
	}
}
