package shortener_test

import (
	"regexp"
	"testing"

	"github.com/serroba/pocketlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func TestGenerate(t *testing.T) {
	t.Run("draws codes of the requested length from the alphabet", func(t *testing.T) {
		gen := shortener.NewGenerator()

		for _, length := range []int{4, 6, 10} {
			code := gen.Generate(length)

			assert.Len(t, code, length)
			assert.Regexp(t, alphanumeric, code)
		}
	})
}

func TestGenerateUnique(t *testing.T) {
	t.Run("returns the first free candidate", func(t *testing.T) {
		gen := shortener.NewGenerator()

		code := gen.GenerateUnique(func(string) bool { return false }, 6)

		assert.Len(t, code, 6)
	})

	t.Run("skips taken codes", func(t *testing.T) {
		gen := shortener.NewGenerator()
		taken := map[string]struct{}{}

		for i := 0; i < 500; i++ {
			code := gen.GenerateUnique(func(c string) bool {
				_, ok := taken[c]

				return ok
			}, 6)

			_, seen := taken[code]
			require.False(t, seen)
			taken[code] = struct{}{}
		}

		assert.Len(t, taken, 500)
	})

	t.Run("escalates length when every 6-character code is taken", func(t *testing.T) {
		gen := shortener.NewGenerator()

		code := gen.GenerateUnique(func(c string) bool {
			return len(c) == 6
		}, 6)

		assert.Len(t, code, 7)
		assert.Regexp(t, alphanumeric, code)
	})

	t.Run("keeps escalating under a pathological exclusion set", func(t *testing.T) {
		gen := shortener.NewGenerator()

		code := gen.GenerateUnique(func(c string) bool {
			return len(c) < 9
		}, 6)

		assert.Len(t, code, 9)
	})
}
