package shortener_test

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{7}$`)

func TestNanoidGenerator(t *testing.T) {
	t.Run("draws seven base62 characters", func(t *testing.T) {
		gen, err := shortener.NewNanoidGenerator(shortener.CodeLength)
		require.NoError(t, err)

		for range 1000 {
			assert.Regexp(t, codePattern, gen())
		}
	})

	t.Run("covers the whole alphabet", func(t *testing.T) {
		gen, err := shortener.NewNanoidGenerator(shortener.CodeLength)
		require.NoError(t, err)

		seen := make(map[rune]bool)
		for range 2000 {
			for _, r := range gen() {
				seen[r] = true
			}
		}

		assert.Len(t, seen, len(shortener.Alphabet))
	})
}

func TestRandGenerator(t *testing.T) {
	t.Run("same seed yields same codes", func(t *testing.T) {
		a := shortener.NewRandGenerator(rand.New(rand.NewPCG(1, 2)), shortener.CodeLength)
		b := shortener.NewRandGenerator(rand.New(rand.NewPCG(1, 2)), shortener.CodeLength)

		for range 50 {
			assert.Equal(t, a(), b())
		}
	})

	t.Run("codes stay in alphabet", func(t *testing.T) {
		gen := shortener.NewRandGenerator(rand.New(rand.NewPCG(7, 7)), shortener.CodeLength)

		for range 500 {
			code := gen()
			assert.Len(t, code, shortener.CodeLength)
			for _, r := range code {
				assert.True(t, strings.ContainsRune(shortener.Alphabet, r))
			}
		}
	})
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, shortener.Alphabet, 62)
}
