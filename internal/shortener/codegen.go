package shortener

import (
	"math/rand/v2"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	// Alphabet is the 62-symbol set short codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// CodeLength is the fixed length of generated codes.
	CodeLength = 7
)

// CodeGenerator draws one candidate short code.
type CodeGenerator func() string

// NewNanoidGenerator returns a generator drawing length symbols uniformly from Alphabet.
func NewNanoidGenerator(length int) (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return gen, nil
}

// NewRandGenerator returns a generator backed by r. Seeding r identically
// reproduces the same code sequence. Not safe for concurrent use.
func NewRandGenerator(r *rand.Rand, length int) CodeGenerator {
	return func() string {
		b := make([]byte, length)
		for i := range b {
			b[i] = Alphabet[r.IntN(len(Alphabet))]
		}

		return string(b)
	}
}

