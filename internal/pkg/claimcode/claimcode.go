package claimcode

import (
	"crypto/rand"
	"fmt"

	"venue-offers/internal/pkg/errs"
)

// Alphabet excludes the visually ambiguous O, I, 0 and 1 so codes survive
// being read aloud over a counter.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const Length = 8

var ErrGenerationFailed = errs.New("claim code generation failed")

// Generate returns an 8-character code drawn from the 32-symbol alphabet
// using a cryptographically secure source.
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", errs.Mark(err, ErrGenerationFailed)
	}

	code := make([]byte, Length)
	for i, b := range buf {
		// 32 symbols divide 256 evenly, so masking introduces no modulo bias.
		code[i] = Alphabet[b&0x1F]
	}
	return string(code), nil
}

// WithSuffix appends a short random suffix, used as the fallback after the
// collision retry budget is exhausted.
func WithSuffix(code string) (string, error) {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", errs.Mark(err, ErrGenerationFailed)
	}
	return fmt.Sprintf("%s%c%c", code, Alphabet[buf[0]&0x1F], Alphabet[buf[1]&0x1F]), nil
}
