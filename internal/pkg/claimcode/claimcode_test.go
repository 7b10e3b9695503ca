//go:build unit

package claimcode_test

import (
	"strings"
	"testing"

	"venue-offers/internal/pkg/claimcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := claimcode.Generate()
		require.NoError(t, err)

		assert.Len(t, code, claimcode.Length)
		for _, c := range code {
			assert.Contains(t, claimcode.Alphabet, string(c))
		}
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "1")

		seen[code] = true
	}

	// 32^8 possibilities; a collision in 100 draws means the source is broken.
	assert.Len(t, seen, 100)
}

func TestWithSuffix(t *testing.T) {
	code, err := claimcode.Generate()
	require.NoError(t, err)

	suffixed, err := claimcode.WithSuffix(code)
	require.NoError(t, err)

	assert.Len(t, suffixed, claimcode.Length+2)
	assert.True(t, strings.HasPrefix(suffixed, code))
	for _, c := range suffixed {
		assert.Contains(t, claimcode.Alphabet, string(c))
	}
}
