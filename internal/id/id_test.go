package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate(PrefixProduct)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	prefixes := []string{
		PrefixUser,
		PrefixSeller,
		PrefixRegion,
		PrefixProduct,
		PrefixCategory,
		PrefixSession,
	}

	for _, prefix := range prefixes {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, prefix+"-"))

			// NanoID default is 21 characters after "prefix-".
			nanoidPart := strings.TrimPrefix(id, prefix+"-")
			assert.Len(t, nanoidPart, 21)

			// NanoID alphabet is A-Za-z0-9_-.
			for _, char := range nanoidPart {
				assert.True(t,
					(char >= 'A' && char <= 'Z') ||
						(char >= 'a' && char <= 'z') ||
						(char >= '0' && char <= '9') ||
						char == '_' || char == '-',
					"character %c should be URL-safe", char)
			}
		})
	}
}

func TestMustGenerate_Format(t *testing.T) {
	id := MustGenerate(PrefixUser)

	assert.True(t, strings.HasPrefix(id, "usr-"))
	assert.Equal(t, len(PrefixUser)+1+21, len(id))
}

func TestHasPrefix(t *testing.T) {
	id := MustGenerate(PrefixProduct)

	assert.True(t, HasPrefix(id, PrefixProduct))
	assert.False(t, HasPrefix(id, PrefixUser))
	// A bare prefix with no body does not count.
	assert.False(t, HasPrefix("prod", PrefixProduct))
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate("bench")
	}
}
