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
		v, err := Generate(PrefixUser)
		require.NoError(t, err)
		assert.False(t, ids[v], "ID should be unique: %s", v)
		ids[v] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"user", PrefixUser},
		{"quote", PrefixQuote},
		{"photo", PrefixPhoto},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Generate(tt.prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(v, tt.prefix+"-"))
			assert.Equal(t, len(tt.prefix)+1+BodyLength, len(v), "ID: %s", v)

			body := strings.TrimPrefix(v, tt.prefix+"-")
			assert.Len(t, body, BodyLength)

			// NanoID alphabet is URL-safe: A-Za-z0-9_-
			for _, char := range body {
				assert.True(t,
					(char >= 'A' && char <= 'Z') ||
						(char >= 'a' && char <= 'z') ||
						(char >= '0' && char <= '9') ||
						char == '_' || char == '-',
					"Character %c should be URL-safe", char)
			}
		})
	}
}

func TestMustGenerate_Format(t *testing.T) {
	v := MustGenerate(PrefixUser)

	assert.True(t, strings.HasPrefix(v, "usr-"))
	assert.Equal(t, len(PrefixUser)+1+BodyLength, len(v))
}
