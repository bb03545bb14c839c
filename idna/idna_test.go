package idna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToASCII(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ascii passthrough", "example.com", "example.com"},
		{"lowercased", "EXAMPLE.com", "example.com"},
		{"umlaut", "bücher.de", "xn--bcher-kva.de"},
		{"sharp s non-transitional", "meßagefactory.ca", "xn--meagefactory-m9a.ca"},
		{"already punycode", "xn--bcher-kva.de", "xn--bcher-kva.de"},
		{"mixed labels", "www.bücher.de", "www.xn--bcher-kva.de"},
		{"underscore tolerated", "_dmarc.example.com", "_dmarc.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToASCII(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("disallowed code point", func(t *testing.T) {
		_, err := ToASCII("a﷐b.com")
		assert.Error(t, err)
	})
}

func TestToUnicode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bücher.de", ToUnicode("xn--bcher-kva.de"))
	assert.Equal(t, "meßagefactory.ca", ToUnicode("xn--meagefactory-m9a.ca"))
	assert.Equal(t, "example.com", ToUnicode("example.com"))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, domain := range []string{"bücher.de", "пример.рф", "例え.jp"} {
		ascii, err := ToASCII(domain)
		require.NoError(t, err)
		assert.Equal(t, domain, ToUnicode(ascii), domain)
	}
}
