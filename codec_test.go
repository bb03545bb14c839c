package url

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentEncode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		set      *encodeSet
		expected string
	}{
		{"plain passthrough", "abcXYZ019", &pathSet, "abcXYZ019"},
		{"space in path", "a b", &pathSet, "a%20b"},
		{"question mark in path", "a?b", &pathSet, "a%3Fb"},
		{"curly braces in path", "{x}", &pathSet, "%7Bx%7D"},
		{"colon kept in path", "C:", &pathSet, "C:"},
		{"backtick in fragment", "a`b", &fragmentSet, "a%60b"},
		{"quote in query", `a"b`, &querySet, "a%22b"},
		{"apostrophe special query only", "it's", &specialQuerySet, "it%27s"},
		{"apostrophe plain query", "it's", &querySet, "it's"},
		{"userinfo delimiters", "u@h:p/[]", &userinfoSet, "u%40h%3Ap%2F%5B%5D"},
		{"control bytes", "\x01\x1f", &c0ControlSet, "%01%1F"},
		{"utf8 always encoded", "é", &c0ControlSet, "%C3%A9"},
		{"percent kept outside component set", "a%41", &pathSet, "a%41"},
		{"percent encoded in component set", "a%41", &componentSet, "a%2541"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, percentEncode(tt.input, tt.set))
		})
	}
}

func TestPercentDecode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "abc", "abc"},
		{"single triplet", "%41", "A"},
		{"lowercase hex", "%c3%a9", "é"},
		{"bare percent untouched", "100%", "100%"},
		{"short escape untouched", "%4", "%4"},
		{"bad hex untouched", "%zz", "%zz"},
		{"mixed", "a%20b%GGc", "a b%GGc"},
		{"raw bytes not utf8", "%ff%fe", "\xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(percentDecode(tt.input)))
		})
	}
}

func TestFormCodec(t *testing.T) {
	t.Parallel()

	t.Run("encode", func(t *testing.T) {
		var b strings.Builder
		formEncode(&b, "a b*-._~!'()c")
		assert.Equal(t, "a+b*-._%7E%21%27%28%29c", b.String())
	})

	t.Run("decode plus", func(t *testing.T) {
		assert.Equal(t, "a b c", formDecode("a+b%20c"))
	})

	t.Run("round trip", func(t *testing.T) {
		for _, s := range []string{"hello world", "käse & wein", "100%+1"} {
			var b strings.Builder
			formEncode(&b, s)
			assert.Equal(t, s, formDecode(b.String()), s)
		}
	})
}
