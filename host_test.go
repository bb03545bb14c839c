package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		special  bool
		kind     HostKind
		expected string
	}{
		{"registrable domain", "example.com", true, HostDomain, "example.com"},
		{"uppercase lowered", "EXAMPLE.COM", true, HostDomain, "example.com"},
		{"trailing dot kept", "example.com.", true, HostDomain, "example.com."},
		{"percent decoded domain", "ex%61mple.com", true, HostDomain, "example.com"},
		{"unicode to punycode", "meßagefactory.ca", true, HostDomain, "xn--meagefactory-m9a.ca"},
		{"dotted quad", "192.168.1.1", true, HostIPv4, "192.168.1.1"},
		{"hex and truncated quad", "0x7f.1", true, HostIPv4, "127.0.0.1"},
		{"octal part", "010.0.0.1", true, HostIPv4, "8.0.0.1"},
		{"single number", "2130706433", true, HostIPv4, "127.0.0.1"},
		{"ipv6 compressed", "[2606:4700:4700::1111]", true, HostIPv6, "[2606:4700:4700::1111]"},
		{"ipv6 loopback", "[::1]", true, HostIPv6, "[::1]"},
		{"ipv6 unspecified", "[::]", true, HostIPv6, "[::]"},
		{"opaque non-special", "localhost", false, HostOpaque, "localhost"},
		{"opaque keeps case", "Example.Com", false, HostOpaque, "Example.Com"},
		{"opaque keeps escapes", "a%62c", false, HostOpaque, "a%62c"},
		{"opaque empty", "", false, HostEmpty, ""},
		{"non-special bracket still ipv6", "[::1]", false, HostIPv6, "[::1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHost(tt.input, tt.special)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, h.Kind())
			assert.Equal(t, tt.expected, h.String())
		})
	}
}

func TestParseHostErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		special bool
	}{
		{"empty special", "", true},
		{"space in domain", "exa mple.com", true},
		{"hash in domain", "exa%23mple.com", true},
		{"slash in domain", "a/b", true},
		{"ipv4 part overflow", "10.0.0.256", true},
		{"ipv4 too many parts", "1.2.3.4.5", true},
		{"ipv4 junk part", "foo.0x1", true},
		{"unclosed bracket", "[::1", true},
		{"ipv6 double compress", "[1::2::3]", true},
		{"ipv6 too many pieces", "[1:2:3:4:5:6:7:8:9]", true},
		{"ipv6 bad hex", "[1:zz::]", true},
		{"opaque forbidden space", "exa mple", false},
		{"opaque forbidden angle", "a<b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHost(tt.input, tt.special)
			assert.Error(t, err)
		})
	}
}

func TestParseIPv4(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected uint32
	}{
		{"127.0.0.1", 0x7f000001},
		{"0x7f.0.0.1", 0x7f000001},
		{"0177.0.0.1", 0x7f000001},
		{"127.1", 0x7f000001},
		{"127.0.1", 0x7f000001},
		{"0x7f000001", 0x7f000001},
		{"255.255.255.255", 0xffffffff},
		{"0", 0},
		{"192.168.257", 0xc0a80101},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := parseIPv4(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	t.Run("last part absorbs remaining bytes only", func(t *testing.T) {
		// two parts: the second covers three bytes, so 1<<24 is out of range.
		_, err := parseIPv4("1.16777216")
		assert.Error(t, err)
		v, err := parseIPv4("1.16777215")
		require.NoError(t, err)
		assert.Equal(t, uint32(1<<24|16777215), v)
	})
}

func TestIPv6Serialization(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"[0:0:0:0:0:0:0:1]", "[::1]"},
		{"[0:0:0:0:0:0:0:0]", "[::]"},
		{"[2001:db8:0:0:1:0:0:1]", "[2001:db8::1:0:0:1]"},
		{"[1:0:0:2:0:0:0:3]", "[1:0:0:2::3]"},
		{"[fe80:0:0:0:0:0:0:0]", "[fe80::]"},
		{"[0:1:2:3:4:5:6:7]", "[0:1:2:3:4:5:6:7]"},
		{"[2606:4700:4700::68]", "[2606:4700:4700::68]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, err := ParseHost(tt.input, true)
			require.NoError(t, err)
			assert.Equal(t, HostIPv6, h.Kind())
			assert.Equal(t, tt.expected, h.String())
		})
	}
}

func TestEndsInANumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected bool
	}{
		{"example.com", false},
		{"127.0.0.1", true},
		{"foo.0x7f", true},
		{"foo.7f", false},
		{"127.0.0.1.", true},
		{"a.b.0", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, endsInANumber(tt.input))
		})
	}
}
