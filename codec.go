package url

import "strings"

// Percent-encode sets of the URL standard, as 128-bit membership tables
// over the ASCII range. Bytes above U+007E are encoded in every set.
// https://url.spec.whatwg.org/#percent-encoded-bytes
type encodeSet [4]uint32

func (s *encodeSet) add(b byte) { s[b>>5] |= 1 << (b & 31) }

func (s *encodeSet) contains(b byte) bool {
	if b > 0x7e {
		return true
	}
	return s[b>>5]&(1<<(b&31)) != 0
}

func extend(base encodeSet, chars string) encodeSet {
	for i := 0; i < len(chars); i++ {
		base.add(chars[i])
	}
	return base
}

var (
	c0ControlSet    encodeSet
	fragmentSet     encodeSet
	querySet        encodeSet
	specialQuerySet encodeSet
	pathSet         encodeSet
	userinfoSet     encodeSet
	componentSet    encodeSet
	formSet         encodeSet
)

func init() {
	for b := byte(0); b < 0x20; b++ {
		c0ControlSet.add(b)
	}
	fragmentSet = extend(c0ControlSet, " \"<>`")
	querySet = extend(c0ControlSet, ` "#<>`)
	specialQuerySet = extend(querySet, `'`)
	pathSet = extend(querySet, "?`{}")
	userinfoSet = extend(pathSet, `/:;=@[\]^|`)
	componentSet = extend(userinfoSet, `$%&+,`)
	formSet = extend(componentSet, `!'()~`)
}

const upperhex = "0123456789ABCDEF"

func appendEncoded(dst []byte, c byte, set *encodeSet) []byte {
	if set.contains(c) {
		return append(dst, '%', upperhex[c>>4], upperhex[c&0xf])
	}
	return append(dst, c)
}

// percentEncode encodes every byte of s that is a member of set as an
// uppercase %XX triplet.
func percentEncode(s string, set *encodeSet) string {
	i := 0
	for ; i < len(s); i++ {
		if set.contains(s[i]) {
			break
		}
	}
	if i == len(s) {
		return s
	}
	dst := make([]byte, 0, len(s)+2*(len(s)-i))
	dst = append(dst, s[:i]...)
	for ; i < len(s); i++ {
		dst = appendEncoded(dst, s[i], set)
	}
	return string(dst)
}

// percentDecode replaces each valid %XX triplet with the decoded byte.
// Malformed sequences pass through untouched. The output is raw bytes:
// no UTF-8 validity is assumed at any point.
func percentDecode(s string) []byte {
	if strings.IndexByte(s, '%') < 0 {
		return []byte(s)
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		} else {
			out = append(out, s[i])
		}
	}
	return out
}

// formEncode encodes s per application/x-www-form-urlencoded:
// space becomes '+', alphanumerics and "*-._" stay verbatim.
func formEncode(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case formSet.contains(c):
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
}

// formDecode reverses formEncode: '+' is a space, then percent-decode.
func formDecode(s string) string {
	if strings.IndexByte(s, '+') >= 0 {
		s = strings.ReplaceAll(s, "+", " ")
	}
	return string(percentDecode(s))
}

func isAlpha(c byte) bool { return 'a' <= lower(c) && lower(c) <= 'z' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isAlphanumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

func isHexDigit(c byte) bool { return isDigit(c) || ('a' <= lower(c) && lower(c) <= 'f') }

func lower(c byte) byte { return c | 0x20 }

func unhex(c byte) byte {
	if isDigit(c) {
		return c - '0'
	}
	return lower(c) - 'a' + 10
}
