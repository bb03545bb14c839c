package url

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shiroyk/url/idna"
)

// HostKind discriminates the variants of a parsed Host.
type HostKind uint8

const (
	// HostNone marks the absence of an authority ("mailto:x@y").
	HostNone HostKind = iota
	// HostEmpty is an empty-string host, legal only for file URLs
	// ("file:///etc/hosts") and non-special schemes.
	HostEmpty
	// HostDomain is an ASCII domain, IDNA-normalized.
	HostDomain
	// HostIPv4 is a dotted-quad address stored as a 32-bit integer.
	HostIPv4
	// HostIPv6 is a bracketed address stored as eight 16-bit pieces.
	HostIPv6
	// HostOpaque is the percent-encoded host of a non-special URL.
	HostOpaque
)

// Host is the parsed, normalized host of a URL. The zero value is the
// no-host state.
type Host struct {
	kind HostKind
	name string // HostDomain and HostOpaque
	v4   uint32
	v6   [8]uint16
}

// Kind reports which variant this host is.
func (h Host) Kind() HostKind { return h.kind }

// IPv4 returns the address for a HostIPv4 host.
func (h Host) IPv4() uint32 { return h.v4 }

// IPv6 returns the address pieces for a HostIPv6 host.
func (h Host) IPv6() [8]uint16 { return h.v6 }

// String serializes the host in its canonical form: lower-cased domain,
// dotted-decimal IPv4, or compressed bracketed IPv6.
func (h Host) String() string {
	switch h.kind {
	case HostNone, HostEmpty:
		return ""
	case HostDomain, HostOpaque:
		return h.name
	case HostIPv4:
		return serializeIPv4(h.v4)
	case HostIPv6:
		return "[" + serializeIPv6(h.v6) + "]"
	default:
		panic("url: unknown host kind")
	}
}

// ParseHost classifies and normalizes a host string. Special-scheme
// hosts are percent-decoded, run through IDNA and checked against the
// IPv4 grammar; non-special hosts stay opaque. A violation anywhere is
// a terminal error, never a partial host.
// https://url.spec.whatwg.org/#host-parsing
func ParseHost(input string, special bool) (Host, error) {
	if strings.HasPrefix(input, "[") {
		if !strings.HasSuffix(input, "]") {
			return Host{}, fmt.Errorf("%w: missing closing bracket", ErrInvalidIPv6)
		}
		v6, err := parseIPv6(input[1 : len(input)-1])
		if err != nil {
			return Host{}, err
		}
		return Host{kind: HostIPv6, v6: v6}, nil
	}
	if !special {
		return parseOpaqueHost(input)
	}
	if input == "" {
		return Host{}, errHostMissing
	}
	ascii, err := idna.ToASCII(string(percentDecode(input)))
	if err != nil {
		return Host{}, fmt.Errorf("%w: %w", ErrInvalidHost, err)
	}
	if ascii == "" {
		return Host{}, fmt.Errorf("%w: empty domain", ErrInvalidHost)
	}
	for i := 0; i < len(ascii); i++ {
		if isForbiddenDomainByte(ascii[i]) {
			return Host{}, fmt.Errorf("%w: forbidden code point %q", ErrInvalidHost, ascii[i])
		}
	}
	if endsInANumber(ascii) {
		v4, err := parseIPv4(ascii)
		if err != nil {
			return Host{}, err
		}
		return Host{kind: HostIPv4, v4: v4}, nil
	}
	return Host{kind: HostDomain, name: ascii}, nil
}

func parseOpaqueHost(input string) (Host, error) {
	if input == "" {
		return Host{kind: HostEmpty}, nil
	}
	for i := 0; i < len(input); i++ {
		if isForbiddenHostByte(input[i]) {
			return Host{}, fmt.Errorf("%w: forbidden code point %q", ErrInvalidHost, input[i])
		}
	}
	return Host{kind: HostOpaque, name: percentEncode(input, &c0ControlSet)}, nil
}

// Forbidden host code points may never appear literally in an opaque
// host. https://url.spec.whatwg.org/#forbidden-host-code-point
func isForbiddenHostByte(c byte) bool {
	switch c {
	case 0x00, '\t', '\n', '\r', ' ', '#', '/', ':', '<', '>', '?', '@', '[', '\\', ']', '^', '|':
		return true
	}
	return false
}

func isForbiddenDomainByte(c byte) bool {
	return c < 0x20 || c == 0x7f || c == '%' || isForbiddenHostByte(c)
}

// endsInANumber reports whether the last dotted label of an ASCII
// domain parses as an IPv4 number, which forces the whole host through
// the IPv4 parser. https://url.spec.whatwg.org/#ends-in-a-number-checker
func endsInANumber(s string) bool {
	parts := strings.Split(s, ".")
	if last := len(parts) - 1; parts[last] == "" {
		if len(parts) == 1 {
			return false
		}
		parts = parts[:last]
	}
	last := parts[len(parts)-1]
	if last != "" {
		digits := true
		for i := 0; i < len(last); i++ {
			if !isDigit(last[i]) {
				digits = false
				break
			}
		}
		if digits {
			return true
		}
	}
	_, ok := parseIPv4Number(last)
	return ok
}

// parseIPv4Number parses one dotted-quad part as an unsigned integer in
// base 10, 8 or 16 by prefix.
func parseIPv4Number(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	radix := 10
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
		radix = 16
	} else if len(s) >= 2 && s[0] == '0' {
		s = s[1:]
		radix = 8
	}
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(s, radix, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseIPv4 parses a dotted-quad of up to four dec/oct/hex parts. The
// last part absorbs the remaining low bytes and is the only one allowed
// to exceed 255, bounds-checked to keep the result in 32 bits.
// https://url.spec.whatwg.org/#concept-ipv4-parser
func parseIPv4(s string) (uint32, error) {
	parts := strings.Split(s, ".")
	if last := len(parts) - 1; len(parts) > 1 && parts[last] == "" {
		parts = parts[:last]
	}
	if len(parts) > 4 {
		return 0, fmt.Errorf("%w: too many ipv4 parts", ErrInvalidHost)
	}
	numbers := make([]uint64, len(parts))
	for i, part := range parts {
		n, ok := parseIPv4Number(part)
		if !ok {
			return 0, fmt.Errorf("%w: invalid ipv4 number %q", ErrInvalidHost, part)
		}
		numbers[i] = n
	}
	last := numbers[len(numbers)-1]
	for _, n := range numbers[:len(numbers)-1] {
		if n > 255 {
			return 0, fmt.Errorf("%w: ipv4 part out of range", ErrInvalidHost)
		}
	}
	if last >= 1<<(8*(5-len(numbers))) {
		return 0, fmt.Errorf("%w: ipv4 address out of range", ErrInvalidHost)
	}
	ipv4 := uint32(last)
	for i, n := range numbers[:len(numbers)-1] {
		ipv4 += uint32(n) << (8 * (3 - i))
	}
	return ipv4, nil
}

func serializeIPv4(v uint32) string {
	var b [15]byte
	out := strconv.AppendUint(b[:0], uint64(v>>24), 10)
	for shift := 16; shift >= 0; shift -= 8 {
		out = append(out, '.')
		out = strconv.AppendUint(out, uint64(v>>shift&0xff), 10)
	}
	return string(out)
}

// parseIPv6 parses the inside of a bracketed literal: up to eight
// pieces of 1-4 hex digits, one "::" compression and an optional
// embedded IPv4 filling the last 32 bits. A zone id suffix is ignored.
// https://url.spec.whatwg.org/#concept-ipv6-parser
func parseIPv6(input string) (addr [8]uint16, err error) {
	if i := strings.IndexByte(input, '%'); i >= 0 {
		input = input[:i]
	}
	pieceIndex, compress := 0, -1
	i := 0
	if strings.HasPrefix(input, ":") {
		if !strings.HasPrefix(input, "::") {
			return addr, fmt.Errorf("%w: leading colon", ErrInvalidIPv6)
		}
		i = 2
		pieceIndex, compress = 1, 1
	}
	for i < len(input) {
		if pieceIndex == 8 {
			return addr, fmt.Errorf("%w: too many pieces", ErrInvalidIPv6)
		}
		if input[i] == ':' {
			if compress != -1 {
				return addr, fmt.Errorf("%w: multiple compressions", ErrInvalidIPv6)
			}
			i++
			pieceIndex++
			compress = pieceIndex
			continue
		}
		value, length := 0, 0
		for length < 4 && i < len(input) && isHexDigit(input[i]) {
			value = value<<4 + int(unhex(input[i]))
			i++
			length++
		}
		switch {
		case i < len(input) && input[i] == '.':
			if length == 0 {
				return addr, fmt.Errorf("%w: unexpected dot", ErrInvalidIPv6)
			}
			i -= length
			if pieceIndex > 6 {
				return addr, fmt.Errorf("%w: no room for embedded ipv4", ErrInvalidIPv6)
			}
			numbersSeen := 0
			for i < len(input) {
				ipv4Piece := -1
				if numbersSeen > 0 {
					if input[i] != '.' || numbersSeen >= 4 {
						return addr, fmt.Errorf("%w: malformed embedded ipv4", ErrInvalidIPv6)
					}
					i++
				}
				if i >= len(input) || !isDigit(input[i]) {
					return addr, fmt.Errorf("%w: malformed embedded ipv4", ErrInvalidIPv6)
				}
				for i < len(input) && isDigit(input[i]) {
					n := int(input[i] - '0')
					switch {
					case ipv4Piece == -1:
						ipv4Piece = n
					case ipv4Piece == 0:
						return addr, fmt.Errorf("%w: leading zero in embedded ipv4", ErrInvalidIPv6)
					default:
						ipv4Piece = ipv4Piece*10 + n
					}
					if ipv4Piece > 255 {
						return addr, fmt.Errorf("%w: embedded ipv4 part out of range", ErrInvalidIPv6)
					}
					i++
				}
				addr[pieceIndex] = addr[pieceIndex]<<8 + uint16(ipv4Piece)
				numbersSeen++
				if numbersSeen == 2 || numbersSeen == 4 {
					pieceIndex++
				}
			}
			if numbersSeen != 4 {
				return addr, fmt.Errorf("%w: embedded ipv4 too short", ErrInvalidIPv6)
			}
			i = len(input)
			continue
		case i < len(input) && input[i] == ':':
			i++
			if i == len(input) {
				return addr, fmt.Errorf("%w: trailing colon", ErrInvalidIPv6)
			}
		case i < len(input):
			return addr, fmt.Errorf("%w: unexpected code point", ErrInvalidIPv6)
		}
		addr[pieceIndex] = uint16(value)
		pieceIndex++
	}
	if compress != -1 {
		swaps := pieceIndex - compress
		for pieceIndex = 7; pieceIndex != 0 && swaps > 0; pieceIndex-- {
			addr[pieceIndex], addr[compress+swaps-1] = addr[compress+swaps-1], addr[pieceIndex]
			swaps--
		}
	} else if pieceIndex != 8 {
		return addr, fmt.Errorf("%w: too few pieces", ErrInvalidIPv6)
	}
	return addr, nil
}

// serializeIPv6 compresses the longest run (length at least two) of
// zero pieces, leftmost on ties.
// https://url.spec.whatwg.org/#concept-ipv6-serializer
func serializeIPv6(addr [8]uint16) string {
	zeroStart, zeroLen := -1, 1
	for i := 0; i < 8; i++ {
		if addr[i] != 0 {
			continue
		}
		j := i
		for j < 8 && addr[j] == 0 {
			j++
		}
		if j-i > zeroLen {
			zeroStart, zeroLen = i, j-i
		}
		i = j
	}
	var b strings.Builder
	for i := 0; i < 8; {
		if i == zeroStart {
			b.WriteString("::")
			i += zeroLen
			continue
		}
		if i > 0 && i != zeroStart+zeroLen {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatUint(uint64(addr[i]), 16))
		i++
	}
	return b.String()
}
