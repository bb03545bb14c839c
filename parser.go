package url

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser states of the URL standard's basic URL parser.
// https://url.spec.whatwg.org/#url-parsing
type state uint8

const (
	stateSchemeStart state = iota + 1
	stateScheme
	stateNoScheme
	stateSpecialRelativeOrAuthority
	statePathOrAuthority
	stateRelative
	stateRelativeSlash
	stateSpecialAuthoritySlashes
	stateSpecialAuthorityIgnoreSlashes
	stateAuthority
	stateHost
	stateHostname
	statePort
	stateFile
	stateFileSlash
	stateFileHost
	statePathStart
	statePath
	stateOpaquePath
	stateQuery
	stateFragment
)

// Special schemes and their default ports. file has authority semantics
// but no port. https://url.spec.whatwg.org/#special-scheme
var specialSchemes = map[string]uint16{
	"ftp":   21,
	"file":  0,
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
}

func isSpecialScheme(s string) bool { _, ok := specialSchemes[s]; return ok }

func defaultPort(scheme string) (uint16, bool) {
	p, ok := specialSchemes[scheme]
	return p, ok && p != 0
}

// parseURL runs the basic URL parser over input, filling u. A non-zero
// override starts the machine mid-grammar, which is how setters re-enter
// the parser for a single component. base drives relative resolution.
func parseURL(input string, base *URL, u *URL, override state) error {
	if override == 0 {
		input = trimC0AndSpace(input)
	}
	input = removeTabAndNewline(input)

	st := stateSchemeStart
	if override != 0 {
		st = override
	}

	var buffer []byte
	atSignSeen, insideBrackets, passwordTokenSeen := false, false, false

	i := 0
	for i <= len(input) {
		eof := i == len(input)
		var c byte
		if !eof {
			c = input[i]
		}

		switch st {
		case stateSchemeStart:
			if !eof && isAlpha(c) {
				buffer = append(buffer, lower(c))
				st = stateScheme
			} else if override == 0 {
				st = stateNoScheme
				continue
			} else {
				return errSetterRejected
			}

		case stateScheme:
			switch {
			case !eof && (isAlphanumeric(c) || c == '+' || c == '-' || c == '.'):
				buffer = append(buffer, lower(c))
			case !eof && c == ':':
				scheme := string(buffer)
				if override != 0 {
					if isSpecialScheme(u.scheme) != isSpecialScheme(scheme) {
						return errSetterRejected
					}
					if scheme == "file" && (u.includesCredentials() || u.port != nil) {
						return errSetterRejected
					}
					if u.scheme == "file" && u.host.kind == HostEmpty {
						return errSetterRejected
					}
				}
				u.scheme = scheme
				if override != 0 {
					if p, ok := defaultPort(u.scheme); ok && u.port != nil && *u.port == p {
						u.port = nil
					}
					return nil
				}
				buffer = buffer[:0]
				switch {
				case u.scheme == "file":
					st = stateFile
				case u.isSpecial() && base != nil && base.scheme == u.scheme:
					st = stateSpecialRelativeOrAuthority
				case u.isSpecial():
					st = stateSpecialAuthoritySlashes
				case strings.HasPrefix(input[i+1:], "/"):
					st = statePathOrAuthority
					i++
				default:
					u.path = path{opaque: true}
					st = stateOpaquePath
				}
			case override == 0:
				buffer = buffer[:0]
				st = stateNoScheme
				i = 0
				continue
			default:
				return errSetterRejected
			}

		case stateNoScheme:
			if base == nil || (base.path.opaque && (eof || c != '#')) {
				return fmt.Errorf("%w and no usable base", ErrMissingScheme)
			}
			if base.path.opaque {
				u.scheme = base.scheme
				u.path = base.path.clone()
				u.query = cloneString(base.query)
				u.fragment = ptr("")
				st = stateFragment
			} else if base.scheme != "file" {
				st = stateRelative
				continue
			} else {
				st = stateFile
				continue
			}

		case stateSpecialRelativeOrAuthority:
			if !eof && c == '/' && strings.HasPrefix(input[i+1:], "/") {
				st = stateSpecialAuthorityIgnoreSlashes
				i++
			} else {
				st = stateRelative
				continue
			}

		case statePathOrAuthority:
			if !eof && c == '/' {
				st = stateAuthority
			} else {
				st = statePath
				continue
			}

		case stateRelative:
			u.scheme = base.scheme
			if !eof && (c == '/' || (u.isSpecial() && c == '\\')) {
				st = stateRelativeSlash
			} else {
				u.username = base.username
				u.password = base.password
				u.host = base.host
				u.port = clonePort(base.port)
				u.path = base.path.clone()
				u.query = cloneString(base.query)
				switch {
				case !eof && c == '?':
					u.query = ptr("")
					st = stateQuery
				case !eof && c == '#':
					u.fragment = ptr("")
					st = stateFragment
				case !eof:
					u.query = nil
					u.shortenPath()
					st = statePath
					continue
				}
			}

		case stateRelativeSlash:
			if u.isSpecial() && !eof && (c == '/' || c == '\\') {
				st = stateSpecialAuthorityIgnoreSlashes
			} else if !eof && c == '/' {
				st = stateAuthority
			} else {
				u.username = base.username
				u.password = base.password
				u.host = base.host
				u.port = clonePort(base.port)
				st = statePath
				continue
			}

		case stateSpecialAuthoritySlashes:
			st = stateSpecialAuthorityIgnoreSlashes
			if !eof && c == '/' && strings.HasPrefix(input[i+1:], "/") {
				i++
			} else {
				continue
			}

		case stateSpecialAuthorityIgnoreSlashes:
			if eof || (c != '/' && c != '\\') {
				st = stateAuthority
				continue
			}

		case stateAuthority:
			if !eof && c == '@' {
				if atSignSeen {
					buffer = append([]byte("%40"), buffer...)
				}
				atSignSeen = true
				for _, b := range buffer {
					if b == ':' && !passwordTokenSeen {
						passwordTokenSeen = true
						continue
					}
					if passwordTokenSeen {
						u.password = string(appendEncoded([]byte(u.password), b, &userinfoSet))
					} else {
						u.username = string(appendEncoded([]byte(u.username), b, &userinfoSet))
					}
				}
				buffer = buffer[:0]
			} else if eof || c == '/' || c == '?' || c == '#' || (u.isSpecial() && c == '\\') {
				if atSignSeen && len(buffer) == 0 {
					return errHostMissing
				}
				i -= len(buffer) + 1
				buffer = buffer[:0]
				st = stateHost
			} else {
				buffer = append(buffer, c)
			}

		case stateHost, stateHostname:
			if override != 0 && u.scheme == "file" {
				st = stateFileHost
				continue
			} else if !eof && c == ':' && !insideBrackets {
				if len(buffer) == 0 {
					return errHostMissing
				}
				// The hostname setter must not consume a port.
				if override == stateHostname {
					return errSetterRejected
				}
				h, err := ParseHost(string(buffer), u.isSpecial())
				if err != nil {
					return err
				}
				u.host = h
				buffer = buffer[:0]
				st = statePort
			} else if eof || c == '/' || c == '?' || c == '#' || (u.isSpecial() && c == '\\') {
				if u.isSpecial() && len(buffer) == 0 {
					return errHostMissing
				}
				if override != 0 && len(buffer) == 0 && (u.includesCredentials() || u.port != nil) {
					return errSetterRejected
				}
				h, err := ParseHost(string(buffer), u.isSpecial())
				if err != nil {
					return err
				}
				u.host = h
				if override != 0 {
					return nil
				}
				buffer = buffer[:0]
				st = statePathStart
				continue
			} else {
				if c == '[' {
					insideBrackets = true
				}
				if c == ']' {
					insideBrackets = false
				}
				buffer = append(buffer, c)
			}

		case statePort:
			if !eof && isDigit(c) {
				buffer = append(buffer, c)
			} else if eof || c == '/' || c == '?' || c == '#' || (u.isSpecial() && c == '\\') || override != 0 {
				if len(buffer) != 0 {
					n, err := strconv.ParseUint(string(buffer), 10, 32)
					if err != nil || n > 65535 {
						return fmt.Errorf("%w: %q", ErrInvalidPort, buffer)
					}
					if p, ok := defaultPort(u.scheme); ok && uint16(n) == p {
						u.port = nil
					} else {
						u.port = ptr(uint16(n))
					}
					buffer = buffer[:0]
				}
				if override != 0 {
					return nil
				}
				st = statePathStart
				continue
			} else {
				return fmt.Errorf("%w: %q", ErrInvalidPort, c)
			}

		case stateFile:
			u.scheme = "file"
			u.host = Host{kind: HostEmpty}
			if !eof && (c == '/' || c == '\\') {
				st = stateFileSlash
			} else if base != nil && base.scheme == "file" {
				u.host = base.host
				u.path = base.path.clone()
				u.query = cloneString(base.query)
				switch {
				case !eof && c == '?':
					u.query = ptr("")
					st = stateQuery
				case !eof && c == '#':
					u.fragment = ptr("")
					st = stateFragment
				case !eof:
					u.query = nil
					if !startsWithWindowsDriveLetter(input[i:]) {
						u.shortenPath()
					} else {
						u.path.segments = nil
					}
					st = statePath
					continue
				}
			} else {
				st = statePath
				continue
			}

		case stateFileSlash:
			if !eof && (c == '/' || c == '\\') {
				st = stateFileHost
			} else {
				if base != nil && base.scheme == "file" {
					u.host = base.host
					if !startsWithWindowsDriveLetter(input[i:]) &&
						len(base.path.segments) > 0 && isNormalizedWindowsDriveLetter(base.path.segments[0]) {
						u.path.segments = append(u.path.segments, base.path.segments[0])
					}
				}
				st = statePath
				continue
			}

		case stateFileHost:
			if eof || c == '/' || c == '\\' || c == '?' || c == '#' {
				if override == 0 && isWindowsDriveLetter(string(buffer)) {
					// The drive letter is a path segment, not a host.
					// buffer carries over into the path state.
					st = statePath
					continue
				}
				if len(buffer) == 0 {
					u.host = Host{kind: HostEmpty}
					if override != 0 {
						return nil
					}
					st = statePathStart
					continue
				}
				h, err := ParseHost(string(buffer), true)
				if err != nil {
					return err
				}
				if h.kind == HostDomain && h.name == "localhost" {
					h = Host{kind: HostEmpty}
				}
				u.host = h
				if override != 0 {
					return nil
				}
				buffer = buffer[:0]
				st = statePathStart
				continue
			} else {
				buffer = append(buffer, c)
			}

		case statePathStart:
			if u.isSpecial() {
				st = statePath
				if eof || (c != '/' && c != '\\') {
					continue
				}
			} else if override == 0 && !eof && c == '?' {
				u.query = ptr("")
				st = stateQuery
			} else if override == 0 && !eof && c == '#' {
				u.fragment = ptr("")
				st = stateFragment
			} else if !eof {
				st = statePath
				if c != '/' {
					continue
				}
			} else if override != 0 && u.host.kind == HostNone {
				u.path.segments = append(u.path.segments, "")
			}

		case statePath:
			slash := !eof && (c == '/' || (u.isSpecial() && c == '\\'))
			if eof || slash || (override == 0 && (c == '?' || c == '#')) {
				seg := string(buffer)
				switch {
				case isDoubleDotSegment(seg):
					u.shortenPath()
					if !slash {
						u.path.segments = append(u.path.segments, "")
					}
				case isSingleDotSegment(seg):
					if !slash {
						u.path.segments = append(u.path.segments, "")
					}
				default:
					if u.scheme == "file" && len(u.path.segments) == 0 && isWindowsDriveLetter(seg) {
						seg = seg[:1] + ":"
					}
					u.path.segments = append(u.path.segments, seg)
				}
				buffer = buffer[:0]
				if !eof && c == '?' {
					u.query = ptr("")
					st = stateQuery
				} else if !eof && c == '#' {
					u.fragment = ptr("")
					st = stateFragment
				}
			} else {
				buffer = appendEncoded(buffer, c, &pathSet)
			}

		case stateOpaquePath:
			switch {
			case !eof && c == '?':
				u.query = ptr("")
				st = stateQuery
			case !eof && c == '#':
				u.fragment = ptr("")
				st = stateFragment
			case !eof:
				buffer = appendEncoded(buffer, c, &c0ControlSet)
			default:
				u.path.raw = string(buffer)
				buffer = buffer[:0]
			}
			if st != stateOpaquePath {
				u.path.raw = string(buffer)
				buffer = buffer[:0]
			}

		case stateQuery:
			if eof || (override == 0 && c == '#') {
				set := &querySet
				if u.isSpecial() {
					set = &specialQuerySet
				}
				*u.query = percentEncode(string(buffer), set)
				buffer = buffer[:0]
				if !eof {
					u.fragment = ptr("")
					st = stateFragment
				}
			} else {
				buffer = append(buffer, c)
			}

		case stateFragment:
			if !eof {
				buffer = appendEncoded(buffer, c, &fragmentSet)
			} else {
				*u.fragment = string(buffer)
			}
		}

		i++
	}
	return nil
}

func (u *URL) isSpecial() bool { return isSpecialScheme(u.scheme) }

func (u *URL) includesCredentials() bool { return u.username != "" || u.password != "" }

// A URL cannot have credentials or a port when it has no host to attach
// them to, or when it is a file URL.
// https://url.spec.whatwg.org/#cannot-have-a-username-password-port
func (u *URL) cannotHaveCredentials() bool {
	return u.host.kind == HostNone || u.host.kind == HostEmpty || u.scheme == "file"
}

// shortenPath pops the last path segment, except for the drive letter
// root of a file URL. https://url.spec.whatwg.org/#shorten-a-urls-path
func (u *URL) shortenPath() {
	if u.scheme == "file" && len(u.path.segments) == 1 && isNormalizedWindowsDriveLetter(u.path.segments[0]) {
		return
	}
	if n := len(u.path.segments); n > 0 {
		u.path.segments = u.path.segments[:n-1]
	}
}

func isSingleDotSegment(s string) bool {
	return s == "." || strings.EqualFold(s, "%2e")
}

func isDoubleDotSegment(s string) bool {
	switch len(s) {
	case 2:
		return s == ".."
	case 4:
		return strings.EqualFold(s, ".%2e") || strings.EqualFold(s, "%2e.")
	case 6:
		return strings.EqualFold(s, "%2e%2e")
	}
	return false
}

func isWindowsDriveLetter(s string) bool {
	return len(s) == 2 && isAlpha(s[0]) && (s[1] == ':' || s[1] == '|')
}

func isNormalizedWindowsDriveLetter(s string) bool {
	return len(s) == 2 && isAlpha(s[0]) && s[1] == ':'
}

// A string starts with a Windows drive letter when the two letter
// prefix is followed by nothing, a path delimiter, query or fragment.
func startsWithWindowsDriveLetter(s string) bool {
	if len(s) < 2 || !isWindowsDriveLetter(s[:2]) {
		return false
	}
	return len(s) == 2 || s[2] == '/' || s[2] == '\\' || s[2] == '?' || s[2] == '#'
}

func trimC0AndSpace(s string) string {
	start := 0
	for start < len(s) && s[start] <= ' ' {
		start++
	}
	end := len(s)
	for end > start && s[end-1] <= ' ' {
		end--
	}
	return s[start:end]
}

func removeTabAndNewline(s string) string {
	if !strings.ContainsAny(s, "\t\n\r") {
		return s
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\t', '\n', '\r':
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

func ptr[T any](v T) *T { return &v }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	return ptr(*s)
}

func clonePort(p *uint16) *uint16 {
	if p == nil {
		return nil
	}
	return ptr(*p)
}
