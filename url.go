// Package url parses, mutates and serializes URLs per the WHATWG URL
// standard: scheme-aware authority and path grammar, host normalization
// through IDNA, percent-encoding by component, relative resolution
// against a base, and the application/x-www-form-urlencoded query model.
// https://url.spec.whatwg.org
package url

import (
	"fmt"
	"slices"
	"strings"
)

// URL is a parsed, normalized URL record. The zero value is not usable;
// obtain one from Parse or ParseBase. Read accessors are safe for
// concurrent use; setters require exclusive access.
type URL struct {
	scheme   string
	username string
	password string
	host     Host
	port     *uint16 // nil when absent or equal to the scheme default
	path     path
	query    *string // excludes the leading '?'
	fragment *string // excludes the leading '#'

	href  string
	comps Components
}

// path is either a segment list (hierarchical and special schemes) or a
// single unstructured string (opaque, e.g. "mailto:x@y").
type path struct {
	opaque   bool
	raw      string
	segments []string
}

func (p path) clone() path {
	p.segments = slices.Clone(p.segments)
	return p
}

// Parse parses input as an absolute URL.
func Parse(input string) (*URL, error) {
	return parse(input, nil)
}

// ParseBase parses input against base, resolving relative references.
func ParseBase(input, base string) (*URL, error) {
	b, err := Parse(base)
	if err != nil {
		return nil, err
	}
	return parse(input, b)
}

// Parse parses input relative to u.
func (u *URL) Parse(input string) (*URL, error) {
	return parse(input, u)
}

// CanParse reports whether input parses as an absolute URL.
func CanParse(input string) bool {
	var u URL
	return parseURL(input, nil, &u, 0) == nil
}

// CanParseBase reports whether input parses against base.
func CanParseBase(input, base string) bool {
	b, err := Parse(base)
	if err != nil {
		return false
	}
	var u URL
	return parseURL(input, b, &u, 0) == nil
}

func parse(input string, base *URL) (*URL, error) {
	u := new(URL)
	if err := parseURL(input, base, u, 0); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidURL, input, err)
	}
	u.serialize()
	return u, nil
}

func (u *URL) clone() *URL {
	c := *u
	c.path = u.path.clone()
	c.port = clonePort(u.port)
	c.query = cloneString(u.query)
	c.fragment = cloneString(u.fragment)
	return &c
}

// commit replaces u with the successfully mutated scratch copy and
// refreshes the serialized href and its component offsets.
func (u *URL) commit(c *URL) {
	c.serialize()
	*u = *c
}

// Href returns the serialized URL.
func (u *URL) Href() string { return u.href }

// String returns the serialized URL.
func (u *URL) String() string { return u.href }

// Protocol returns the scheme with its trailing colon, e.g. "https:".
func (u *URL) Protocol() string { return u.href[:u.comps.ProtocolEnd] }

// Username returns the percent-encoded username.
func (u *URL) Username() string { return u.username }

// Password returns the percent-encoded password.
func (u *URL) Password() string { return u.password }

// Host returns the host with the port when one is set,
// e.g. "127.0.0.1:8080".
func (u *URL) Host() string {
	if u.comps.HostStart == Omitted {
		return ""
	}
	return u.href[u.comps.HostStart:u.comps.PathnameStart]
}

// Hostname returns the host without the port. Non-ASCII domain labels
// are punycode-encoded for special URLs, percent-encoded otherwise.
func (u *URL) Hostname() string {
	if u.comps.HostStart == Omitted {
		return ""
	}
	return u.href[u.comps.HostStart:u.comps.HostEnd]
}

// Port returns the port digits, or "" when the port is unset or equal
// to the scheme's default.
func (u *URL) Port() string {
	if u.comps.Port == Omitted {
		return ""
	}
	return u.href[u.comps.Port:u.comps.PathnameStart]
}

// Pathname returns the percent-encoded path.
func (u *URL) Pathname() string {
	end := uint32(len(u.href))
	if u.comps.SearchStart != Omitted {
		end = u.comps.SearchStart
	} else if u.comps.HashStart != Omitted {
		end = u.comps.HashStart
	}
	return u.href[u.comps.PathnameStart:end]
}

// Search returns the query with its leading '?', or "" when the query
// is absent or empty.
func (u *URL) Search() string {
	if u.query == nil || *u.query == "" {
		return ""
	}
	end := uint32(len(u.href))
	if u.comps.HashStart != Omitted {
		end = u.comps.HashStart
	}
	return u.href[u.comps.SearchStart:end]
}

// Hash returns the fragment with its leading '#', or "" when the
// fragment is absent or empty.
func (u *URL) Hash() string {
	if u.fragment == nil || *u.fragment == "" {
		return ""
	}
	return u.href[u.comps.HashStart:]
}

// SearchParams returns the query parsed as form-urlencoded pairs. The
// result is a detached copy: mutations do not write back to u. Apply
// them with SetSearch(params.String()).
func (u *URL) SearchParams() *SearchParams {
	if u.query == nil {
		return &SearchParams{}
	}
	return ParseSearchParams(*u.query)
}

// HasCredentials reports whether a username or password is set.
func (u *URL) HasCredentials() bool { return u.includesCredentials() }

// HasHostname reports whether the URL has a host, empty or not.
func (u *URL) HasHostname() bool { return u.host.kind != HostNone }

// HasEmptyHostname reports whether the host is present but empty.
func (u *URL) HasEmptyHostname() bool { return u.host.kind == HostEmpty }

// HasNonEmptyUsername reports whether the username is non-empty.
func (u *URL) HasNonEmptyUsername() bool { return u.username != "" }

// HasPassword reports whether the password is non-empty.
func (u *URL) HasPassword() bool { return u.password != "" }

// HasNonEmptyPassword reports whether the password is non-empty.
func (u *URL) HasNonEmptyPassword() bool { return u.password != "" }

// HasPort reports whether a non-default port is set.
func (u *URL) HasPort() bool { return u.port != nil }

// HasSearch reports whether a query is set, even an empty one.
func (u *URL) HasSearch() bool { return u.query != nil }

// HasHash reports whether a fragment is set, even an empty one.
func (u *URL) HasHash() bool { return u.fragment != nil }

// Setters follow a clone-then-commit discipline: the mutation runs on a
// scratch copy and replaces the live record only when the re-entered
// sub-grammar accepts the input. On failure the record, its href and
// offsets are untouched; boolean setters report which happened.

// SetHref reparses the whole URL from input.
func (u *URL) SetHref(input string) bool {
	v, err := Parse(input)
	if err != nil {
		return false
	}
	*u = *v
	return true
}

// SetProtocol changes the scheme. A switch between special and
// non-special schemes is structurally impossible and is rejected.
func (u *URL) SetProtocol(input string) bool {
	c := u.clone()
	if parseURL(input+":", nil, c, stateSchemeStart) != nil {
		return false
	}
	u.commit(c)
	return true
}

// SetUsername percent-encodes input with the userinfo set. It fails on
// URLs that cannot carry credentials.
func (u *URL) SetUsername(input string) bool {
	if u.cannotHaveCredentials() {
		return false
	}
	c := u.clone()
	c.username = percentEncode(input, &userinfoSet)
	u.commit(c)
	return true
}

// SetPassword percent-encodes input with the userinfo set. It fails on
// URLs that cannot carry credentials.
func (u *URL) SetPassword(input string) bool {
	if u.cannotHaveCredentials() {
		return false
	}
	c := u.clone()
	c.password = percentEncode(input, &userinfoSet)
	u.commit(c)
	return true
}

// SetHost reparses input as host and optional port.
func (u *URL) SetHost(input string) bool {
	if u.path.opaque {
		return false
	}
	c := u.clone()
	if parseURL(input, nil, c, stateHost) != nil {
		return false
	}
	u.commit(c)
	return true
}

// SetHostname reparses input as the host, keeping the port.
func (u *URL) SetHostname(input string) bool {
	if u.path.opaque {
		return false
	}
	c := u.clone()
	if parseURL(input, nil, c, stateHostname) != nil {
		return false
	}
	u.commit(c)
	return true
}

// SetPort sets the port from leading decimal digits. The empty string
// clears the port; out-of-range or non-numeric input is rejected. A
// port equal to the scheme default normalizes to unset.
func (u *URL) SetPort(input string) bool {
	if u.cannotHaveCredentials() {
		return false
	}
	c := u.clone()
	if input == "" {
		c.port = nil
		u.commit(c)
		return true
	}
	n, i := 0, 0
	for ; i < len(input) && isDigit(input[i]); i++ {
		n = n*10 + int(input[i]-'0')
		if n > 65535 {
			return false
		}
	}
	if i == 0 {
		return false
	}
	if p, ok := defaultPort(u.scheme); ok && uint16(n) == p {
		c.port = nil
	} else {
		c.port = ptr(uint16(n))
	}
	u.commit(c)
	return true
}

// SetPathname reparses input through the path states. It fails on URLs
// with an opaque path.
func (u *URL) SetPathname(input string) bool {
	if u.path.opaque {
		return false
	}
	c := u.clone()
	c.path.segments = nil
	if parseURL(input, nil, c, statePathStart) != nil {
		return false
	}
	u.commit(c)
	return true
}

// SetSearch replaces the query, re-encoding with the query set. The
// empty string clears the query and drops the '?' from the href.
func (u *URL) SetSearch(input string) {
	c := u.clone()
	if input == "" {
		c.query = nil
		c.stripOpaquePathSpaces()
		u.commit(c)
		return
	}
	input = strings.TrimPrefix(input, "?")
	c.query = ptr("")
	// The query state cannot fail without a state-override '#' exit.
	_ = parseURL(input, nil, c, stateQuery)
	u.commit(c)
}

// SetHash replaces the fragment, re-encoding with the fragment set. The
// empty string clears the fragment and drops the '#' from the href.
func (u *URL) SetHash(input string) {
	c := u.clone()
	if input == "" {
		c.fragment = nil
		c.stripOpaquePathSpaces()
		u.commit(c)
		return
	}
	input = strings.TrimPrefix(input, "#")
	c.fragment = ptr("")
	_ = parseURL(input, nil, c, stateFragment)
	u.commit(c)
}

// With no query or fragment left, trailing spaces in an opaque path
// would not survive a reparse of the href, so they are removed.
// https://url.spec.whatwg.org/#potentially-strip-trailing-spaces-from-an-opaque-path
func (u *URL) stripOpaquePathSpaces() {
	if u.path.opaque && u.query == nil && u.fragment == nil {
		u.path.raw = strings.TrimRight(u.path.raw, " ")
	}
}

// Equal reports whether two URLs serialize identically.
func (u *URL) Equal(other *URL) bool { return other != nil && u.href == other.href }

// Compare orders URLs by their serialization.
func (u *URL) Compare(other *URL) int { return strings.Compare(u.href, other.href) }

// MarshalText returns the href; it never fails.
func (u *URL) MarshalText() ([]byte, error) { return []byte(u.href), nil }

// UnmarshalText parses text as an absolute URL in place.
func (u *URL) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = *v
	return nil
}

// GoString renders the href together with the component offsets.
func (u *URL) GoString() string {
	return fmt.Sprintf("url.URL{Href: %q, Components: %+v}", u.href, u.comps)
}
