// Package idna converts internationalized domain name labels between
// their Unicode and punycode ASCII forms per UTS #46.
// https://www.unicode.org/reports/tr46/
package idna

import xidna "golang.org/x/net/idna"

// The lookup profile of the URL standard's domain-to-ASCII: UTS #46
// non-transitional processing with beStrict false, so hyphen placement,
// STD3 character rules and DNS length limits are not enforced.
// https://url.spec.whatwg.org/#concept-domain-to-ascii
var lookup = xidna.New(
	xidna.MapForLookup(),
	xidna.BidiRule(),
	xidna.CheckHyphens(false),
	xidna.StrictDomainName(false),
	xidna.Transitional(false),
)

// ToASCII maps a domain to its ASCII form, punycode-encoding non-ASCII
// labels. Failure is a hard error: callers must not fall back to
// treating the input as an opaque host.
func ToASCII(domain string) (string, error) {
	return lookup.ToASCII(domain)
}

// ToUnicode maps a punycode-encoded domain back to its Unicode form.
// It never fails: labels that cannot be decoded pass through as-is.
func ToUnicode(domain string) string {
	out, _ := lookup.ToUnicode(domain)
	return out
}
