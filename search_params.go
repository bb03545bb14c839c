package url

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf16"
)

// SearchParams is the ordered key/value model of an
// application/x-www-form-urlencoded query string. Duplicate keys are
// permitted and insertion order is significant until Sort is called.
// https://url.spec.whatwg.org/#interface-urlsearchparams
type SearchParams struct {
	pairs []pair
}

type pair struct {
	key   string
	value string
}

// ParseSearchParams parses a query string into its ordered pairs. A
// leading '?' is tolerated, '+' decodes as space, and pairs without '='
// get an empty value. Parsing never fails: malformed percent escapes
// pass through as literals.
func ParseSearchParams(query string) *SearchParams {
	p := new(SearchParams)
	query = strings.TrimPrefix(query, "?")
	for query != "" {
		var kv string
		kv, query, _ = strings.Cut(query, "&")
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		p.pairs = append(p.pairs, pair{key: formDecode(k), value: formDecode(v)})
	}
	return p
}

// Len returns the number of pairs.
func (p *SearchParams) Len() int { return len(p.pairs) }

// Append adds a pair at the end, keeping any existing pairs with the
// same key.
func (p *SearchParams) Append(key, value string) {
	p.pairs = append(p.pairs, pair{key: key, value: value})
}

// Set replaces the value of the first pair with the given key and
// removes the rest, or appends when the key is absent. The surviving
// pair keeps the first occurrence's position.
func (p *SearchParams) Set(key, value string) {
	found := false
	p.pairs = slices.DeleteFunc(p.pairs, func(kv pair) bool {
		if kv.key != key {
			return false
		}
		if found {
			return true
		}
		found = true
		return false
	})
	if !found {
		p.Append(key, value)
		return
	}
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = value
			break
		}
	}
}

// Delete removes every pair with the given key.
func (p *SearchParams) Delete(key string) {
	p.pairs = slices.DeleteFunc(p.pairs, func(kv pair) bool { return kv.key == key })
}

// DeleteValue removes every pair matching both key and value.
func (p *SearchParams) DeleteValue(key, value string) {
	p.pairs = slices.DeleteFunc(p.pairs, func(kv pair) bool {
		return kv.key == key && kv.value == value
	})
}

// Get returns the value of the first pair with the given key.
func (p *SearchParams) Get(key string) (string, bool) {
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// GetAll returns the values of every pair with the given key, in order.
func (p *SearchParams) GetAll(key string) []string {
	var values []string
	for _, kv := range p.pairs {
		if kv.key == key {
			values = append(values, kv.value)
		}
	}
	return values
}

// Has reports whether any pair has the given key.
func (p *SearchParams) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// HasValue reports whether any pair matches both key and value.
func (p *SearchParams) HasValue(key, value string) bool {
	for _, kv := range p.pairs {
		if kv.key == key && kv.value == value {
			return true
		}
	}
	return false
}

// Sort orders pairs by key, comparing UTF-16 code units as the standard
// requires. The sort is stable: pairs with equal keys keep their
// relative order.
func (p *SearchParams) Sort() {
	slices.SortStableFunc(p.pairs, func(a, b pair) int {
		return compareCodeUnits(a.key, b.key)
	})
}

// All returns a one-shot iterator over a snapshot of the pairs taken
// now; later mutation of p does not affect an iteration in flight.
func (p *SearchParams) All() iter.Seq2[string, string] {
	pairs := slices.Clone(p.pairs)
	return func(yield func(string, string) bool) {
		for _, kv := range pairs {
			if !yield(kv.key, kv.value) {
				return
			}
		}
	}
}

// Keys returns a one-shot iterator over a snapshot of the keys.
func (p *SearchParams) Keys() iter.Seq[string] {
	pairs := slices.Clone(p.pairs)
	return func(yield func(string) bool) {
		for _, kv := range pairs {
			if !yield(kv.key) {
				return
			}
		}
	}
}

// Values returns a one-shot iterator over a snapshot of the values.
func (p *SearchParams) Values() iter.Seq[string] {
	pairs := slices.Clone(p.pairs)
	return func(yield func(string) bool) {
		for _, kv := range pairs {
			if !yield(kv.value) {
				return
			}
		}
	}
}

// String serializes the pairs as form-urlencoded "key=value&..." with
// spaces as '+'.
func (p *SearchParams) String() string {
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		formEncode(&b, kv.key)
		b.WriteByte('=')
		formEncode(&b, kv.value)
	}
	return b.String()
}

// compareCodeUnits orders strings by UTF-16 code units. This differs
// from byte order only when one side leaves the basic multilingual
// plane: surrogate halves sort below U+E000..U+FFFF.
func compareCodeUnits(a, b string) int {
	if isBMP(a) && isBMP(b) {
		return strings.Compare(a, b)
	}
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

func isBMP(s string) bool {
	for _, r := range s {
		if r > 0xffff {
			return false
		}
	}
	return true
}
