package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchParams(t *testing.T) {
	t.Parallel()

	t.Run("ordered pairs with duplicates", func(t *testing.T) {
		p := ParseSearchParams("a=1&b=2&a=3")
		assert.Equal(t, 3, p.Len())
		v, ok := p.Get("a")
		assert.True(t, ok)
		assert.Equal(t, "1", v)
		assert.Equal(t, []string{"1", "3"}, p.GetAll("a"))
	})

	t.Run("leading question mark tolerated", func(t *testing.T) {
		p := ParseSearchParams("?x=1")
		v, _ := p.Get("x")
		assert.Equal(t, "1", v)
	})

	t.Run("missing values", func(t *testing.T) {
		p := ParseSearchParams("a&b=")
		v, ok := p.Get("a")
		assert.True(t, ok)
		assert.Empty(t, v)
		v, ok = p.Get("b")
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("empty pairs skipped", func(t *testing.T) {
		p := ParseSearchParams("&&a=1&")
		assert.Equal(t, 1, p.Len())
	})

	t.Run("plus decodes as space", func(t *testing.T) {
		p := ParseSearchParams("k+w=v+1")
		v, ok := p.Get("k w")
		assert.True(t, ok)
		assert.Equal(t, "v 1", v)
	})

	t.Run("escapes decode after splitting", func(t *testing.T) {
		p := ParseSearchParams("a%3Db=1%262")
		v, ok := p.Get("a=b")
		assert.True(t, ok)
		assert.Equal(t, "1&2", v)
	})

	t.Run("missing key", func(t *testing.T) {
		p := ParseSearchParams("a=1")
		_, ok := p.Get("zz")
		assert.False(t, ok)
		assert.Nil(t, p.GetAll("zz"))
	})
}

func TestSearchParamsMutation(t *testing.T) {
	t.Parallel()

	t.Run("append keeps duplicates", func(t *testing.T) {
		p := ParseSearchParams("a=1")
		p.Append("a", "2")
		assert.Equal(t, []string{"1", "2"}, p.GetAll("a"))
		assert.Equal(t, "a=1&a=2", p.String())
	})

	t.Run("set replaces first and drops the rest", func(t *testing.T) {
		p := ParseSearchParams("a=1&b=2&a=3")
		p.Set("a", "9")
		assert.Equal(t, "a=9&b=2", p.String())
	})

	t.Run("set appends when absent", func(t *testing.T) {
		p := ParseSearchParams("a=1")
		p.Set("b", "2")
		assert.Equal(t, "a=1&b=2", p.String())
	})

	t.Run("delete removes all occurrences", func(t *testing.T) {
		p := ParseSearchParams("a=1&b=2&a=3")
		p.Delete("a")
		assert.Equal(t, "b=2", p.String())
	})

	t.Run("delete by value", func(t *testing.T) {
		p := ParseSearchParams("a=1&a=2&a=1")
		p.DeleteValue("a", "1")
		assert.Equal(t, "a=2", p.String())
	})

	t.Run("has", func(t *testing.T) {
		p := ParseSearchParams("a=1&b=2")
		assert.True(t, p.Has("a"))
		assert.False(t, p.Has("c"))
		assert.True(t, p.HasValue("a", "1"))
		assert.False(t, p.HasValue("a", "2"))
	})
}

func TestSearchParamsSort(t *testing.T) {
	t.Parallel()

	t.Run("stable by key", func(t *testing.T) {
		p := ParseSearchParams("b=2&a=1&b=1")
		p.Sort()
		assert.Equal(t, "a=1&b=2&b=1", p.String())
	})

	t.Run("utf16 code unit order", func(t *testing.T) {
		// U+1F436 encodes as a surrogate pair starting at 0xD83D, which
		// sorts below U+FB03 in code units despite the higher code point.
		p := new(SearchParams)
		p.Append("ﬃ", "1")
		p.Append("\U0001F436", "2")
		p.Sort()

		var keys []string
		for k := range p.Keys() {
			keys = append(keys, k)
		}
		assert.Equal(t, []string{"\U0001F436", "ﬃ"}, keys)
	})
}

func TestSearchParamsIteration(t *testing.T) {
	t.Parallel()

	p := ParseSearchParams("a=1&b=2")

	var got [][2]string
	for k, v := range p.All() {
		got = append(got, [2]string{k, v})
	}
	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}}, got)

	var values []string
	for v := range p.Values() {
		values = append(values, v)
	}
	assert.Equal(t, []string{"1", "2"}, values)

	t.Run("snapshot unaffected by mutation", func(t *testing.T) {
		seq := p.All()
		p.Append("c", "3")
		n := 0
		for range seq {
			n++
		}
		assert.Equal(t, 2, n)
	})
}

func TestSearchParamsString(t *testing.T) {
	t.Parallel()

	p := new(SearchParams)
	p.Append("a", "b c")
	p.Append("sym", "&=?")
	assert.Equal(t, "a=b+c&sym=%26%3D%3F", p.String())

	again := ParseSearchParams(p.String())
	v, _ := again.Get("sym")
	assert.Equal(t, "&=?", v)
}

func TestURLSearchParams(t *testing.T) {
	t.Parallel()

	u, err := Parse("https://example.com/?a=1&b=2")
	require.NoError(t, err)

	p := u.SearchParams()
	assert.Equal(t, 2, p.Len())

	// The view is detached: mutating it leaves the URL alone until the
	// result is written back through SetSearch.
	p.Set("a", "9")
	assert.Equal(t, "?a=1&b=2", u.Search())

	u.SetSearch(p.String())
	assert.Equal(t, "?a=9&b=2", u.Search())

	empty, err := Parse("https://example.com/")
	require.NoError(t, err)
	assert.Zero(t, empty.SearchParams().Len())
}
