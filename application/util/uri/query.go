package uri

import (
	"slices"
	"sort"
	"strings"
)

// Query is an ordered mapping of query keys to values.
// Order is kept for serialization but ignored by [Query.Equal].
// The zero value is an empty query ready to use.
type Query struct {
	keys   []string
	values map[string]string
}

// ParseQuery decodes form-encoded s.
// A key seen again overwrites the earlier value but keeps its position.
// Pairs with an empty key are dropped.
func ParseQuery(s string) Query {
	var q Query
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}

		k, v, _ := strings.Cut(pair, "=")
		k = unescapeForm(k)
		if k == "" {
			continue
		}
		q.Set(k, unescapeForm(v))
	}
	return q
}

// QueryFrom builds a query from m. Keys are ordered lexically.
func QueryFrom(m map[string]string) Query {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var q Query
	for _, k := range keys {
		q.Set(k, m[k])
	}
	return q
}

func (q *Query) Get(key string) (value string, ok bool) {
	value, ok = q.values[key]
	return
}

func (q *Query) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

func (q *Query) Set(key, value string) {
	if q.values == nil {
		q.values = make(map[string]string)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = value
}

func (q *Query) Del(key string) {
	if _, ok := q.values[key]; !ok {
		return
	}
	delete(q.values, key)
	q.keys = slices.DeleteFunc(q.keys, func(k string) bool { return k == key })
}

func (q *Query) Len() int { return len(q.keys) }

// Keys returns keys in serialization order.
func (q *Query) Keys() []string { return slices.Clone(q.keys) }

// Map returns a copy of the query as a plain map.
func (q *Query) Map() map[string]string {
	m := make(map[string]string, len(q.values))
	for k, v := range q.values {
		m[k] = v
	}
	return m
}

// Clone returns a deep copy which shares nothing with q.
func (q *Query) Clone() Query {
	if q.Len() == 0 {
		return Query{}
	}
	return Query{keys: slices.Clone(q.keys), values: q.Map()}
}

func (q *Query) Equal(other Query) bool {
	if q.Len() != other.Len() {
		return false
	}
	for k, v := range q.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Encode writes the query in RFC 3986 form ("a=1&b=x%20y").
// Spaces are written as %20, never as '+'.
func (q *Query) Encode() string {
	b := new(strings.Builder)
	for idx, k := range q.keys {
		if idx > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(k, encodeQueryComponent))
		b.WriteByte('=')
		b.WriteString(escape(q.values[k], encodeQueryComponent))
	}
	return b.String()
}
