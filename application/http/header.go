package http

import (
	"slices"
	"sort"
	"strings"

	"simple-http/application/util/rule"
)

// ValueSeparator splits a header value into segments.
// This is a deliberate simplification: every header is treated as a list of ';' separated values.
const ValueSeparator = ";"

// Headers maps header names to lists of value segments.
//
// Lookup is case-insensitive while the casing of the latest write is kept for serialization.
// Names are kept in the order they were first added.
// The zero value is an empty store ready to use. Headers is not safe for concurrent mutation.
type Headers struct {
	order   []string // lower-cased names
	entries map[string]*headerEntry
}

type headerEntry struct {
	name   string
	values []string
}

func NewHeaders() *Headers { return &Headers{} }

// HeadersFrom creates a store from name-value pairs, applied in lexical order of names.
func HeadersFrom(m map[string]string) *Headers {
	h := NewHeaders()
	h.Add(m)
	return h
}

// HeadersFromLines creates a store from "Name: value" lines.
func HeadersFromLines(lines ...string) *Headers {
	h := NewHeaders()
	h.AddLines(lines...)
	return h
}

// Add sets every name of m to its split value.
// Names are applied in lexical order so the result does not depend on map iteration.
func (h *Headers) Add(m map[string]string) *Headers {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h.Set(name, m[name])
	}
	return h
}

// AddLines adds raw "Name: value" lines. Lines without a colon are skipped.
func (h *Headers) AddLines(lines ...string) *Headers {
	for _, line := range lines {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		h.Set(name, value)
	}
	return h
}

// Set splits value on [ValueSeparator] and replaces any earlier values of name.
func (h *Headers) Set(name, value string) *Headers {
	return h.SetValues(name, splitValue(value)...)
}

// SetValues replaces values of name with values as they are, without splitting.
func (h *Headers) SetValues(name string, values ...string) *Headers {
	name = normalizeName(name)
	if name == "" {
		return h
	}

	if h.entries == nil {
		h.entries = make(map[string]*headerEntry)
	}

	key := strings.ToLower(name)
	if _, ok := h.entries[key]; !ok {
		h.order = append(h.order, key)
	}
	h.entries[key] = &headerEntry{name: name, values: slices.Clone(values)}

	return h
}

// Get returns the value segments of name. It is empty when name is absent.
func (h *Headers) Get(name string) []string {
	entry, ok := h.lookup(name)
	if !ok {
		return []string{}
	}
	return slices.Clone(entry.values)
}

// Has reports whether name exists, regardless of its case.
func (h *Headers) Has(name string) bool {
	_, ok := h.lookup(name)
	return ok
}

// Contains reports whether a segment of name equals value, ignoring case.
func (h *Headers) Contains(name, value string) bool {
	entry, ok := h.lookup(name)
	if !ok {
		return false
	}
	return slices.ContainsFunc(entry.values, func(v string) bool {
		return strings.EqualFold(v, value)
	})
}

func (h *Headers) Remove(name string) *Headers {
	key := strings.ToLower(normalizeName(name))
	if _, ok := h.entries[key]; !ok {
		return h
	}
	delete(h.entries, key)
	h.order = slices.DeleteFunc(h.order, func(k string) bool { return k == key })
	return h
}

// RemoveValue drops the segments of name which contain marker, ignoring case.
// It is used to strip tokens such as "boundary=" from a multipart Content-Type.
// The name is kept with an empty value list once no segment is left.
func (h *Headers) RemoveValue(name, marker string) *Headers {
	entry, ok := h.lookup(name)
	if !ok {
		return h
	}

	marker = strings.ToLower(marker)
	entry.values = slices.DeleteFunc(entry.values, func(v string) bool {
		return strings.Contains(strings.ToLower(v), marker)
	})
	return h
}

func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.order)
}

// Names returns header names in insertion order, with their stored casing.
func (h *Headers) Names() []string {
	if h == nil {
		return nil
	}
	names := make([]string, 0, len(h.order))
	for _, key := range h.order {
		names = append(names, h.entries[key].name)
	}
	return names
}

// Flatten renders every header as a "Name:seg1;seg2" line.
func (h *Headers) Flatten() []string {
	if h == nil {
		return []string{}
	}
	lines := make([]string, 0, len(h.order))
	for _, key := range h.order {
		entry := h.entries[key]
		lines = append(lines, entry.name+":"+strings.Join(entry.values, ValueSeparator))
	}
	return lines
}

// Structured returns a copy of the store as name to segments.
func (h *Headers) Structured() map[string][]string {
	m := make(map[string][]string, h.Len())
	if h == nil {
		return m
	}
	for _, entry := range h.entries {
		m[entry.name] = slices.Clone(entry.values)
	}
	return m
}

// Clone returns a deep copy of h. A nil store is cloned into an empty one.
func (h *Headers) Clone() *Headers {
	clone := NewHeaders()
	if h == nil || len(h.order) == 0 {
		return clone
	}

	clone.order = slices.Clone(h.order)
	clone.entries = make(map[string]*headerEntry, len(h.entries))
	for key, entry := range h.entries {
		clone.entries[key] = &headerEntry{name: entry.name, values: slices.Clone(entry.values)}
	}
	return clone
}

func (h *Headers) lookup(name string) (*headerEntry, bool) {
	if h == nil {
		return nil, false
	}
	entry, ok := h.entries[strings.ToLower(normalizeName(name))]
	return entry, ok
}

func normalizeName(name string) string {
	return strings.ReplaceAll(rule.TrimBlanks(name), "_", "-")
}

func splitValue(value string) []string {
	segments := strings.Split(value, ValueSeparator)
	for idx, seg := range segments {
		segments[idx] = rule.TrimBlanks(seg)
	}
	return segments
}
