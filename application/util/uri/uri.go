package uri

import (
	"strconv"
	"strings"
)

// URI is a URI reference split into its components.
//
// Every field has a getter, an in-place setter returning the receiver, and a
// copying With variant which leaves the receiver untouched.
// Setters are not safe for concurrent use on the same value.
type URI struct {
	scheme   string
	host     string
	port     *uint16
	path     string
	query    Query
	fragment string
}

// String composes scheme, "://" and host, port, path, query and fragment.
// "://" is written only when host is set, so "http" with path "/p" gives "http/p".
// Port is omitted when it is the scheme's default port.
func (u *URI) String() string {
	b := new(strings.Builder)
	b.WriteString(u.scheme)

	// Without a host, scheme and path are joined directly.
	if u.host != "" {
		b.WriteString("://")
		b.WriteString(escape(u.host, encodeHost))
	}

	if u.port != nil && !isDefaultPort(u.scheme, *u.port) {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(*u.port), 10))
	}

	b.WriteString(escape(u.path, encodePath))

	if u.query.Len() > 0 {
		b.WriteByte('?')
		b.WriteString(u.query.Encode())
	}

	if u.fragment != "" {
		b.WriteByte('#')
		b.WriteString(escape(u.fragment, encodeFragment))
	}

	return b.String()
}

// Clone returns a deep copy of u.
func (u *URI) Clone() *URI {
	clone := *u
	if u.port != nil {
		port := *u.port
		clone.port = &port
	}
	clone.query = u.query.Clone()
	return &clone
}

// Equal reports whether u and other have the same components.
// Query order is not significant.
func (u *URI) Equal(other *URI) bool {
	if u == nil || other == nil {
		return u == other
	}

	samePort := (u.port == nil) == (other.port == nil) &&
		(u.port == nil || *u.port == *other.port)

	return samePort &&
		u.scheme == other.scheme &&
		u.host == other.host &&
		u.path == other.path &&
		u.fragment == other.fragment &&
		u.query.Equal(other.query)
}

func (u *URI) with(mutate func(c *URI)) *URI {
	c := u.Clone()
	mutate(c)
	return c
}

func (u *URI) Scheme() string               { return u.scheme }
func (u *URI) SetScheme(scheme string) *URI { u.scheme = scheme; return u }
func (u *URI) WithScheme(scheme string) *URI {
	return u.with(func(c *URI) { c.scheme = scheme })
}
func (u *URI) WithoutScheme() *URI { return u.WithScheme("") }

func (u *URI) Host() string             { return u.host }
func (u *URI) SetHost(host string) *URI { u.host = host; return u }
func (u *URI) WithHost(host string) *URI {
	return u.with(func(c *URI) { c.host = host })
}
func (u *URI) WithoutHost() *URI { return u.WithHost("") }

// Port returns the explicit port. The scheme's default port is not reported.
func (u *URI) Port() (port uint16, ok bool) {
	if u.port == nil {
		return 0, false
	}
	return *u.port, true
}
func (u *URI) SetPort(port uint16) *URI { u.port = &port; return u }
func (u *URI) WithPort(port uint16) *URI {
	return u.with(func(c *URI) { c.port = &port })
}
func (u *URI) WithoutPort() *URI {
	return u.with(func(c *URI) { c.port = nil })
}

func (u *URI) Path() string             { return u.path }
func (u *URI) SetPath(path string) *URI { u.path = path; return u }
func (u *URI) WithPath(path string) *URI {
	return u.with(func(c *URI) { c.path = path })
}
func (u *URI) WithoutPath() *URI { return u.WithPath("") }

// Query returns a copy of the query. Changing it does not affect u.
func (u *URI) Query() Query { return u.query.Clone() }

// SetQuery stores a copy of q.
func (u *URI) SetQuery(q Query) *URI { u.query = q.Clone(); return u }
func (u *URI) WithQuery(q Query) *URI {
	return u.with(func(c *URI) { c.query = q.Clone() })
}
func (u *URI) WithoutQuery() *URI { return u.WithQuery(Query{}) }

// WithQueryParam returns a copy of u with key set to value.
func (u *URI) WithQueryParam(key, value string) *URI {
	return u.with(func(c *URI) { c.query.Set(key, value) })
}

func (u *URI) Fragment() string                 { return u.fragment }
func (u *URI) SetFragment(fragment string) *URI { u.fragment = fragment; return u }
func (u *URI) WithFragment(fragment string) *URI {
	return u.with(func(c *URI) { c.fragment = fragment })
}
func (u *URI) WithoutFragment() *URI { return u.WithFragment("") }

// RequestTarget returns path and query in origin-form.
// An empty path is written as "/".
func (u *URI) RequestTarget() string {
	path := u.path
	if path == "" {
		path = "/"
	}
	target := &URI{path: path, query: u.query}
	return target.String()
}
