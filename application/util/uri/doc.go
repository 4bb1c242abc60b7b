// Package uri implements the URI value used by HTTP messages.
//
// Parsing is lenient in the way common form handlers are: a string is split into
// scheme, host, port, path, query and fragment without rejecting unusual input,
// and the query is decoded into an ordered key-value [Query].
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
package uri
