// Package http implements simple HTTP/1.x messages and their raw wire form.
//
// A [Request] is serialized into raw bytes ready for a byte stream, and raw
// response bytes are parsed back into a [Response]. Both kinds share a header
// store, a body and the protocol version.
//
// Header values are split on ';' into trimmed segments, and adding a header
// replaces every earlier value of the same name.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
