package http

import (
	"bytes"
	"strconv"
	"strings"

	"simple-http/application/util/rule"
	"simple-http/application/util/uri"

	"github.com/pkg/errors"
)

// Request is an HTTP request.
//
// Set* methods mutate the request and return it for chaining.
// With* methods return a modified deep copy and leave the receiver untouched.
type Request struct {
	message

	method        string
	uri           *uri.URI
	remoteAddress string // originating client, used for X-Forwarded-For.
}

var _ headerLiner = (*Request)(nil)

func NewRequest(method string, u *uri.URI, headers *Headers, body Body) *Request {
	if u == nil {
		u = &uri.URI{}
	}
	return &Request{
		message: newMessage(headers, body),
		method:  method,
		uri:     u.Clone(),
	}
}

func (r *Request) Clone() *Request {
	return &Request{
		message:       r.message.clone(),
		method:        r.method,
		uri:           r.URI(),
		remoteAddress: r.remoteAddress,
	}
}

func (r *Request) Method() string { return r.method }
func (r *Request) SetMethod(method string) *Request {
	r.method = method
	return r
}
func (r *Request) WithMethod(method string) *Request { return r.Clone().SetMethod(method) }

// URI returns a copy of the request URI.
func (r *Request) URI() *uri.URI {
	if r.uri == nil {
		return &uri.URI{}
	}
	return r.uri.Clone()
}
func (r *Request) SetURI(u *uri.URI) *Request {
	if u == nil {
		u = &uri.URI{}
	}
	r.uri = u.Clone()
	return r
}
func (r *Request) WithURI(u *uri.URI) *Request { return r.Clone().SetURI(u) }

func (r *Request) RemoteAddress() string { return r.remoteAddress }
func (r *Request) SetRemoteAddress(addr string) *Request {
	r.remoteAddress = addr
	return r
}
func (r *Request) WithRemoteAddress(addr string) *Request {
	return r.Clone().SetRemoteAddress(addr)
}

func (r *Request) SetVersion(ver Version) *Request {
	r.version = ver
	return r
}
func (r *Request) WithVersion(ver Version) *Request { return r.Clone().SetVersion(ver) }

// SetHeader replaces name with the split value.
func (r *Request) SetHeader(name, value string) *Request {
	r.updateHeaders(func(h *Headers) { h.Set(name, value) })
	return r
}

// WithHeader returns a copy where only name is replaced.
func (r *Request) WithHeader(name, value string) *Request {
	return r.Clone().SetHeader(name, value)
}

// WithAddedHeaders returns a copy with raw "Name: value" lines added.
func (r *Request) WithAddedHeaders(lines ...string) *Request {
	c := r.Clone()
	c.updateHeaders(func(h *Headers) { h.AddLines(lines...) })
	return c
}

// WithHeaders returns a copy whose header store is replaced by a copy of h.
func (r *Request) WithHeaders(h *Headers) *Request {
	c := r.Clone()
	c.headers = h.Clone()
	return c
}

func (r *Request) RemoveHeader(name string) *Request {
	r.updateHeaders(func(h *Headers) { h.Remove(name) })
	return r
}

func (r *Request) RemoveHeaderValue(name, marker string) *Request {
	r.updateHeaders(func(h *Headers) { h.RemoveValue(name, marker) })
	return r
}

func (r *Request) WithoutHeader(name string) *Request { return r.Clone().RemoveHeader(name) }

func (r *Request) SetBody(body Body) *Request {
	r.setBody(body)
	return r
}
func (r *Request) WithBody(body Body) *Request { return r.Clone().SetBody(body) }

// Target returns the request target in origin-form, e.g. "/search?q=go".
func (r *Request) Target() string {
	if r.uri == nil {
		return "/"
	}
	return r.uri.RequestTarget()
}

// FlattenedHeaders returns the headers as "Name:value" lines.
func (r *Request) FlattenedHeaders() []string { return r.flattenHeaders(r) }

func (r *Request) extraHeaderLines() []string { return nil }

// host returns the host for the Host line.
// The URI host wins over a stored Host header.
func (r *Request) host() string {
	if h := r.URI().Host(); h != "" {
		return h
	}
	return strings.Join(r.Header("Host"), ValueSeparator)
}

// Raw serializes the request into its wire form.
//
// A structured body is encoded as JSON and gets Content-Type: application/json unless
// a Content-Type is already set. Content-Length is added unless already set.
// The Host line is derived from the URI, so a stored Host header is not repeated.
func (r *Request) Raw() ([]byte, error) {
	// An absent body is sent empty and untyped, not as a JSON null.
	body, err := r.body.Encode()
	if err != nil {
		return nil, errors.Wrap(err, "encoding request body")
	}

	lines := make([]string, 0, r.headers.Len()+2)
	for _, line := range r.FlattenedHeaders() {
		name, _, _ := strings.Cut(line, ":")
		if strings.EqualFold(name, "Host") {
			continue
		}
		lines = append(lines, line)
	}

	if r.body.IsStructured() && !r.HasHeader("Content-Type") {
		lines = append(lines, "Content-Type: application/json")
	}
	if !r.HasHeader("Content-Length") {
		lines = append(lines, "Content-Length: "+strconv.Itoa(len(body)))
	}

	buf := bytes.NewBuffer(nil)

	buf.WriteString(r.method)
	buf.WriteByte(rule.SP)
	buf.WriteString(r.Target())
	buf.WriteByte(rule.SP)
	buf.Write(r.version.Text())
	buf.Write(rule.CRLF)

	buf.WriteString("Host: " + r.host())
	buf.Write(rule.CRLF)

	buf.WriteString(strings.Join(lines, string(rule.CRLF)))
	buf.Write(rule.EmptyLine)

	buf.WriteString(body)

	return buf.Bytes(), nil
}

// String returns the wire form, or an empty string when the body cannot be encoded.
func (r *Request) String() string {
	raw, err := r.Raw()
	if err != nil {
		return ""
	}
	return string(raw)
}
