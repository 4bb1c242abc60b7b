package http

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"simple-http/application/http/status"
	"simple-http/application/util/rule"

	"github.com/pkg/errors"
)

// Response is an HTTP response.
//
// The reason phrase follows the status code unless it is set explicitly.
// Set* methods mutate the response, With* methods work on a deep copy.
type Response struct {
	message

	status status.Status
}

var _ headerLiner = (*Response)(nil)

// NewResponse creates a response whose reason phrase is looked up from code.
// An unknown code gets an empty phrase.
func NewResponse(code uint, headers *Headers, body Body) *Response {
	return &Response{
		message: newMessage(headers, body),
		status:  statusOf(code),
	}
}

func statusOf(code uint) status.Status {
	return status.Status{Code: code, ReasonPhrase: status.Phrase(code)}
}

func (r *Response) Clone() *Response {
	return &Response{
		message: r.message.clone(),
		status:  r.status,
	}
}

func (r *Response) Status() status.Status { return r.status }
func (r *Response) StatusCode() uint       { return r.status.Code }
func (r *Response) ReasonPhrase() string   { return r.status.ReasonPhrase }

// SetStatus sets the code and resets the phrase from the status table.
func (r *Response) SetStatus(code uint) *Response {
	r.status = statusOf(code)
	return r
}
func (r *Response) WithStatus(code uint) *Response { return r.Clone().SetStatus(code) }

func (r *Response) SetStatusReason(code uint, phrase string) *Response {
	r.status = status.Status{Code: code, ReasonPhrase: phrase}
	return r
}
func (r *Response) WithStatusReason(code uint, phrase string) *Response {
	return r.Clone().SetStatusReason(code, phrase)
}

func (r *Response) SetVersion(ver Version) *Response {
	r.version = ver
	return r
}
func (r *Response) WithVersion(ver Version) *Response { return r.Clone().SetVersion(ver) }

func (r *Response) SetHeader(name, value string) *Response {
	r.updateHeaders(func(h *Headers) { h.Set(name, value) })
	return r
}
func (r *Response) WithHeader(name, value string) *Response {
	return r.Clone().SetHeader(name, value)
}

func (r *Response) WithAddedHeaders(lines ...string) *Response {
	c := r.Clone()
	c.updateHeaders(func(h *Headers) { h.AddLines(lines...) })
	return c
}

func (r *Response) WithHeaders(h *Headers) *Response {
	c := r.Clone()
	c.headers = h.Clone()
	return c
}

func (r *Response) RemoveHeader(name string) *Response {
	r.updateHeaders(func(h *Headers) { h.Remove(name) })
	return r
}

func (r *Response) RemoveHeaderValue(name, marker string) *Response {
	r.updateHeaders(func(h *Headers) { h.RemoveValue(name, marker) })
	return r
}

func (r *Response) WithoutHeader(name string) *Response { return r.Clone().RemoveHeader(name) }

func (r *Response) SetBody(body Body) *Response {
	r.setBody(body)
	return r
}
func (r *Response) WithBody(body Body) *Response { return r.Clone().SetBody(body) }

// FlattenedHeaders returns the headers as "Name:value" lines
// followed by the status line.
func (r *Response) FlattenedHeaders() []string { return r.flattenHeaders(r) }

func (r *Response) extraHeaderLines() []string {
	return []string{r.statusLine()}
}

// StructuredHeaders returns the headers with an extra "Status" entry
// holding version, code and phrase.
func (r *Response) StructuredHeaders() map[string][]string {
	m := r.headers.Structured()
	m["Status"] = []string{
		r.version.String(),
		strconv.FormatUint(uint64(r.status.Code), 10),
		r.status.ReasonPhrase,
	}
	return m
}

func (r *Response) statusLine() string {
	return fmt.Sprintf("%s %d %s", r.version, r.status.Code, r.status.ReasonPhrase)
}

// Raw serializes the response into its wire form.
// Content-Type and Content-Length are added the same way as for [Request.Raw].
func (r *Response) Raw() ([]byte, error) {
	body, err := r.body.Encode()
	if err != nil {
		return nil, errors.Wrap(err, "encoding response body")
	}

	lines := r.headers.Flatten()
	if r.body.IsStructured() && !r.HasHeader("Content-Type") {
		lines = append(lines, "Content-Type: application/json")
	}
	if !r.HasHeader("Content-Length") {
		lines = append(lines, "Content-Length: "+strconv.Itoa(len(body)))
	}

	buf := bytes.NewBuffer(nil)

	buf.WriteString(r.statusLine())
	buf.Write(rule.CRLF)

	buf.WriteString(strings.Join(lines, string(rule.CRLF)))
	buf.Write(rule.EmptyLine)

	buf.WriteString(body)

	return buf.Bytes(), nil
}

// String returns the wire form, or an empty string when the body cannot be encoded.
func (r *Response) String() string {
	raw, err := r.Raw()
	if err != nil {
		return ""
	}
	return string(raw)
}
