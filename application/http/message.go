package http

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// message holds what requests and responses share.
// Request and Response embed it and expose typed setters on top of it.
type message struct {
	version Version
	headers *Headers
	body    Body

	parsed *parsedBody
}

// parsedBody caches the result of [message.ParsedBody], error included.
type parsedBody struct {
	once  sync.Once
	value any
	err   error
}

// headerLiner is implemented by every message kind
// to append its own lines to the flattened headers.
type headerLiner interface {
	extraHeaderLines() []string
}

func newMessage(headers *Headers, body Body) message {
	return message{
		version: DefaultVersion,
		headers: headers.Clone(),
		body:    body,
		parsed:  &parsedBody{},
	}
}

func (m *message) Version() Version { return m.version }

// Headers returns the header store of the message.
// Mutating it changes the message in place.
func (m *message) Headers() *Headers {
	if m.headers == nil {
		m.headers = NewHeaders()
	}
	return m.headers
}

func (m *message) Header(name string) []string { return m.headers.Get(name) }
func (m *message) HasHeader(name string) bool  { return m.headers.Has(name) }

func (m *message) Body() Body    { return m.body }
func (m *message) HasBody() bool { return m.body.IsPresent() }

// ParsedBody returns the body decoded according to Content-Type.
//
// A structured body is returned as is.
// A text body is decoded as JSON when Content-Type lists application/json,
// and returned as a string otherwise. An absent body is nil.
// The result is computed once per body.
func (m *message) ParsedBody() (any, error) {
	if m.parsed == nil {
		m.parsed = &parsedBody{}
	}
	p := m.parsed
	p.once.Do(func() { p.value, p.err = m.parseBody() })
	return p.value, p.err
}

func (m *message) parseBody() (any, error) {
	switch {
	case !m.body.IsPresent():
		return nil, nil
	case m.body.IsStructured():
		return m.body.Value(), nil
	case m.headers.Contains("Content-Type", "application/json"):
		var v any
		if err := json.Unmarshal([]byte(m.body.Text()), &v); err != nil {
			return nil, errors.Wrap(err, "decoding json body")
		}
		return v, nil
	}
	return m.body.Text(), nil
}

func (m *message) setBody(body Body) {
	m.body = body
	m.parsed = &parsedBody{}
}

// updateHeaders mutates the headers in place.
// The parsed body is dropped as it depends on Content-Type.
func (m *message) updateHeaders(mutate func(h *Headers)) {
	mutate(m.Headers())
	m.parsed = &parsedBody{}
}

func (m *message) clone() message {
	return message{
		version: m.version,
		headers: m.headers.Clone(),
		body:    m.body,
		parsed:  &parsedBody{},
	}
}

func (m *message) flattenHeaders(liner headerLiner) []string {
	return append(m.headers.Flatten(), liner.extraHeaderLines()...)
}
