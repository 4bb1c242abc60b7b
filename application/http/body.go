package http

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type bodyKind uint8

const (
	bodyAbsent bodyKind = iota
	bodyText
	bodyStructured
)

// Body is the payload of a message.
// It is either absent, raw text, or a structured value which is sent as JSON.
type Body struct {
	kind  bodyKind
	text  string
	value any
}

var NoBody = Body{}

func TextBody(text string) Body { return Body{kind: bodyText, text: text} }

// StructuredBody wraps v, which is encoded as JSON on the wire.
// A nil v is an absent body.
func StructuredBody(v any) Body {
	if v == nil {
		return NoBody
	}
	return Body{kind: bodyStructured, value: v}
}

func (b Body) IsPresent() bool    { return b.kind != bodyAbsent }
func (b Body) IsStructured() bool { return b.kind == bodyStructured }

// Text returns the raw text. It is empty unless the body is text.
func (b Body) Text() string { return b.text }

// Value returns the structured value, or the text as a string for a text body.
func (b Body) Value() any {
	switch b.kind {
	case bodyText:
		return b.text
	case bodyStructured:
		return b.value
	}
	return nil
}

// Encode returns the wire form of the body.
func (b Body) Encode() (string, error) {
	switch b.kind {
	case bodyText:
		return b.text, nil
	case bodyStructured:
		encoded, err := json.Marshal(b.value)
		if err != nil {
			return "", errors.Wrap(err, "encoding structured body")
		}
		return string(encoded), nil
	}
	return "", nil
}
