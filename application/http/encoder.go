package http

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

type rawMessage interface {
	Raw() ([]byte, error)
}

type MessageEncoder struct {
	bw *bufio.Writer
}

func (me *MessageEncoder) encode(msg rawMessage) error {
	raw, err := msg.Raw()
	if err != nil {
		return errors.Wrap(err, "serializing message")
	}

	if _, err := me.bw.Write(raw); err != nil {
		return errors.Wrap(err, "writing message")
	}

	if err := me.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing message")
	}

	return nil
}

type RequestEncoder struct{ MessageEncoder }

func NewRequestEncoder(w io.Writer) *RequestEncoder {
	return &RequestEncoder{MessageEncoder{bw: bufio.NewWriter(w)}}
}

func (re *RequestEncoder) Encode(request *Request) error {
	if err := re.encode(request); err != nil {
		return errors.Wrap(err, "encoding request")
	}
	return nil
}

type ResponseEncoder struct{ MessageEncoder }

func NewResponseEncoder(w io.Writer) *ResponseEncoder {
	return &ResponseEncoder{MessageEncoder{bw: bufio.NewWriter(w)}}
}

func (re *ResponseEncoder) Encode(response *Response) error {
	if err := re.encode(response); err != nil {
		return errors.Wrap(err, "encoding response")
	}
	return nil
}
