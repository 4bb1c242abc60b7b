package http

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"simple-http/application/http/status"
	"simple-http/application/util/rule"
	iolib "simple-http/lib/io"

	"github.com/pkg/errors"
)

var (
	ErrMessageTooLarge      = errors.New("message exceeds size limit")
	ErrInvalidContentLength = errors.New("content length is invalid")
)

// ReadRawResponse reads exactly one response from r and returns its raw bytes,
// ready for [ParseResponse].
//
// Informational preambles are kept in front of the final response.
// The body is Content-Length bytes long, or lasts until EOF without it.
// maxSize limits the total size, 0 means no limit.
func ReadRawResponse(r io.Reader, maxSize uint) ([]byte, error) {
	ur := iolib.NewUntilReader(iolib.LimitReader(r, maxSize))
	raw := bytes.NewBuffer(nil)

	var head []byte
	for {
		var err error
		head, err = readHead(ur)
		raw.Write(head)
		if err != nil {
			return nil, errors.Wrap(err, "reading response head")
		}

		if !isInformationalHead(head) {
			break
		}
	}

	body, err := readBody(ur, head, true)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	raw.Write(body)

	return raw.Bytes(), nil
}

// ReadRawRequest reads exactly one request from r and returns its raw bytes,
// ready for [ParseRequest].
// A request without Content-Length has no body.
func ReadRawRequest(r io.Reader, maxSize uint) ([]byte, error) {
	ur := iolib.NewUntilReader(iolib.LimitReader(r, maxSize))

	head, err := readHead(ur)
	if err != nil {
		return nil, errors.Wrap(err, "reading request head")
	}

	body, err := readBody(ur, head, false)
	if err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}

	return append(head, body...), nil
}

func readHead(ur *iolib.UntilReader) ([]byte, error) {
	head, err := ur.ReadUntil(rule.EmptyLine)
	if err != nil {
		if errors.Is(err, iolib.ErrLimitExceeded) {
			return head, ErrMessageTooLarge
		}
		if errors.Is(err, io.EOF) && len(head) > 0 {
			return head, io.ErrUnexpectedEOF
		}
		return head, err
	}
	return head, nil
}

func readBody(ur *iolib.UntilReader, head []byte, untilEOF bool) ([]byte, error) {
	length, ok, err := contentLength(head)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(nil)
	switch {
	case ok:
		_, err = io.CopyN(buf, ur, int64(length))
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
	case untilEOF:
		_, err = buf.ReadFrom(ur)
	}

	if errors.Is(err, iolib.ErrLimitExceeded) {
		return nil, ErrMessageTooLarge
	}
	return buf.Bytes(), err
}

func contentLength(head []byte) (length uint64, ok bool, err error) {
	lines := strings.Split(string(head), string(rule.CRLF))
	values := HeadersFromLines(lines[1:]...).Get("Content-Length")
	if len(values) == 0 {
		return 0, false, nil
	}

	length, err = strconv.ParseUint(values[0], 10, 63)
	if err != nil {
		return 0, false, errors.Wrap(ErrInvalidContentLength, values[0])
	}
	return length, true, nil
}

func isInformationalHead(head []byte) bool {
	statusLine, _, _ := bytes.Cut(head, rule.CRLF)
	match := statusCodePattern.Find(statusLine)
	if match == nil {
		return false
	}
	code, _ := strconv.ParseUint(string(match), 10, 64)
	return status.IsInformational(uint(code))
}
