package http

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"simple-http/application/http/status"
	"simple-http/application/util/rule"
	"simple-http/application/util/uri"

	"github.com/pkg/errors"
)

var (
	ErrMissingSeparator     = errors.New("blank line between headers and body is missing")
	ErrMalformedRequestLine = errors.New("request line is malformed")
	ErrInvalidMethod        = errors.New("method is not a valid token")
)

var statusCodePattern = regexp.MustCompile(`\d{3}`)

// ParseResponse decodes a raw response.
//
// The first 3-digit run of the status line is the status code.
// An informational status line (1xx) is a preamble and the real response
// is parsed from what follows it.
// statusCode overrides the parsed code when not nil; without both the code is 200.
// The reason phrase always comes from the status table.
func ParseResponse(raw []byte, statusCode *uint) (*Response, error) {
	head, body, found := bytes.Cut(raw, rule.EmptyLine)
	if !found {
		return nil, ErrMissingSeparator
	}

	lines := strings.Split(string(head), string(rule.CRLF))
	statusLine := lines[0]

	code := status.OK.Code
	if match := statusCodePattern.FindString(statusLine); match != "" {
		parsed, _ := strconv.ParseUint(match, 10, 64)
		if status.IsInformational(uint(parsed)) {
			res, err := ParseResponse(body, statusCode)
			if err != nil {
				return nil, errors.Wrap(err, "parsing response after informational status")
			}
			return res, nil
		}
		code = uint(parsed)
	}
	if statusCode != nil {
		code = *statusCode
	}

	res := NewResponse(code, HeadersFromLines(lines[1:]...), TextBody(string(body)))

	verText, _, _ := strings.Cut(statusLine, " ")
	if ver, err := ParseVersion([]byte(verText)); err == nil {
		res.version = ver
	}

	return res, nil
}

// ParseRequest decodes a raw request received from remoteAddress.
//
// The URI is built from the Host header and the request target.
// A form-urlencoded body becomes a structured body of its fields.
// Unix socket peers are reported as 127.0.0.1.
func ParseRequest(raw []byte, remoteAddress string) (*Request, error) {
	head, body, found := bytes.Cut(raw, rule.EmptyLine)
	if !found {
		return nil, ErrMissingSeparator
	}

	lines := strings.Split(string(head), string(rule.CRLF))

	method, target, ver, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, errors.Wrap(err, "parsing request line")
	}

	headers := HeadersFromLines(lines[1:]...)

	u, err := requestURI(target, strings.Join(headers.Get("Host"), ValueSeparator))
	if err != nil {
		return nil, errors.Wrap(err, "parsing request target")
	}

	req := NewRequest(method, u, headers, requestBody(headers, body))
	req.version = ver

	if strings.HasPrefix(remoteAddress, "unix:") {
		remoteAddress = "127.0.0.1"
	}
	req.remoteAddress = remoteAddress

	return req, nil
}

func parseRequestLine(line string) (method, target string, ver Version, err error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return "", "", Version{}, ErrMalformedRequestLine
	}

	if !rule.IsValidToken(parts[0]) {
		return "", "", Version{}, ErrInvalidMethod
	}

	ver, err = ParseVersion([]byte(parts[2]))
	if err != nil {
		return "", "", Version{}, errors.Wrap(ErrMalformedRequestLine, err.Error())
	}

	return parts[0], parts[1], ver, nil
}

// requestURI resolves target, in origin-form or absolute-form, against host.
func requestURI(target, host string) (*uri.URI, error) {
	if strings.HasPrefix(target, "/") {
		return uri.Parse("http://" + host + target)
	}
	u, err := uri.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Host() == "" {
		u.SetHost(host)
	}
	return u, nil
}

func requestBody(headers *Headers, body []byte) Body {
	if len(body) == 0 {
		return NoBody
	}
	if headers.Contains("Content-Type", "application/x-www-form-urlencoded") {
		q := uri.ParseQuery(string(body))
		return StructuredBody(q.Map())
	}
	return TextBody(string(body))
}
