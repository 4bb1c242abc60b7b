package uri

import (
	"strings"

	"github.com/pkg/errors"
)

// Leading-colon input (":8080/path") names only a port and a path.
// A placeholder scheme is put in front so the regular rules apply,
// and whatever it produced is cleared afterwards.
const placeholderScheme = "http"

var ErrControlByte = errors.New("URI should not contain CTL bytes")

// Parse splits raw into its components.
// Userinfo is accepted but discarded.
func Parse(raw string) (*URI, error) {
	if containsCTL(raw) {
		return nil, ErrControlByte
	}

	if strings.HasPrefix(raw, ":") {
		u, err := parse(placeholderScheme + raw)
		if err != nil {
			return nil, err
		}
		u.scheme, u.host = "", ""
		return u, nil
	}

	return parse(raw)
}

// MustParse is like [Parse] but panics on error.
func MustParse(raw string) *URI {
	u, err := Parse(raw)
	if err != nil {
		panic(errors.Wrapf(err, "parsing %q", raw))
	}
	return u
}

func parse(raw string) (*URI, error) {
	u := new(URI)

	rest, frag, hasFrag := strings.Cut(raw, "#")
	if hasFrag {
		u.fragment = frag
	}

	rest, query, hasQuery := strings.Cut(rest, "?")
	if hasQuery {
		u.query = ParseQuery(query)
	}

	scheme, afterScheme, found := cutScheme(rest)
	if found {
		if digits, ok := isPortPrefix(afterScheme); ok {
			// "host:port/path" without "//".
			port, err := parsePort(digits)
			if err != nil {
				return nil, errors.Wrap(err, "parsing port")
			}
			u.host, u.port = scheme, &port
			u.path = afterScheme[len(digits):]
			return u, nil
		}
		u.scheme, rest = scheme, afterScheme
	}

	if authority, ok := strings.CutPrefix(rest, "//"); ok {
		rest = ""
		if i := strings.IndexByte(authority, '/'); i >= 0 {
			authority, rest = authority[:i], authority[i:]
		}

		if err := u.parseAuthority(authority); err != nil {
			return nil, errors.Wrap(err, "parsing authority")
		}
	}

	u.path = rest

	return u, nil
}

// cutScheme cuts the scheme off rawURL.
// The colon must come before any '/' and the scheme must be well-formed.
func cutScheme(rawURL string) (scheme, rest string, found bool) {
	idx := strings.IndexByte(rawURL, ':')
	if idx < 0 || strings.IndexByte(rawURL[:idx], '/') >= 0 {
		return "", rawURL, false
	}

	scheme = rawURL[:idx]
	if !isValidScheme(scheme) {
		return "", rawURL, false
	}

	return scheme, rawURL[idx+1:], true
}

func (u *URI) parseAuthority(raw string) error {
	if i := strings.LastIndexByte(raw, '@'); i >= 0 {
		raw = raw[i+1:]
	}

	host, portPart, err := getHostPort(raw)
	if err != nil {
		return err
	}

	if portPart != "" {
		port, err := parsePort(portPart)
		if err != nil {
			return errors.Wrap(err, "parsing port")
		}
		u.port = &port
	}

	u.host = host
	return nil
}

func getHostPort(raw string) (host string, portPart string, err error) {
	if strings.HasPrefix(raw, "[") {
		// This is IP Literal.
		idx := strings.LastIndex(raw, "]")
		if idx < 0 {
			return "", "", errors.New("missing ']' in IP Literal")
		}

		host = raw[:idx+1]
		portPart, _ = strings.CutPrefix(raw[idx+1:], ":")
		return host, portPart, nil
	}

	// ipv4 or reg-name.
	host = raw
	if idx := strings.LastIndexByte(raw, ':'); idx >= 0 {
		host = raw[:idx]
		portPart = raw[idx+1:]
	}

	return host, portPart, nil
}
