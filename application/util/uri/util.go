package uri

import (
	"simple-http/application/util/rule"

	"github.com/pkg/errors"
)

func containsCTL(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < ' ' || b == 0x7f {
			return true
		}
	}
	return false
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.2
func isSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.3
func isUnreserved(c byte) bool {
	if rule.IsAlpha(rune(c)) || rule.IsDigit(rune(c)) {
		return true
	}
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return false
}

func isReserved(c byte) bool {
	switch c {
	case ':', '/', '?', '#', '[', ']', '@':
		// gen-delims
		return true
	}
	return isSubDelim(c)
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.1
func isPercentEncoded(s string) bool {
	if len(s) != 3 {
		return false
	}

	return s[0] == '%' &&
		rule.IsHex(rune(s[1])) &&
		rule.IsHex(rune(s[2]))
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.1
func isValidScheme(scheme string) bool {
	if len(scheme) == 0 || !rule.IsAlpha(rune(scheme[0])) {
		return false
	}

	for idx := 1; idx < len(scheme); idx++ {
		c := scheme[idx]
		switch {
		case rule.IsAlpha(rune(c)) || rule.IsDigit(rune(c)):
		case c == '+' || c == '-' || c == '.':
		default:
			return false
		}
	}

	return true
}

// isPortPrefix reports whether s starts with 1 to 5 digits
// followed by '/' or the end of s. The digits are returned.
func isPortPrefix(s string) (digits string, ok bool) {
	end := 0
	for end < len(s) && rule.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 || end > 5 {
		return "", false
	}
	if end < len(s) && s[end] != '/' {
		return "", false
	}
	return s[:end], true
}

var ErrInvalidPort = errors.New("port is invalid")

// This is not the same rule as RFC. Port is limited to uint16.
func parsePort(s string) (port uint16, err error) {
	n := 0
	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if !rule.IsDigit(rune(c)) {
			return 0, errors.Wrapf(ErrInvalidPort, "non-digit byte in %q", s)
		}
		n = n*10 + int(c-'0')
		if n > 65535 {
			return 0, errors.Wrapf(ErrInvalidPort, "out of range: %q", s)
		}
	}

	return uint16(n), nil
}
