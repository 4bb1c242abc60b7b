package uri

import "strings"

// Registered default ports. A port equal to its scheme's default is not written by [URI.String].
var defaultPorts = map[string]uint16{
	"ftp":    21,
	"telnet": 23,
	"tn3270": 23,
	"gopher": 70,
	"http":   80,
	"pop":    110,
	"nntp":   119,
	"news":   119,
	"imap":   143,
	"ldap":   389,
	"https":  443,
}

// DefaultPort returns the registered port of scheme.
func DefaultPort(scheme string) (port uint16, ok bool) {
	port, ok = defaultPorts[strings.ToLower(scheme)]
	return
}

func isDefaultPort(scheme string, port uint16) bool {
	p, ok := DefaultPort(scheme)
	return ok && p == port
}
