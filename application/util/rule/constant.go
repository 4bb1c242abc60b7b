package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
	VT   byte = 0x0B
	NUL  byte = 0x00
)

var (
	OWS  = []byte{SP, HTAB}
	CRLF = []byte{CR, LF}

	// Blank line which ends the header section.
	EmptyLine = []byte{CR, LF, CR, LF}
)

// Blanks is a set of bytes trimmed around header names and values.
const Blanks = " \t\n\r\x0B\x00"

func IsAlpha(r rune) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }
func IsDigit(r rune) bool { return '0' <= r && r <= '9' }
func IsHex(r rune) bool {
	return IsDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
