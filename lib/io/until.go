package iolib

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// UntilReader reads from underlying reader until the delimiter.
// Bytes read past the delimiter are kept and served by later reads.
type UntilReader struct {
	r io.Reader

	buf *bytes.Buffer
}

func NewUntilReader(r io.Reader) *UntilReader {
	return &UntilReader{r: r, buf: bytes.NewBuffer(nil)}
}

func (ur *UntilReader) Read(p []byte) (n int, err error) {
	if ur.buf.Len() > 0 {
		n, err = ur.buf.Read(p)
		if err == io.EOF {
			err = nil
		}
		return n, err
	}

	return ur.r.Read(p)
}

var ErrZeroLenDelim = errors.New("delim has zero length")

// ReadUntil returns bytes up to and including delim.
// If underlying reader fails before delim, read bytes are returned with the error.
func (ur *UntilReader) ReadUntil(delim []byte) ([]byte, error) {
	if len(delim) == 0 {
		return nil, ErrZeroLenDelim
	}

	temp := make([]byte, 1024)
	from := 0
	for {
		if idx := bytes.Index(ur.buf.Bytes()[from:], delim); idx >= 0 {
			end := from + idx + len(delim)
			found := bytes.Clone(ur.buf.Bytes()[:end])
			ur.buf.Next(end)
			return found, nil
		}
		// Only the tail which could still hold a split delim is searched again.
		from = max(0, ur.buf.Len()-len(delim)+1)

		n, err := ur.r.Read(temp)
		if n > 0 {
			ur.buf.Write(temp[:n])
			continue
		}

		if err != nil {
			b := bytes.Clone(ur.buf.Bytes())
			ur.buf.Reset()
			return b, err
		}
	}
}
