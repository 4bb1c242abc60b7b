package iolib

import (
	"io"

	"github.com/pkg/errors"
)

var ErrLimitExceeded = errors.New("read limit exceeded")

// LimitReader returns a reader that fails with [ErrLimitExceeded]
// once more than n bytes were requested from r.
// Unlike [io.LimitReader], exceeding the limit is reported instead of looking like EOF.
// n == 0 means no limit.
func LimitReader(r io.Reader, n uint) io.Reader {
	if n == 0 {
		return r
	}
	return &LimitedReader{R: r, N: n}
}

type LimitedReader struct {
	R io.Reader // underlying reader
	N uint      // max bytes remaining
}

func (l *LimitedReader) Read(p []byte) (n int, err error) {
	if l.N == 0 {
		// Probe a single byte to tell EOF apart from overflow.
		var probe [1]byte
		n, err := l.R.Read(probe[:])
		if n > 0 {
			return 0, ErrLimitExceeded
		}
		return 0, err
	}
	if uint(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err = l.R.Read(p)
	l.N -= uint(n)
	return
}
