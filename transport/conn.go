package transport

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrConnClosed         = errors.New("connection is closed")
	ErrConnListenerClosed = errors.New("conn listener is closed")
	ErrDeadLineExceeded   = errors.New("deadline exceeded")
	ErrConnRefused        = errors.New("connection refused")
	ErrAddrAlreadyInUse   = errors.New("address already in use")
	ErrNetUnreachable     = errors.New("network is unreachable")
)

// Conn is a reliable, ordered byte stream.
// Read fails with [ErrConnClosed] once either end is closed and nothing is left to read.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	LocalAddr() Addr
	RemoteAddr() Addr

	// Zero value means no deadline.
	SetReadDeadLine(t time.Time)
	SetWriteDeadLine(t time.Time)
}

// BufferedConn is a [Conn] whose writes complete once they fit in the peer's buffer.
type BufferedConn interface {
	Conn
	ReadBufSize() uint
	WriteBufSize() uint
}

type ConnListener interface {
	Accept(ctx context.Context) (Conn, error)
	Addr() Addr
	Close() error
}

// ConnDialer opens connections to "host:port" addresses.
type ConnDialer interface {
	Dial(ctx context.Context, addr string) (Conn, error)
}

// EOFReader reads from c and reports [ErrConnClosed] as [io.EOF],
// for readers which consume a stream until its end.
func EOFReader(c Conn) io.Reader { return eofReader{c} }

type eofReader struct{ c Conn }

func (r eofReader) Read(p []byte) (int, error) {
	n, err := r.c.Read(p)
	if errors.Is(err, ErrConnClosed) {
		return n, io.EOF
	}
	return n, err
}
