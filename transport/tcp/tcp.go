// Package tcp provides [transport.Conn] over operating system TCP sockets.
package tcp

import (
	"context"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"simple-http/transport"

	"github.com/pkg/errors"
)

type conn struct {
	c net.Conn
}

var _ transport.Conn = (*conn)(nil)

func wrapConn(c net.Conn) *conn { return &conn{c: c} }

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.c.Read(p)
	return n, convertErr(err)
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.c.Write(p)
	return n, convertErr(err)
}

func (c *conn) Close() error {
	if err := c.c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Wrap(err, "closing tcp conn")
	}
	return nil
}

func (c *conn) LocalAddr() transport.Addr  { return c.c.LocalAddr() }
func (c *conn) RemoteAddr() transport.Addr { return c.c.RemoteAddr() }

// Setting a deadline only fails on a closed conn, which the next I/O reports anyway.
func (c *conn) SetReadDeadLine(t time.Time)  { _ = c.c.SetReadDeadline(t) }
func (c *conn) SetWriteDeadLine(t time.Time) { _ = c.c.SetWriteDeadline(t) }

// convertErr maps socket errors to the ones of package transport.
// A peer that closed its side reads as [transport.ErrConnClosed], like a pipe does.
func convertErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return transport.ErrConnClosed
	case errors.Is(err, os.ErrDeadlineExceeded):
		return transport.ErrDeadLineExceeded
	case errors.Is(err, syscall.ECONNREFUSED):
		return transport.ErrConnRefused
	case errors.Is(err, syscall.EADDRINUSE):
		return transport.ErrAddrAlreadyInUse
	case errors.Is(err, syscall.ENETUNREACH):
		return transport.ErrNetUnreachable
	}
	return err
}

type Dialer struct {
	d net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func NewDialer() *Dialer { return &Dialer{} }

func (d *Dialer) Dial(ctx context.Context, addr string) (transport.Conn, error) {
	c, err := d.d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrapf(convertErr(err), "dialing %s", addr)
	}
	return wrapConn(c), nil
}

type listener struct {
	l *net.TCPListener
}

var _ transport.ConnListener = (*listener)(nil)

// Listen listens on a "host:port" address. Port 0 picks a free port.
func Listen(addr string) (transport.ConnListener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", addr)
	}

	l, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, errors.Wrapf(convertErr(err), "listening on %s", addr)
	}

	return &listener{l: l}, nil
}

func (l *listener) Addr() transport.Addr { return l.l.Addr() }

func (l *listener) Accept(ctx context.Context) (transport.Conn, error) {
	// Unblock Accept once ctx is done.
	stop := context.AfterFunc(ctx, func() { _ = l.l.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	c, err := l.l.Accept()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			_ = l.l.SetDeadline(time.Time{})
			return nil, ctxErr
		}
		if errors.Is(err, net.ErrClosed) {
			return nil, transport.ErrConnListenerClosed
		}
		return nil, errors.Wrap(err, "accepting tcp conn")
	}

	return wrapConn(c), nil
}

func (l *listener) Close() error {
	if err := l.l.Close(); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return transport.ErrConnListenerClosed
		}
		return errors.Wrap(err, "closing tcp listener")
	}
	return nil
}
