package pipe

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"

	"simple-http/transport"

	"github.com/benbjohnson/clock"
)

// Dialing ends get a port from this range, like an OS would do.
// Reference: https://datatracker.ietf.org/doc/html/rfc6335#section-6
var ephemeralPorts = transport.EphemeralPortOptions{
	Range:  [2]uint16{49152, 65535},
	Rand:   func() uint16 { return uint16(rand.Uint32()) },
	MaxTry: 16,
}

type pipeRequest struct {
	conn     transport.Conn
	accepted chan struct{}
}

// PipeTransport connects dialers and listeners in memory.
// Listeners are registered under any address string, e.g. "example.com:80".
type PipeTransport struct {
	listeners map[string]*pipeListener
	clock     clock.Clock
	ports     *transport.PortTable
	bufSize   uint // 0 means synchronous pipes.

	mu sync.Mutex
}

var _ transport.ConnDialer = (*PipeTransport)(nil)

func NewPipeTransport(clock clock.Clock) *PipeTransport {
	return NewBufferedPipeTransport(clock, 0)
}

// NewBufferedPipeTransport is [NewPipeTransport] whose conns buffer up to bufSize bytes.
func NewBufferedPipeTransport(clock clock.Clock, bufSize uint) *PipeTransport {
	return &PipeTransport{
		listeners: make(map[string]*pipeListener),
		clock:     clock,
		ports:     transport.NewPortTable(ephemeralPorts),
		bufSize:   bufSize,
	}
}

func (pt *PipeTransport) Dial(ctx context.Context, addr string) (transport.Conn, error) {
	pt.mu.Lock()
	listener, ok := pt.listeners[addr]
	pt.mu.Unlock()

	if !ok {
		return nil, transport.ErrConnRefused
	}

	port, release, err := pt.ports.Occupy(0)
	if err != nil {
		return nil, err
	}

	local, remote := pt.newPair("pipe:"+strconv.FormatUint(uint64(port), 10), addr, release)

	req := pipeRequest{
		conn:     remote,
		accepted: make(chan struct{}, 1),
	}

	select {
	case <-ctx.Done():
		local.Close()
		return nil, ctx.Err()
	case <-listener.closed:
		local.Close()
		return nil, transport.ErrConnRefused
	case listener.requests <- req:
	}

	select {
	case <-ctx.Done():
		local.Close()
		return nil, ctx.Err()
	case <-req.accepted:
	}

	return local, nil
}

func (pt *PipeTransport) newPair(local, remote string, onClose func()) (transport.Conn, transport.Conn) {
	if pt.bufSize > 0 {
		c1, c2 := NewBufferedPair(local, remote, pt.clock, pt.bufSize)
		c1.onClose = onClose
		return c1, c2
	}

	c1, c2 := NewPair(local, remote, pt.clock)
	c1.onClose = onClose
	return c1, c2
}

func (pt *PipeTransport) Listen(addr string) (transport.ConnListener, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if _, ok := pt.listeners[addr]; ok {
		return nil, transport.ErrAddrAlreadyInUse
	}

	pl := &pipeListener{
		addr:      Addr{Name: addr},
		transport: pt,
		requests:  make(chan pipeRequest),
		closed:    make(chan struct{}),
	}
	pt.listeners[addr] = pl

	return pl, nil
}

type pipeListener struct {
	addr Addr

	transport *PipeTransport

	requests chan pipeRequest
	closed   chan struct{}

	once sync.Once
}

var _ transport.ConnListener = (*pipeListener)(nil)

func (pl *pipeListener) Addr() transport.Addr { return pl.addr }

func (pl *pipeListener) Accept(ctx context.Context) (transport.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-pl.closed:
		return nil, transport.ErrConnListenerClosed
	case request := <-pl.requests:
		request.accepted <- struct{}{}
		return request.conn, nil
	}
}

// Close stops accepting. Pending and later dials are refused.
func (pl *pipeListener) Close() error {
	err := transport.ErrConnListenerClosed
	pl.once.Do(func() {
		close(pl.closed)

		pl.transport.mu.Lock()
		delete(pl.transport.listeners, pl.addr.Name)
		pl.transport.mu.Unlock()

		err = nil
	})
	return err
}
