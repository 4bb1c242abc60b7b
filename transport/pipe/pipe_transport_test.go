package pipe

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"simple-http/transport"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type PipeTransportTestSuite struct {
	suite.Suite

	transport *PipeTransport
}

func TestPipeTransportTestSuite(t *testing.T) {
	suite.Run(t, new(PipeTransportTestSuite))
}

func (s *PipeTransportTestSuite) SetupTest() {
	s.transport = NewPipeTransport(clock.New())
}

func (s *PipeTransportTestSuite) TearDownTest() {
	goleak.VerifyNone(s.T())
}

func (s *PipeTransportTestSuite) TestListen() {
	addr := "example.com:80"

	lis, err := s.transport.Listen(addr)
	s.Require().NoError(err)
	s.Require().NotNil(lis)
	s.Equal(Addr{Name: addr}, lis.Addr())

	again, err := s.transport.Listen(addr)
	s.ErrorIs(err, transport.ErrAddrAlreadyInUse)
	s.Nil(again)

	s.Require().NoError(lis.Close())
	s.ErrorIs(lis.Close(), transport.ErrConnListenerClosed)

	// The address is free again.
	lis, err = s.transport.Listen(addr)
	s.Require().NoError(err)
	s.NoError(lis.Close())
}

func (s *PipeTransportTestSuite) TestDial() {
	addr := "example.com:80"

	lis, err := s.transport.Listen(addr)
	s.Require().NoError(err)
	defer lis.Close()

	var wg sync.WaitGroup
	defer wg.Wait()

	wg.Add(1)
	go func() {
		defer wg.Done()
		conn, err := lis.Accept(context.Background())
		s.Require().NoError(err)
		defer conn.Close()

		buf := make([]byte, 5)
		n, err := conn.Read(buf)
		s.Require().NoError(err)
		s.Equal("hello", string(buf[:n]))
		s.True(strings.HasPrefix(conn.RemoteAddr().String(), "pipe:"))
	}()

	conn, err := s.transport.Dial(context.Background(), addr)
	s.Require().NoError(err)
	defer conn.Close()

	s.Equal(addr, conn.RemoteAddr().String())
	s.Equal("pipe", conn.RemoteAddr().Network())

	_, err = conn.Write([]byte("hello"))
	s.Require().NoError(err)
}

func (s *PipeTransportTestSuite) TestDialBuffered() {
	s.transport = NewBufferedPipeTransport(clock.New(), 64)
	addr := "example.com:80"

	lis, err := s.transport.Listen(addr)
	s.Require().NoError(err)
	defer lis.Close()

	accepted := make(chan transport.Conn, 1)
	go func() {
		conn, err := lis.Accept(context.Background())
		s.NoError(err)
		accepted <- conn
	}()

	conn, err := s.transport.Dial(context.Background(), addr)
	s.Require().NoError(err)
	defer conn.Close()

	server := <-accepted
	defer server.Close()

	s.Implements((*transport.BufferedConn)(nil), conn)

	// Buffered writes don't wait for the reader.
	_, err = conn.Write([]byte("hello"))
	s.Require().NoError(err)
	s.Require().NoError(conn.Close())

	buf := make([]byte, 5)
	n, err := server.Read(buf)
	s.Require().NoError(err)
	s.Equal("hello", string(buf[:n]))
}

func (s *PipeTransportTestSuite) TestDialNoListener() {
	conn, err := s.transport.Dial(context.Background(), "nowhere:80")
	s.ErrorIs(err, transport.ErrConnRefused)
	s.Nil(conn)
}

func (s *PipeTransportTestSuite) TestDialClosedListener() {
	lis, err := s.transport.Listen("example.com:80")
	s.Require().NoError(err)
	s.Require().NoError(lis.Close())

	_, err = s.transport.Dial(context.Background(), "example.com:80")
	s.ErrorIs(err, transport.ErrConnRefused)
}

func (s *PipeTransportTestSuite) TestDialCancels() {
	lis, err := s.transport.Listen("example.com:80")
	s.Require().NoError(err)
	defer lis.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Nobody accepts.
	_, err = s.transport.Dial(ctx, "example.com:80")
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *PipeTransportTestSuite) TestDialReleasesPort() {
	s.transport.ports = transport.NewPortTable(transport.EphemeralPortOptions{
		Range:  [2]uint16{50000, 50001},
		Rand:   func() uint16 { return 0 },
		MaxTry: 1,
	})

	lis, err := s.transport.Listen("example.com:80")
	s.Require().NoError(err)
	defer lis.Close()

	go func() {
		for {
			conn, err := lis.Accept(context.Background())
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	conn, err := s.transport.Dial(context.Background(), "example.com:80")
	s.Require().NoError(err)
	s.Equal("pipe:50000", conn.LocalAddr().String())

	_, err = s.transport.Dial(context.Background(), "example.com:80")
	s.ErrorIs(err, transport.ErrNoEphemeralPort)

	s.Require().NoError(conn.Close())

	conn, err = s.transport.Dial(context.Background(), "example.com:80")
	s.Require().NoError(err)
	s.NoError(conn.Close())
}

type PipeListenerTestSuite struct {
	suite.Suite

	transport *PipeTransport
	lis       transport.ConnListener
}

func TestPipeListenerTestSuite(t *testing.T) {
	suite.Run(t, new(PipeListenerTestSuite))
}

func (s *PipeListenerTestSuite) SetupTest() {
	s.transport = NewPipeTransport(clock.New())

	var err error
	s.lis, err = s.transport.Listen("hey")
	s.Require().NoError(err)
}

func (s *PipeListenerTestSuite) TearDownTest() {
	defer goleak.VerifyNone(s.T())
	s.lis.Close()
}

func (s *PipeListenerTestSuite) TestAcceptCancels() {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	conn, err := s.lis.Accept(ctx)
	s.Nil(conn)
	s.ErrorIs(err, context.Canceled)
}

func (s *PipeListenerTestSuite) TestAcceptAfterClose() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := s.lis.Accept(context.Background())
		s.Nil(conn)
		s.ErrorIs(err, transport.ErrConnListenerClosed)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Require().NoError(s.lis.Close())
	<-done
}
