// Package server serves HTTP requests from a [transport.ConnListener].
// Every connection carries exactly one request and one response.
package server

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"simple-http/application/http"
	"simple-http/application/http/status"
	"simple-http/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type Server struct {
	l transport.ConnListener

	wg sync.WaitGroup

	logger *slog.Logger
	opts   Options

	handler Handler
	clock   clock.Clock
}

func New(
	l transport.ConnListener,
	handler Handler,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Server {
	return &Server{
		l:       l,
		handler: handler,
		logger:  logger,
		clock:   clock,
		opts:    opts,
	}
}

// Serve accepts connections until ctx is done or the server is closed.
// It waits for connections being served before returning.
func (s *Server) Serve(ctx context.Context) error {
	defer s.wg.Wait()

	for {
		con, err := s.l.Accept(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, transport.ErrConnListenerClosed) {
				return nil
			}
			return errors.Wrap(err, "accepting connection")
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, con)
		}()
	}
}

// Close stops accepting connections.
func (s *Server) Close() error {
	if err := s.l.Close(); err != nil && !errors.Is(err, transport.ErrConnListenerClosed) {
		return errors.Wrap(err, "closing listener")
	}
	return nil
}

func (s *Server) serveConn(ctx context.Context, con transport.Conn) {
	logger := s.logger.With("conn", con.RemoteAddr())
	logger.Debug("accepted connection")

	defer func() {
		if err := con.Close(); err != nil {
			logger.Error("error when closing connection", "error", err)
		}
	}()

	// Unblock a pending read once ctx is done.
	stop := context.AfterFunc(ctx, func() { con.Close() })
	defer stop()

	res, err := s.handle(ctx, con, logger)
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, transport.ErrConnClosed) {
			logger.Error("error while handling request", "error", err)
		}
		return
	}

	if s.opts.WriteTimeout > 0 {
		con.SetWriteDeadLine(s.clock.Now().Add(s.opts.WriteTimeout))
	}
	if err := http.NewResponseEncoder(con).Encode(res); err != nil {
		logger.Warn("writing response failed", "error", err)
	}
}

// handle reads and answers a request.
// An error means no response can be sent.
func (s *Server) handle(ctx context.Context, con transport.Conn, logger *slog.Logger) (*http.Response, error) {
	if s.opts.ReadTimeout > 0 {
		con.SetReadDeadLine(s.clock.Now().Add(s.opts.ReadTimeout))
	}

	raw, err := http.ReadRawRequest(con, s.opts.MaxRequestSize)
	switch {
	case errors.Is(err, http.ErrMessageTooLarge):
		logger.Warn("request too large", "limit", s.opts.MaxRequestSize)
		return errorResponse(status.ContentTooLarge), nil
	case errors.Is(err, transport.ErrDeadLineExceeded):
		logger.Info("read timeout exceeded")
		return errorResponse(status.RequestTimeout), nil
	case errors.Is(err, http.ErrInvalidContentLength):
		logger.Warn("malformed request", "error", err)
		return errorResponse(status.BadRequest), nil
	case err != nil:
		return nil, errors.Wrap(err, "reading request")
	}

	request, err := http.ParseRequest(raw, peerHost(con.RemoteAddr()))
	if err != nil {
		logger.Warn("malformed request", "error", err)
		return errorResponse(status.BadRequest), nil
	}

	start := s.clock.Now()
	res, err := doHandle(ctx, s.handler, request)
	if err != nil {
		logger.Error("handler failed", "error", err)
		return errorResponse(status.InternalServerError), nil
	}

	logger.Debug("handled request",
		"method", request.Method(),
		"target", request.Target(),
		"status", res.StatusCode(),
		"elapsed", s.clock.Since(start),
	)

	return res, nil
}

// peerHost strips the port from addr, if it has one.
func peerHost(addr transport.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
