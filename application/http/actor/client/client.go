// Package client sends HTTP requests over a [transport.ConnDialer], one connection per request.
package client

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"simple-http/application/http"
	"simple-http/application/http/status"
	"simple-http/application/util/uri"
	"simple-http/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type Client struct {
	dialer transport.ConnDialer

	opts Options

	logger    *slog.Logger
	clock     clock.Clock
	validator *requestValidator
}

func New(
	d transport.ConnDialer,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Client {
	return &Client{
		dialer:    d,
		opts:      opts,
		logger:    logger,
		clock:     clock,
		validator: mustNewRequestValidator(),
	}
}

// Send is [Client.Do] which never fails.
// Any failure is answered with a bare 500 response.
func (c *Client) Send(ctx context.Context, request *http.Request) *http.Response {
	res, err := c.Do(ctx, request)
	if err != nil {
		c.logger.Warn("request failed, answering with internal server error",
			"method", request.Method(),
			"uri", request.URI().String(),
			"error", err,
		)
		return http.NewResponse(status.InternalServerError.Code, nil, http.TextBody(""))
	}
	return res
}

// Do sends request and returns the response it got.
//
// X-Forwarded-For is set from the remote address of request unless already present.
// request itself is left untouched.
func (c *Client) Do(ctx context.Context, request *http.Request) (*http.Response, error) {
	if err := c.validator.check(request); err != nil {
		return nil, errors.Wrap(err, "validating request")
	}

	request = request.Clone()
	if remote := request.RemoteAddress(); remote != "" && !request.HasHeader("X-Forwarded-For") {
		request.SetHeader("X-Forwarded-For", remote)
	}

	addr := dialAddr(request.URI())

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = c.clock.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := c.clock.Now()
	logger := c.logger.With("method", request.Method(), "addr", addr, "target", request.Target())
	logger.Debug("sending request")

	res, err := c.roundtrip(ctx, addr, request)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, "waiting for response")
		}
		return nil, err
	}

	logger.Debug("received response",
		"status", res.StatusCode(),
		"elapsed", c.clock.Since(start),
	)

	return res, nil
}

func (c *Client) roundtrip(ctx context.Context, addr string, request *http.Request) (*http.Response, error) {
	conn, err := c.dialer.Dial(ctx, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadLine(deadline)
		conn.SetWriteDeadLine(deadline)
	}
	// Unblock pending I/O once ctx is done.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := http.NewRequestEncoder(conn).Encode(request); err != nil {
		return nil, errors.Wrap(err, "writing request")
	}

	raw, err := http.ReadRawResponse(transport.EOFReader(conn), c.opts.MaxResponseSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	res, err := http.ParseResponse(raw, nil)
	if err != nil {
		return nil, errors.Wrap(err, "parsing response")
	}

	return res, nil
}

// dialAddr returns "host:port" of u. Without a port, the default port of the scheme is used.
func dialAddr(u *uri.URI) string {
	port, ok := u.Port()
	if !ok {
		scheme := u.Scheme()
		if scheme == "" {
			scheme = "http"
		}
		port, _ = uri.DefaultPort(scheme)
	}

	host := u.Host()
	if len(host) > 1 && host[0] == '[' {
		host = host[1 : len(host)-1]
	}
	return net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10))
}
