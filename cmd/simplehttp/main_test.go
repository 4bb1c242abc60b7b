package main

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"simple-http/application/http"
	"simple-http/application/http/actor/server"
	"simple-http/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type testConfig struct{ remoteAddr string }

func (testConfig) Timeout() time.Duration { return 5 * time.Second }
func (c testConfig) RemoteAddr() string   { return c.remoteAddr }
func (testConfig) MaxResponseSize() uint  { return 1 << 16 }
func (testConfig) LogLevel() slog.Level   { return slog.LevelError }
func (testConfig) LogJSON() bool          { return false }

func TestParseFlags(t *testing.T) {
	testcases := []struct {
		desc       string
		args       []string
		wantMethod string
		wantErr    bool
	}{
		{desc: "default method", args: []string{"http://a/"}, wantMethod: "GET"},
		{desc: "body implies post", args: []string{"-d", "x", "http://a/"}, wantMethod: "POST"},
		{desc: "explicit method", args: []string{"-X", "PUT", "-d", "x", "http://a/"}, wantMethod: "PUT"},
		{desc: "missing url", args: []string{"-X", "GET"}, wantErr: true},
		{desc: "header without colon", args: []string{"-H", "nope", "http://a/"}, wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			opts, err := parseFlags(tc.args, &bytes.Buffer{})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMethod, opts.method)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	req, err := buildRequest(&options{
		method:  "POST",
		headers: headerFlags{"Accept: text/plain", "X-Tag: a;b"},
		data:    `{"n":1}`,
		json:    true,
		target:  "http://example.com:8080/p?q=1",
	})
	require.NoError(t, err)

	assert.Equal(t, "/p?q=1", req.Target())
	assert.Equal(t, []string{"a", "b"}, req.Header("X-Tag"))
	assert.Equal(t, map[string]any{"n": float64(1)}, req.Body().Value())

	_, err = buildRequest(&options{method: "POST", data: "{", json: true, target: "http://a/"})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	lis, err := tcp.Listen("127.0.0.1:0")
	require.NoError(t, err)

	received := make(chan *http.Request, 1)
	srv := server.New(lis, server.HandlerFunc(func(_ context.Context, req *http.Request) *http.Response {
		received <- req
		return http.NewResponse(201, http.HeadersFromLines("X-Served: yes"), http.TextBody("created"))
	}), slog.New(slog.DiscardHandler), clock.New(), server.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, srv.Serve(ctx))
	}()
	defer func() {
		cancel()
		wg.Wait()
		assert.NoError(t, srv.Close())
	}()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), testConfig{remoteAddr: "10.1.1.1"}, tcp.NewDialer(),
		[]string{"-d", "hi", "http://" + lis.Addr().String() + "/things"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "HTTP/1.1 201 Created\r\n")
	assert.Contains(t, stdout.String(), "X-Served: yes\r\n")
	assert.Contains(t, stdout.String(), "\r\n\r\ncreated")

	got := <-received
	assert.Equal(t, "POST", got.Method())
	assert.Equal(t, "hi", got.Body().Text())
	assert.Equal(t, []string{"10.1.1.1"}, got.Header("X-Forwarded-For"))
}

func TestRunRefused(t *testing.T) {
	lis, err := tcp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), testConfig{}, tcp.NewDialer(), []string{"http://" + addr + "/"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "simplehttp:")
}
