// Command simplehttp sends one HTTP request and prints the raw response.
//
//	simplehttp [-X METHOD] [-H 'Name: value']... [-d body] [-json] URL
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"simple-http/application/http"
	"simple-http/application/http/actor/client"
	"simple-http/application/util/uri"
	"simple-http/internal/config"
	"simple-http/transport"
	"simple-http/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "simplehttp:", err)
		os.Exit(2)
	}

	os.Exit(run(ctx, cfg, tcp.NewDialer(), os.Args[1:], os.Stdout, os.Stderr))
}

type headerFlags []string

func (h *headerFlags) String() string { return strings.Join(*h, ", ") }

func (h *headerFlags) Set(line string) error {
	if !strings.Contains(line, ":") {
		return errors.Errorf("header %q has no colon", line)
	}
	*h = append(*h, line)
	return nil
}

type options struct {
	method  string
	headers headerFlags
	data    string
	json    bool
	target  string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var opts options

	fs := flag.NewFlagSet("simplehttp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.method, "X", "", "request method (default GET, or POST with -d)")
	fs.Var(&opts.headers, "H", "request header 'Name: value', may be repeated")
	fs.StringVar(&opts.data, "d", "", "request body")
	fs.BoolVar(&opts.json, "json", false, "send the body as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, errors.New("expected exactly one URL")
	}
	opts.target = fs.Arg(0)

	if opts.method == "" {
		opts.method = "GET"
		if opts.data != "" {
			opts.method = "POST"
		}
	}

	return &opts, nil
}

func buildRequest(opts *options) (*http.Request, error) {
	u, err := uri.Parse(opts.target)
	if err != nil {
		return nil, errors.Wrap(err, "parsing URL")
	}

	body := http.NoBody
	switch {
	case opts.json:
		var v any
		if err := json.Unmarshal([]byte(opts.data), &v); err != nil {
			return nil, errors.Wrap(err, "decoding -d as json")
		}
		body = http.StructuredBody(v)
	case opts.data != "":
		body = http.TextBody(opts.data)
	}

	return http.NewRequest(opts.method, u, http.HeadersFromLines(opts.headers...), body), nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.LogJSON() {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func run(ctx context.Context, cfg config.Config, d transport.ConnDialer, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "simplehttp:", err)
		return 2
	}

	request, err := buildRequest(opts)
	if err != nil {
		fmt.Fprintln(stderr, "simplehttp:", err)
		return 2
	}
	if addr := cfg.RemoteAddr(); addr != "" {
		request.SetRemoteAddress(addr)
	}

	c := client.New(d, newLogger(cfg, stderr), clock.New(), client.Options{
		Timeout:         cfg.Timeout(),
		MaxResponseSize: cfg.MaxResponseSize(),
	})

	res, err := c.Do(ctx, request)
	if err != nil {
		fmt.Fprintln(stderr, "simplehttp:", err)
		return 1
	}

	raw, err := res.Raw()
	if err != nil {
		fmt.Fprintln(stderr, "simplehttp:", err)
		return 1
	}
	if _, err := stdout.Write(raw); err != nil {
		return 1
	}
	fmt.Fprintln(stdout)
	return 0
}
