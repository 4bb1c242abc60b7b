package server

import (
	"context"

	"simple-http/application/http"
	"simple-http/application/http/status"

	"github.com/pkg/errors"
)

// Handler answers a request. A nil response is answered with 500.
type Handler interface {
	Handle(ctx context.Context, request *http.Request) *http.Response
}

type HandlerFunc func(ctx context.Context, request *http.Request) *http.Response

func (f HandlerFunc) Handle(ctx context.Context, request *http.Request) *http.Response {
	return f(ctx, request)
}

var errNilResponse = errors.New("handler returned nil response")

func doHandle(ctx context.Context, h Handler, request *http.Request) (res *http.Response, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("handler panicked: %v", e)
		}
	}()

	res = h.Handle(ctx, request)
	if res == nil {
		return nil, errNilResponse
	}
	return res, nil
}

func errorResponse(st status.Status) *http.Response {
	return http.NewResponse(st.Code, http.HeadersFromLines("Connection: close"), http.TextBody(""))
}
