package http

import (
	"testing"

	"simple-http/application/http/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseDefaultPhrase(t *testing.T) {
	testcases := []struct {
		code     uint
		expected string
	}{
		{code: 200, expected: "OK"},
		{code: 404, expected: "Not Found"},
		{code: 418, expected: "I'm a teapot"},
		{code: 511, expected: "Network Authentication Required"},
		{code: 999, expected: ""},
	}
	for _, tc := range testcases {
		t.Run(tc.expected, func(t *testing.T) {
			res := NewResponse(tc.code, nil, NoBody)
			assert.Equal(t, tc.code, res.StatusCode())
			assert.Equal(t, tc.expected, res.ReasonPhrase())
		})
	}
}

func TestResponseSetStatus(t *testing.T) {
	res := NewResponse(200, nil, NoBody).SetStatusReason(200, "Fine")
	assert.Equal(t, "Fine", res.ReasonPhrase())

	res.SetStatus(503)
	assert.Equal(t, status.ServiceUnavailable, res.Status())

	res.SetStatus(799)
	assert.Equal(t, "", res.ReasonPhrase())

	copied := res.WithStatus(201)
	assert.Equal(t, uint(799), res.StatusCode())
	assert.Equal(t, "Created", copied.ReasonPhrase())

	reasoned := res.WithStatusReason(299, "Custom")
	assert.Equal(t, uint(799), res.StatusCode())
	assert.Equal(t, status.Status{Code: 299, ReasonPhrase: "Custom"}, reasoned.Status())
}

func TestResponseFlattenedHeaders(t *testing.T) {
	res := NewResponse(404, HeadersFromLines("Content-Type: text/plain; charset=utf-8"), NoBody)

	assert.Equal(t, []string{
		"Content-Type:text/plain;charset=utf-8",
		"HTTP/1.1 404 Not Found",
	}, res.FlattenedHeaders())

	assert.Equal(t, map[string][]string{
		"Content-Type": {"text/plain", "charset=utf-8"},
		"Status":       {"HTTP/1.1", "404", "Not Found"},
	}, res.StructuredHeaders())

	// The status entry is not stored.
	assert.False(t, res.HasHeader("Status"))
}

func TestResponseRaw(t *testing.T) {
	testcases := []struct {
		desc     string
		response *Response
		expected string
	}{
		{
			desc:     "text body",
			response: NewResponse(200, HeadersFromLines("Content-Type: text/plain"), TextBody("hello")),
			expected: "HTTP/1.1 200 OK\r\n" +
				"Content-Type:text/plain\r\n" +
				"Content-Length: 5\r\n" +
				"\r\n" +
				"hello",
		},
		{
			desc:     "structured body",
			response: NewResponse(201, nil, StructuredBody(map[string]int{"id": 7})),
			expected: "HTTP/1.1 201 Created\r\n" +
				"Content-Type: application/json\r\n" +
				"Content-Length: 8\r\n" +
				"\r\n" +
				`{"id":7}`,
		},
		{
			desc:     "explicit reason",
			response: NewResponse(204, nil, NoBody).SetStatusReason(204, "Nothing").SetVersion(Version{1, 0}),
			expected: "HTTP/1.0 204 Nothing\r\n" +
				"Content-Length: 0\r\n" +
				"\r\n",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			raw, err := tc.response.Raw()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(raw))
			assert.Equal(t, tc.expected, tc.response.String())
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	for code := uint(200); code < 600; code += 7 {
		res := NewResponse(code, HeadersFromLines("X-Code: yes"), TextBody("payload"))

		raw, err := res.Raw()
		require.NoError(t, err)

		parsed, err := ParseResponse(raw, nil)
		require.NoError(t, err)

		assert.Equal(t, code, parsed.StatusCode())
		assert.Equal(t, status.Phrase(code), parsed.ReasonPhrase())
		assert.Equal(t, "payload", parsed.Body().Text())
		assert.Equal(t, []string{"yes"}, parsed.Header("X-Code"))
	}
}

func TestResponseWithIsolation(t *testing.T) {
	original := NewResponse(200, HeadersFromLines("A: 1"), TextBody("body"))

	changed := original.
		WithHeader("A", "2").
		WithAddedHeaders("B: 3").
		WithoutHeader("Missing").
		WithBody(TextBody("other")).
		WithVersion(Version{2, 0}).
		WithHeaders(HeadersFromLines("C: 4"))

	assert.Equal(t, []string{"A:1"}, original.Headers().Flatten())
	assert.Equal(t, "body", original.Body().Text())
	assert.Equal(t, DefaultVersion, original.Version())

	assert.Equal(t, []string{"C:4"}, changed.Headers().Flatten())
	assert.Equal(t, "other", changed.Body().Text())
	assert.Equal(t, Version{2, 0}, changed.Version())
}

func TestResponseInPlace(t *testing.T) {
	res := NewResponse(200, HeadersFromLines("Content-Type: multipart/form-data; boundary=b"), NoBody)

	same := res.SetHeader("X-A", "1").RemoveHeaderValue("Content-Type", "BOUNDARY").RemoveHeader("X-A").SetBody(TextBody("x"))
	assert.Same(t, res, same)
	assert.Equal(t, []string{"Content-Type:multipart/form-data"}, res.Headers().Flatten())
	assert.Equal(t, "x", res.Body().Text())
}
