package http

import (
	"strconv"
	"testing"

	"simple-http/application/util/uri"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}

func TestMessageParsedBody(t *testing.T) {
	testcases := []struct {
		desc     string
		headers  *Headers
		body     Body
		expected any
		wantErr  bool
	}{
		{
			desc:     "absent",
			body:     NoBody,
			expected: nil,
		},
		{
			desc:     "plain text",
			headers:  HeadersFromLines("Content-Type: text/plain"),
			body:     TextBody("hello"),
			expected: "hello",
		},
		{
			desc:     "json",
			headers:  HeadersFromLines("Content-Type: application/json; charset=utf-8"),
			body:     TextBody(`{"a":[1,"b"]}`),
			expected: map[string]any{"a": []any{float64(1), "b"}},
		},
		{
			desc:    "invalid json",
			headers: HeadersFromLines("Content-Type: application/json"),
			body:    TextBody(`{"a":`),
			wantErr: true,
		},
		{
			desc:     "structured",
			body:     StructuredBody(map[string]string{"k": "v"}),
			expected: map[string]string{"k": "v"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			res := NewResponse(200, tc.headers, tc.body)

			v, err := res.ParsedBody()
			if tc.wantErr {
				require.Error(t, err)

				// The failure is cached as well.
				_, again := res.ParsedBody()
				assert.Equal(t, err, again)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestMessageParsedBodyFollowsChanges(t *testing.T) {
	req := NewRequest("POST", uri.MustParse("http://example.com/"), nil, TextBody(`{"n":1}`))

	v, err := req.ParsedBody()
	require.NoError(t, err)
	assert.Equal(t, `{"n":1}`, v)

	req.SetHeader("Content-Type", "application/json")
	v, err = req.ParsedBody()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(1)}, v)

	req.SetBody(TextBody(`{"n":2}`))
	v, err = req.ParsedBody()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(2)}, v)
}

func TestMessageHasBody(t *testing.T) {
	assert.False(t, NewResponse(200, nil, NoBody).HasBody())
	assert.True(t, NewResponse(200, nil, TextBody("")).HasBody())
}

func TestMessageHeadersInPlace(t *testing.T) {
	res := NewResponse(200, nil, NoBody)
	res.Headers().Set("X-A", "1")
	assert.Equal(t, []string{"1"}, res.Header("x-a"))
}

func TestMessageHeadersAreCopied(t *testing.T) {
	h := HeadersFromLines("A: 1")
	res := NewResponse(200, h, NoBody)

	h.Set("A", "2")
	assert.Equal(t, []string{"1"}, res.Header("A"))
}
