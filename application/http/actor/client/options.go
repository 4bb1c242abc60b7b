package client

import "time"

type Options struct {
	// Timeout bounds a whole exchange, from dial to the last byte of the response.
	// Zero means no timeout.
	Timeout time.Duration

	// MaxResponseSize limits the size of a raw response. Zero means no limit.
	MaxResponseSize uint
}
