package server

import "time"

type Options struct {
	// Zero means no timeout.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxRequestSize limits the size of a raw request. Zero means no limit.
	MaxRequestSize uint
}
