// Package transport defines the byte stream connections HTTP messages travel on.
package transport

// Addr is an endpoint address. [net.Addr] satisfies it.
type Addr interface {
	Network() string
	String() string
}
