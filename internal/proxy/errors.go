package proxy

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoProvider is wrapped when every relay failed.
var ErrNoProvider = errors.New("all image relays failed")

// Kind classifies a proxy failure for the HTTP layer.
type Kind int

const (
	KindServer Kind = iota
	KindTimeout
	KindBadGateway
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindBadGateway:
		return "bad_gateway"
	default:
		return "server"
	}
}

// HTTPStatus maps the kind to a response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is returned by Resolver.Resolve.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("image request timed out: %v", e.Err)
	case KindBadGateway:
		return fmt.Sprintf("image request failed: %v", e.Err)
	default:
		return fmt.Sprintf("image proxy failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
