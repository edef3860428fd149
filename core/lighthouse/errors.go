package lighthouse

import "errors"

var (
	// ErrTransport means tickets could not be retrieved (network failure or non-2xx status).
	ErrTransport = errors.New("lighthouse transport failure")

	// ErrParse means the response body is not a well-formed ticket list.
	ErrParse = errors.New("lighthouse parse failure")
)
