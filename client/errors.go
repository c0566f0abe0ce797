package client

import (
	"errors"
	"fmt"
)

// ErrStatus flags a response with a non-2xx status code.
var ErrStatus = errors.New("unexpected response status")

// ErrMalformed flags a response body that does not parse as the expected shape.
var ErrMalformed = errors.New("malformed response body")

func errStatusNotOK(path string, code int) error {
	return fmt.Errorf("%w: %s returned %d", ErrStatus, path, code)
}

func errMalformedBody(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, path, cause)
}
