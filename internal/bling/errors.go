package bling

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("bling rejected the access token")
	ErrRefreshRejected = errors.New("bling rejected the token refresh")
)

const maxErrorBody = 512

// APIError is a completed upstream call that Bling did not accept.
type APIError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: status %d: %s", e.Err, e.StatusCode, body)
	}

	return fmt.Sprintf("bling: status %d: %s", e.StatusCode, body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
