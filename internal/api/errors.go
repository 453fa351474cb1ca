package api

import (
	"errors"
	"fmt"
)

// Common API errors.
var (
	// ErrTransport indicates the request never produced a usable response:
	// connection failure, timeout, or an undecodable body. Retryable by
	// re-issuing the same call.
	ErrTransport = errors.New("transport error")

	// ErrTokenInvalid indicates a credential the backend explicitly
	// rejected: expired or malformed. Not retryable by the same action.
	ErrTokenInvalid = errors.New("token invalid or expired")

	// ErrRequestFailed indicates the backend answered with success=false
	// for a non-credential reason.
	ErrRequestFailed = errors.New("request failed")
)

// TransportError wraps ErrTransport with call details.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}

// TokenError wraps ErrTokenInvalid with the backend's message.
type TokenError struct {
	Message string
}

func (e *TokenError) Error() string {
	if e.Message == "" {
		return ErrTokenInvalid.Error()
	}
	return e.Message
}

func (e *TokenError) Unwrap() error {
	return ErrTokenInvalid
}

// RequestError wraps ErrRequestFailed with the backend's message and the
// HTTP status it arrived with.
type RequestError struct {
	Op      string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned failure (HTTP %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}

// IsTransport reports whether err is a retryable transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsTokenInvalid reports whether err is a rejected credential.
func IsTokenInvalid(err error) bool {
	return errors.Is(err, ErrTokenInvalid)
}
