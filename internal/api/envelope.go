package api

import (
	"encoding/json"
	"fmt"
)

// Meta carries pagination info on list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Envelope is the backend's uniform response wrapper. The base client
// decodes every response into it, 2xx or not; domain clients decide what a
// failure means for their call.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`

	// HTTPStatus is the status the envelope arrived with.
	HTTPStatus int `json:"-"`
}

// ErrorMessage extracts the backend's error text. The field is a plain
// string on most endpoints and an object with a message key on a few.
func (e *Envelope) ErrorMessage() string {
	if len(e.Error) == 0 {
		return e.Message
	}

	var s string
	if err := json.Unmarshal(e.Error, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(e.Error, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	return string(e.Error)
}

// ErrorCode extracts a machine-readable error code when the backend sends
// one (object-form errors only).
func (e *Envelope) ErrorCode() string {
	if len(e.Error) == 0 {
		return ""
	}
	var obj struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(e.Error, &obj); err == nil {
		return obj.Code
	}
	return ""
}

// DataAs decodes the envelope's data field into T.
func DataAs[T any](env *Envelope) (T, error) {
	var v T
	if len(env.Data) == 0 {
		return v, fmt.Errorf("response has no data")
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, &TransportError{Op: "decode data", Err: err}
	}
	return v, nil
}
