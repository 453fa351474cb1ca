// Package api is the typed HTTP client for the Fiaba backend. Every call
// goes through one discipline: the guest-session header is always
// attached, the resolved identity header when one exists, and responses
// are normalized into the backend's envelope instead of raised as errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fiabamia/fiaba/internal/identity"
	"github.com/fiabamia/fiaba/internal/logging"
	"github.com/fiabamia/fiaba/internal/session"
)

const requestTimeout = 30 * time.Second

// Client issues requests against the backend's /api base path.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store

	// inboundToken is a token supplied by the current entry link, used
	// only by flows reached from emailed links. Highest precedence.
	inboundToken string
}

// New creates a client for the given base URL (without the /api suffix).
func New(baseURL string, store session.Store) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/api",
		http:    &http.Client{Timeout: requestTimeout},
		store:   store,
	}
}

// WithToken returns a copy of the client that carries an inbound link
// token at highest identity precedence.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.inboundToken = token
	return &cp
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Patch issues a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: "encode body", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.setIdentityHeaders(req); err != nil {
		return nil, err
	}

	return c.send(req, method, path)
}

// Upload sends one file as multipart form data to the given path.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader) (*Envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, &TransportError{Op: "create form", Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &TransportError{Op: "read file", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Op: "close form", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := c.setIdentityHeaders(req); err != nil {
		return nil, err
	}

	return c.send(req, http.MethodPost, path)
}

// setIdentityHeaders attaches the guest-session header unconditionally
// (the backend links anonymous activity to accounts with it) and the
// Authorization header when a credential resolves.
func (c *Client) setIdentityHeaders(req *http.Request) error {
	sessionID, err := c.store.SessionID()
	if err != nil {
		return fmt.Errorf("guest session id: %w", err)
	}
	req.Header.Set("X-Guest-Session", sessionID)
	req.Header.Set("X-Request-Id", ulid.Make().String())

	sess, err := c.store.Current()
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	fallback, err := c.store.FallbackToken()
	if err != nil {
		return fmt.Errorf("read fallback token: %w", err)
	}
	if token, ok := identity.Resolve(sess, c.inboundToken, fallback); ok {
		req.Header.Set("Authorization", identity.Header(token))
	}
	return nil
}

func (c *Client) send(req *http.Request, method, path string) (*Envelope, error) {
	start := time.Now()
	requestID := req.Header.Get("X-Request-Id")

	resp, err := c.http.Do(req)
	if err != nil {
		logging.RequestEvent(method, path, requestID, 0, time.Since(start), err)
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logging.RequestEvent(method, path, requestID, resp.StatusCode, time.Since(start), err)
		return nil, &TransportError{Op: "read response", Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logging.RequestEvent(method, path, requestID, resp.StatusCode, time.Since(start), err)
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	env.HTTPStatus = resp.StatusCode

	logging.RequestEvent(method, path, requestID, resp.StatusCode, time.Since(start), nil)
	return &env, nil
}

// failure converts an unsuccessful envelope into a RequestError.
func failure(op string, env *Envelope) error {
	return &RequestError{Op: op, Status: env.HTTPStatus, Message: env.ErrorMessage()}
}
