package api

import (
	"context"
	"net/url"
)

// MagicLinkAPI groups the passwordless account-access endpoints.
type MagicLinkAPI struct {
	c *Client
}

// MagicLink returns the magic-link endpoint group.
func (c *Client) MagicLink() *MagicLinkAPI {
	return &MagicLinkAPI{c: c}
}

// Send requests a magic-link email for the given address.
func (m *MagicLinkAPI) Send(ctx context.Context, email string) error {
	env, err := m.c.Post(ctx, "/magic-link/send", map[string]string{"email": email})
	if err != nil {
		return err
	}
	if !env.Success {
		return failure("send magic link", env)
	}
	return nil
}

// Verify checks a magic-link token. A backend rejection is a TokenError;
// a transport failure stays a TransportError. Callers must keep the two
// apart: only the latter is retryable.
func (m *MagicLinkAPI) Verify(ctx context.Context, token string) (*VerifiedIdentity, error) {
	env, err := m.c.Get(ctx, "/magic-link/verify?token="+url.QueryEscape(token))
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &TokenError{Message: env.ErrorMessage()}
	}
	id, err := DataAs[VerifiedIdentity](env)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Books lists every book owned by the identity behind the token.
func (m *MagicLinkAPI) Books(ctx context.Context, token string) ([]OwnedBook, error) {
	env, err := m.c.Get(ctx, "/magic-link/books?token="+url.QueryEscape(token))
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("magic link books", env)
	}
	books, err := DataAs[[]OwnedBook](env)
	if err != nil {
		return nil, err
	}
	return books, nil
}
