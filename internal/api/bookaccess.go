package api

import (
	"context"
	"net/url"
)

// BookAccessAPI groups the single-book emailed-token endpoints.
type BookAccessAPI struct {
	c *Client
}

// BookAccess returns the book-access endpoint group.
func (c *Client) BookAccess() *BookAccessAPI {
	return &BookAccessAPI{c: c}
}

// Verify checks a single-book access token and returns what it grants.
// Backend rejection (expired, malformed) is a TokenError, distinct from
// transport errors.
func (b *BookAccessAPI) Verify(ctx context.Context, token string) (*AccessGrant, error) {
	env, err := b.c.Get(ctx, "/book-access/verify?token="+url.QueryEscape(token))
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &TokenError{Message: env.ErrorMessage()}
	}
	grant, err := DataAs[AccessGrant](env)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// DownloadURL builds the authenticated direct-download URL for the token.
// The download action redirects here without rendering anything.
func (b *BookAccessAPI) DownloadURL(token string) string {
	return b.c.baseURL + "/book-access/book?token=" + url.QueryEscape(token)
}
