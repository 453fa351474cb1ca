package api

import (
	"context"
	"fmt"

	"github.com/fiabamia/fiaba/internal/session"
)

// GuestAPI groups the public guest-facing endpoints. No credential is
// required; the guest-session header identifies the caller.
type GuestAPI struct {
	c *Client
}

// Guest returns the guest endpoint group.
func (c *Client) Guest() *GuestAPI {
	return &GuestAPI{c: c}
}

// CreateBook creates a new book draft from the session-derived payload.
func (g *GuestAPI) CreateBook(ctx context.Context, payload *session.CreationPayload) (*BookDraft, error) {
	env, err := g.c.Post(ctx, "/guest/books", payload)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("create book", env)
	}
	book, err := DataAs[BookDraft](env)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBook fetches a book draft by id.
func (g *GuestAPI) GetBook(ctx context.Context, bookID string) (*BookDraft, error) {
	env, err := g.c.Get(ctx, "/guest/books/"+bookID)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("get book", env)
	}
	book, err := DataAs[BookDraft](env)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// BookUpdate is a partial book draft update.
type BookUpdate struct {
	Title         string          `json:"title,omitempty"`
	Genre         string          `json:"genre,omitempty"`
	Occasion      string          `json:"occasion,omitempty"`
	Characters    []BookCharacter `json:"characters,omitempty"`
	Customization map[string]any  `json:"customization,omitempty"`
	CoverPhotoURL string          `json:"coverPhotoUrl,omitempty"`
}

// UpdateBook patches a book draft.
func (g *GuestAPI) UpdateBook(ctx context.Context, bookID string, update BookUpdate) (*BookDraft, error) {
	env, err := g.c.Patch(ctx, "/guest/books/"+bookID, update)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("update book", env)
	}
	book, err := DataAs[BookDraft](env)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GeneratePreview asks the backend to produce the pre-purchase preview.
func (g *GuestAPI) GeneratePreview(ctx context.Context, bookID string) (*BookPreview, error) {
	env, err := g.c.Post(ctx, fmt.Sprintf("/guest/books/%s/preview", bookID), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("generate preview", env)
	}
	preview, err := DataAs[BookPreview](env)
	if err != nil {
		return nil, err
	}
	return &preview, nil
}

// GetPreview fetches an already generated preview.
func (g *GuestAPI) GetPreview(ctx context.Context, bookID string) (*BookPreview, error) {
	env, err := g.c.Get(ctx, fmt.Sprintf("/guest/books/%s/preview", bookID))
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("get preview", env)
	}
	preview, err := DataAs[BookPreview](env)
	if err != nil {
		return nil, err
	}
	return &preview, nil
}

// GenerateTitles asks the backend for title variants.
func (g *GuestAPI) GenerateTitles(ctx context.Context, bookID string) ([]TitleVariant, error) {
	env, err := g.c.Post(ctx, fmt.Sprintf("/guest/books/%s/generate-titles", bookID), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("generate titles", env)
	}
	data, err := DataAs[struct {
		Titles []TitleVariant `json:"titles"`
	}](env)
	if err != nil {
		return nil, err
	}
	return data.Titles, nil
}

// CaptureEmail links the book to an account by email and returns the
// account token.
func (g *GuestAPI) CaptureEmail(ctx context.Context, bookID, email, name string) (*EmailCaptureResult, error) {
	body := map[string]string{"email": email}
	if name != "" {
		body["name"] = name
	}
	env, err := g.c.Post(ctx, fmt.Sprintf("/guest/books/%s/capture-email", bookID), body)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("capture email", env)
	}
	result, err := DataAs[EmailCaptureResult](env)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SessionBooks lists all books created under the current guest session.
func (g *GuestAPI) SessionBooks(ctx context.Context) ([]BookDraft, error) {
	env, err := g.c.Get(ctx, "/guest/session")
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure("session books", env)
	}
	data, err := DataAs[struct {
		Books []BookDraft `json:"books"`
	}](env)
	if err != nil {
		return nil, err
	}
	return data.Books, nil
}
