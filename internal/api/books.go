package api

import (
	"context"
	"fmt"
	"strings"
)

// BooksAPI groups the authenticated book endpoints used after checkout:
// full generation, status, and the final download.
type BooksAPI struct {
	c *Client
}

// Books returns the authenticated book endpoint group.
func (c *Client) Books() *BooksAPI {
	return &BooksAPI{c: c}
}

// Get fetches the book's current record, including its generation status.
func (b *BooksAPI) Get(ctx context.Context, bookID string) (*BookDraft, error) {
	env, err := b.c.Get(ctx, "/books/"+bookID)
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

// AlreadyGeneratingError marks the backend's "generation already in
// progress" rejection. Triggering a book that is already being generated
// is treated by callers as success-to-poll, not as a failure.
type AlreadyGeneratingError struct {
	BookID string
}

func (e *AlreadyGeneratingError) Error() string {
	return fmt.Sprintf("book %s is already generating", e.BookID)
}

// Generate starts full generation. An already-in-progress rejection comes
// back as *AlreadyGeneratingError so callers can fall through to polling.
func (b *BooksAPI) Generate(ctx context.Context, bookID string) error {
	env, err := b.c.Post(ctx, fmt.Sprintf("/books/%s/generate", bookID), nil)
	if err != nil {
		return err
	}
	if !env.Success {
		if isAlreadyGenerating(env) {
			return &AlreadyGeneratingError{BookID: bookID}
		}
		return failure("generate book", env)
	}
	return nil
}

func isAlreadyGenerating(env *Envelope) bool {
	if env.ErrorCode() == "ALREADY_GENERATING" {
		return true
	}
	msg := strings.ToLower(env.ErrorMessage())
	return strings.Contains(msg, "already") &&
		(strings.Contains(msg, "generat") || strings.Contains(msg, "progress"))
}

// DownloadLink fetches a fresh short-lived URL for the final PDF.
func (b *BooksAPI) DownloadLink(ctx context.Context, bookID string) (string, error) {
	env, err := b.c.Get(ctx, fmt.Sprintf("/books/%s/download", bookID))
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", failure("download link", env)
	}
	link, err := DataAs[DownloadLink](env)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}
