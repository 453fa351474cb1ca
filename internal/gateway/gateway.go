// Package gateway turns emailed tokens into a concrete destination: a
// single-book access token resolves to a preview, payment, or download
// outcome, and a magic-link token resolves to the owned-books listing.
package gateway

import (
	"context"
	"fmt"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/logging"
	"github.com/fiabamia/fiaba/internal/session"
)

// Action is what the token holder came to do.
type Action string

const (
	ActionPreview  Action = "preview"
	ActionPay      Action = "pay"
	ActionDownload Action = "download"
)

// ParseAction maps a user-supplied action name. Empty defers to whatever
// the token itself grants.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case "", ActionPreview, ActionPay, ActionDownload:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q (want preview, pay or download)", s)
}

// Outcome is the resolved destination for a verified access token.
// RedirectURL is set only for download: that action never renders
// anything locally, the URL is the whole result.
type Outcome struct {
	Action      Action
	BookID      string
	Email       string
	RedirectURL string
}

// Resolver verifies inbound tokens and lands their holder on the right
// surface, persisting the verified credential into the session so later
// API calls carry it.
type Resolver struct {
	client *api.Client
	store  session.Store
	log    *logging.Logger
}

func NewResolver(client *api.Client, store session.Store) *Resolver {
	return &Resolver{client: client, store: store, log: logging.New("gateway")}
}

// ResolveAccess verifies a single-book token and returns where it leads.
// A backend rejection of the token surfaces as a TokenError; a network
// failure as a TransportError. Callers must not collapse the two: only
// the transport case is worth retrying with the same token.
func (r *Resolver) ResolveAccess(ctx context.Context, token string, requested Action) (*Outcome, error) {
	grant, err := r.client.BookAccess().Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := r.store.Update(session.Patch{
		BookAccessToken: &token,
		BookID:          &grant.BookID,
	}); err != nil {
		return nil, err
	}

	action := requested
	if action == "" {
		if a, err := ParseAction(grant.Action); err == nil && a != "" {
			action = a
		} else {
			action = ActionPreview
		}
	}

	out := &Outcome{Action: action, BookID: grant.BookID, Email: grant.Email}
	if action == ActionDownload {
		out.RedirectURL = r.client.BookAccess().DownloadURL(token)
	}

	r.log.WithBook(grant.BookID).Info("access_resolved", map[string]interface{}{
		"action": string(action),
	})
	return out, nil
}

// ListBooks verifies a magic-link token and returns the holder's books,
// already projected into display cards. The verified token and email are
// persisted into the session for subsequent calls.
func (r *Resolver) ListBooks(ctx context.Context, token string) ([]BookCard, error) {
	id, err := r.client.MagicLink().Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := r.store.Update(session.Patch{
		MagicLinkToken: &token,
		Email:          &id.Email,
	}); err != nil {
		return nil, err
	}

	books, err := r.client.MagicLink().Books(ctx, token)
	if err != nil {
		return nil, err
	}

	cards := make([]BookCard, 0, len(books))
	for _, b := range books {
		cards = append(cards, CardFor(b))
	}
	return cards, nil
}
