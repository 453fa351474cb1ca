package session

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrStorage indicates the backing storage failed a read or write.
	// Storage failure is surfaced to the current step, never swallowed.
	ErrStorage = errors.New("session storage error")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("session store is closed")
)

// StorageError wraps ErrStorage with operation details.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("session storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return ErrStorage
}

// Store persists at most one live book creation session.
//
// Current returns (nil, nil) when no session has ever been minted; every
// other miss is a real error. Update is self-initializing: when no session
// exists one is created first, then the patch is merged.
type Store interface {
	// SessionID returns the existing session identifier, minting and
	// persisting a fresh one when absent.
	SessionID() (string, error)
	// Current returns the live session, or nil when none exists.
	Current() (*Session, error)
	// Update merges a patch into the current session, creating the
	// session first when necessary, and returns the merged result.
	Update(Patch) (*Session, error)
	// Clear removes both the session pointer and its data blob.
	Clear() error
	// FallbackToken reads the legacy auth token stored outside the
	// session blob.
	FallbackToken() (string, error)
	// SetFallbackToken writes the legacy auth token.
	SetFallbackToken(token string) error
	// Close releases any resources held by the store.
	Close() error
}

// Named setters. Each is a convenience over Update with no side effects
// beyond the merge.

func SetCharacter(s Store, c Character) (*Session, error) {
	return s.Update(Patch{Character: &c})
}

// SetAnswers merges a batch of answers into the session.
func SetAnswers(s Store, answers map[string]string) (*Session, error) {
	return s.Update(Patch{Answers: answers})
}

// SetAnswer upserts a single answer.
func SetAnswer(s Store, questionID, answer string) (*Session, error) {
	return s.Update(Patch{Answers: map[string]string{questionID: answer}})
}

// SetOccasion records the gift occasion. Choosing an occasion implies the
// gift path.
func SetOccasion(s Store, occasion string) (*Session, error) {
	return s.Update(Patch{Occasion: &occasion, IsGift: ptr(true)})
}

func SetGenre(s Store, genre string) (*Session, error) {
	return s.Update(Patch{Genre: &genre})
}

func SetEmail(s Store, email string) (*Session, error) {
	return s.Update(Patch{Email: &email})
}

func SetBookID(s Store, bookID string) (*Session, error) {
	return s.Update(Patch{BookID: &bookID})
}

func SetAuthToken(s Store, token string) (*Session, error) {
	return s.Update(Patch{AuthToken: &token})
}

func SetCoverType(s Store, ct CoverType) (*Session, error) {
	return s.Update(Patch{CoverType: &ct})
}

// SetTitle records the selected title and optional subtitle.
func SetTitle(s Store, title, subtitle string) (*Session, error) {
	return s.Update(Patch{SelectedTitle: &title, SelectedSubtitle: &subtitle})
}

func SetPhotoURL(s Store, url string) (*Session, error) {
	return s.Update(Patch{PhotoURL: &url})
}
