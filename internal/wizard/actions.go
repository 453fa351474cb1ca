package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/logging"
	"github.com/fiabamia/fiaba/internal/session"
)

// PlaceholderName stands in for the protagonist when a preview is loaded
// by book id alone, without the session that named the character.
const PlaceholderName = "il tuo personaggio"

// Actions are the wizard's backend effects. Every method reads its
// inputs from the session and persists what the backend returns, so a
// re-run after an interruption picks up where it left off.
type Actions struct {
	client *api.Client
	store  session.Store
	log    *logging.Logger
}

func NewActions(client *api.Client, store session.Store) *Actions {
	return &Actions{client: client, store: store, log: logging.New("wizard")}
}

// SubmitEmail validates the address, makes sure a book draft exists for
// the session, and links the two via email capture. The resulting book
// id and account token are persisted; re-submitting is safe.
func (a *Actions) SubmitEmail(ctx context.Context, email string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	sess, err := session.SetEmail(a.store, email)
	if err != nil {
		return nil, err
	}

	bookID := sess.BookID
	if bookID == "" {
		start := time.Now()
		book, err := a.client.Guest().CreateBook(ctx, session.BuildCreationPayload(sess))
		if err != nil {
			return nil, err
		}
		bookID = book.ID
		if sess, err = session.SetBookID(a.store, bookID); err != nil {
			return nil, err
		}
		a.log.WithSession(sess.SessionID).WithBook(bookID).TimedEvent("book_created", start, nil)
	}

	name := ""
	if sess.Character != nil {
		name = sess.Character.Name
	}
	captured, err := a.client.Guest().CaptureEmail(ctx, bookID, email, name)
	if err != nil {
		return nil, err
	}
	if captured.Token != "" {
		if sess, err = session.SetAuthToken(a.store, captured.Token); err != nil {
			return nil, err
		}
	}
	a.log.WithBook(bookID).Info("email_captured", nil)
	return sess, nil
}

// GenerateTitles asks the backend for title options for the session's
// book.
func (a *Actions) GenerateTitles(ctx context.Context) ([]api.TitleVariant, error) {
	bookID, err := a.requireBookID("")
	if err != nil {
		return nil, err
	}
	return a.client.Guest().GenerateTitles(ctx, bookID)
}

// ChooseTitle persists the selection locally and on the book draft.
func (a *Actions) ChooseTitle(ctx context.Context, title, subtitle string) (*session.Session, error) {
	sess, err := a.flowCommitTitle(title, subtitle)
	if err != nil {
		return nil, err
	}
	if _, err := a.client.Guest().UpdateBook(ctx, sess.BookID, api.BookUpdate{Title: sess.SelectedTitle}); err != nil {
		return nil, err
	}
	return sess, nil
}

func (a *Actions) flowCommitTitle(title, subtitle string) (*session.Session, error) {
	if _, err := a.requireBookID(""); err != nil {
		return nil, err
	}
	return NewFlow(a.store).CommitTitle(title, subtitle)
}

// UploadPhoto resolves the pattern to a single local file, uploads it,
// and persists the stored URL both locally and on the book draft.
// Patterns follow shell glob syntax including **.
func (a *Actions) UploadPhoto(ctx context.Context, pattern string) (*session.Session, error) {
	bookID, err := a.requireBookID("")
	if err != nil {
		return nil, err
	}

	path, err := resolvePhoto(pattern)
	if err != nil {
		return nil, err
	}

	url, err := a.client.Uploads().Image(ctx, path)
	if err != nil {
		return nil, err
	}
	sess, err := session.SetPhotoURL(a.store, url)
	if err != nil {
		return nil, err
	}
	if _, err := a.client.Guest().UpdateBook(ctx, bookID, api.BookUpdate{CoverPhotoURL: url}); err != nil {
		return nil, err
	}
	a.log.WithBook(bookID).Info("photo_uploaded", nil)
	return sess, nil
}

func resolvePhoto(pattern string) (string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", &ValidationError{Field: "photo", Message: "bad file pattern"}
	}
	if len(matches) == 0 {
		return "", &ValidationError{Field: "photo", Message: "no file matches " + pattern}
	}
	sort.Strings(matches)
	return matches[0], nil
}

// PreviewResult is a loaded preview plus the protagonist name to show
// with it.
type PreviewResult struct {
	BookID      string
	Protagonist string
	Preview     *api.BookPreview
}

// LoadPreview fetches the preview for bookIDOverride when given (the
// emailed deep-link path), otherwise for the session's book. A preview
// that was never generated is generated now. Works without any session
// character data: the protagonist falls back to a placeholder.
func (a *Actions) LoadPreview(ctx context.Context, bookIDOverride string) (*PreviewResult, error) {
	bookID, err := a.requireBookID(bookIDOverride)
	if err != nil {
		return nil, err
	}

	protagonist := PlaceholderName
	if sess, err := a.store.Current(); err == nil && sess != nil &&
		sess.Character != nil && sess.Character.Name != "" {
		protagonist = sess.Character.Name
	}

	preview, err := a.client.Guest().GetPreview(ctx, bookID)
	if err != nil || !preview.PreviewGenerated {
		preview, err = a.client.Guest().GeneratePreview(ctx, bookID)
		if err != nil {
			return nil, err
		}
	}

	return &PreviewResult{BookID: bookID, Protagonist: protagonist, Preview: preview}, nil
}

// StartCheckout creates an order for the book and returns the payment
// URL to open.
func (a *Actions) StartCheckout(ctx context.Context, bookID, productID, returnURL string) (string, error) {
	bookID, err := a.requireBookID(bookID)
	if err != nil {
		return "", err
	}

	order, err := a.client.Orders().Create(ctx, bookID, productID)
	if err != nil {
		return "", err
	}
	checkoutURL, err := a.client.Orders().Checkout(ctx, order.ID, returnURL)
	if err != nil {
		return "", err
	}
	a.log.WithBook(bookID).Info("checkout_started", map[string]interface{}{"order": order.ID})
	return checkoutURL, nil
}

// requireBookID returns the override when given, otherwise the session's
// book id, otherwise a recoverable routing error back to the email step.
func (a *Actions) requireBookID(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	sess, err := a.store.Current()
	if err != nil {
		return "", err
	}
	if sess == nil || sess.BookID == "" {
		return "", &MissingPrereqError{Step: StepPreview, Missing: "a created book", RouteTo: StepEmail}
	}
	return sess.BookID, nil
}

// Summary renders a short plain description of where the session stands.
func Summary(sess *session.Session) string {
	if sess == nil {
		return "no session yet"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "session %s\n", sess.SessionID)
	if sess.Character != nil {
		fmt.Fprintf(&b, "character: %s (%s)\n", sess.Character.Name, sess.Character.Type)
	}
	if sess.Genre != "" {
		fmt.Fprintf(&b, "genre: %s\n", sess.Genre)
	}
	if sess.IsGift {
		fmt.Fprintf(&b, "gift: yes (%s)\n", sess.Occasion)
	}
	if sess.BookID != "" {
		fmt.Fprintf(&b, "book: %s\n", sess.BookID)
	}
	fmt.Fprintf(&b, "next step: %s", FirstIncomplete(sess))
	return b.String()
}
