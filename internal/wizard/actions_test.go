package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/session"
)

func newActions(t *testing.T, handler http.Handler) (*Actions, *session.MemStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemStore()
	return NewActions(api.New(srv.URL, store), store), store
}

func TestSubmitEmailCreatesBookAndCaptures(t *testing.T) {
	var created atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/guest/books", func(w http.ResponseWriter, r *http.Request) {
		created.Add(1)
		var payload session.CreationPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "marco@example.com", payload.Email)
		w.Write([]byte(`{"success":true,"data":{"id":"b-7","status":"DRAFT"}}`))
	})
	mux.HandleFunc("POST /api/guest/books/b-7/capture-email", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "marco@example.com", body["email"])
		assert.Equal(t, "Marco", body["name"])
		w.Write([]byte(`{"success":true,"data":{"book":{"id":"b-7"},"user":{"id":"u-1","email":"marco@example.com"},"token":"tok-acc"}}`))
	})
	a, store := newActions(t, mux)
	var logs bytes.Buffer
	a.log.SetOutput(&logs)
	store.Seed(&session.Session{
		SessionID: "s-1",
		Character: &session.Character{Name: "Marco", Type: session.CharacterPerson},
		Genre:     "comedy",
	})

	sess, err := a.SubmitEmail(context.Background(), " marco@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "b-7", sess.BookID)
	assert.Equal(t, "tok-acc", sess.AuthToken)
	assert.Equal(t, "marco@example.com", sess.Email)

	// Creation is logged with the session and book it belongs to.
	assert.Contains(t, logs.String(), `"event":"book_created"`)
	assert.Contains(t, logs.String(), `"session":"s-1"`)
	assert.Contains(t, logs.String(), `"book":"b-7"`)

	// Re-submitting reuses the existing book.
	_, err = a.SubmitEmail(context.Background(), "marco@example.com")
	require.NoError(t, err)
	assert.Equal(t, int32(1), created.Load())
}

func TestSubmitEmailRejectsInvalidAddress(t *testing.T) {
	a, _ := newActions(t, http.NewServeMux())

	_, err := a.SubmitEmail(context.Background(), "not-an-email")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestGenerateTitlesNeedsBook(t *testing.T) {
	a, _ := newActions(t, http.NewServeMux())

	_, err := a.GenerateTitles(context.Background())
	var missing *MissingPrereqError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, StepEmail, missing.RouteTo)
}

func TestChooseTitlePatchesBook(t *testing.T) {
	var patched atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/guest/books/b-7", func(w http.ResponseWriter, r *http.Request) {
		patched.Add(1)
		var update api.BookUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		assert.Equal(t, "La Storia di Marco", update.Title)
		w.Write([]byte(`{"success":true,"data":{"id":"b-7","title":"La Storia di Marco"}}`))
	})
	a, store := newActions(t, mux)
	store.Seed(&session.Session{SessionID: "s-1", BookID: "b-7"})

	sess, err := a.ChooseTitle(context.Background(), " La Storia di Marco ", "")
	require.NoError(t, err)
	assert.Equal(t, "La Storia di Marco", sess.SelectedTitle)
	assert.Equal(t, int32(1), patched.Load())
}

func TestUploadPhoto(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marco.jpg"), []byte("jpg"), 0o644))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload/image", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"url":"https://cdn/marco.jpg"}}`))
	})
	mux.HandleFunc("PATCH /api/guest/books/b-7", func(w http.ResponseWriter, r *http.Request) {
		var update api.BookUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		assert.Equal(t, "https://cdn/marco.jpg", update.CoverPhotoURL)
		w.Write([]byte(`{"success":true,"data":{"id":"b-7"}}`))
	})
	a, store := newActions(t, mux)
	store.Seed(&session.Session{SessionID: "s-1", BookID: "b-7"})

	sess, err := a.UploadPhoto(context.Background(), filepath.Join(dir, "*.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/marco.jpg", sess.PhotoURL)

	_, err = a.UploadPhoto(context.Background(), filepath.Join(dir, "*.png"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestLoadPreviewWithoutSessionUsesPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/guest/books/b-9/preview", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"title":"Una Storia","previewPages":[{"content":"..."}],"previewGenerated":true}}`))
	})
	a, _ := newActions(t, mux)

	// Only a book id, no session at all.
	res, err := a.LoadPreview(context.Background(), "b-9")
	require.NoError(t, err)
	assert.Equal(t, "b-9", res.BookID)
	assert.Equal(t, PlaceholderName, res.Protagonist)
	assert.Equal(t, "Una Storia", res.Preview.Title)
}

func TestLoadPreviewGeneratesWhenMissing(t *testing.T) {
	var generated atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/guest/books/b-9/preview", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"no preview yet"}`))
	})
	mux.HandleFunc("POST /api/guest/books/b-9/preview", func(w http.ResponseWriter, r *http.Request) {
		generated.Add(1)
		w.Write([]byte(`{"success":true,"data":{"title":"Una Storia","previewGenerated":true}}`))
	})
	a, store := newActions(t, mux)
	store.Seed(&session.Session{
		SessionID: "s-1",
		BookID:    "b-9",
		Character: &session.Character{Name: "Marco", Type: session.CharacterPerson},
	})

	res, err := a.LoadPreview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), generated.Load())
	assert.Equal(t, "Marco", res.Protagonist)
}

func TestLoadPreviewWithoutBookRoutesToEmail(t *testing.T) {
	a, _ := newActions(t, http.NewServeMux())

	_, err := a.LoadPreview(context.Background(), "")
	var missing *MissingPrereqError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, StepEmail, missing.RouteTo)
}

func TestStartCheckout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "b-7", body["bookId"])
		w.Write([]byte(`{"success":true,"data":{"id":"o-1","bookId":"b-7","status":"PENDING"}}`))
	})
	mux.HandleFunc("POST /api/orders/o-1/checkout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"checkoutUrl":"https://pay.example/x"}}`))
	})
	a, store := newActions(t, mux)
	store.Seed(&session.Session{SessionID: "s-1", BookID: "b-7"})

	url, err := a.StartCheckout(context.Background(), "", "prod-1", "https://app/return")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/x", url)
}
