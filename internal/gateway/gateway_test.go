package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/session"
)

func newResolver(t *testing.T, handler http.HandlerFunc) (*Resolver, *session.MemStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemStore()
	return NewResolver(api.New(srv.URL, store), store), store, srv
}

func TestResolveAccessPersistsGrant(t *testing.T) {
	r, store, _ := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/api/book-access/verify", req.URL.Path)
		assert.Equal(t, "tok-1", req.URL.Query().Get("token"))
		w.Write([]byte(`{"success":true,"data":{"bookId":"b-9","userId":"u-1","email":"a@b.it","action":"preview"}}`))
	})

	out, err := r.ResolveAccess(context.Background(), "tok-1", "")
	require.NoError(t, err)
	assert.Equal(t, ActionPreview, out.Action)
	assert.Equal(t, "b-9", out.BookID)
	assert.Empty(t, out.RedirectURL)

	sess, err := store.Current()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "tok-1", sess.BookAccessToken)
	assert.Equal(t, "b-9", sess.BookID)
}

func TestResolveAccessDownloadIsPureRedirect(t *testing.T) {
	r, _, srv := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"bookId":"b-9","action":"preview"}}`))
	})

	out, err := r.ResolveAccess(context.Background(), "tok 2", ActionDownload)
	require.NoError(t, err)
	assert.Equal(t, ActionDownload, out.Action)
	assert.Equal(t, srv.URL+"/api/book-access/book?token=tok+2", out.RedirectURL)
}

func TestResolveAccessExplicitActionWins(t *testing.T) {
	r, _, _ := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"bookId":"b-9","action":"download"}}`))
	})

	out, err := r.ResolveAccess(context.Background(), "tok", ActionPay)
	require.NoError(t, err)
	assert.Equal(t, ActionPay, out.Action)
}

func TestResolveAccessRejectionIsTokenError(t *testing.T) {
	r, store, _ := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":"token expired"}`))
	})

	_, err := r.ResolveAccess(context.Background(), "old", "")
	require.Error(t, err)
	assert.True(t, api.IsTokenInvalid(err))
	assert.False(t, api.IsTransport(err))

	// A rejected token persists nothing.
	sess, err := store.Current()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestResolveAccessNetworkFailureIsTransportError(t *testing.T) {
	store := session.NewMemStore()
	r := NewResolver(api.New("http://127.0.0.1:1", store), store)

	_, err := r.ResolveAccess(context.Background(), "tok", "")
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
	assert.False(t, api.IsTokenInvalid(err))
}

func TestResolveAccessStorageFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"bookId":"b-9","action":"preview"}}`))
	}))
	defer srv.Close()
	store := session.NewMemStore()
	store.FailWrites = true
	r := NewResolver(api.New(srv.URL, store), store)

	_, err := r.ResolveAccess(context.Background(), "tok", "")
	assert.ErrorIs(t, err, session.ErrStorage)
}

func TestParseAction(t *testing.T) {
	for _, ok := range []string{"", "preview", "pay", "download"} {
		a, err := ParseAction(ok)
		require.NoError(t, err)
		assert.Equal(t, Action(ok), a)
	}
	_, err := ParseAction("upload")
	assert.Error(t, err)
}

func TestListBooksProjectsCards(t *testing.T) {
	r, store, _ := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/api/magic-link/verify":
			w.Write([]byte(`{"success":true,"data":{"userId":"u-1","email":"a@b.it","valid":true}}`))
		case "/api/magic-link/books":
			w.Write([]byte(`{"success":true,"data":[
				{"id":"b-1","title":"La Storia di Marco","status":"COMPLETED","isPaid":true},
				{"id":"b-2","title":"Draft","status":"DRAFT"}
			]}`))
		default:
			t.Errorf("unexpected path %s", req.URL.Path)
		}
	})

	cards, err := r.ListBooks(context.Background(), "ml-tok")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, BadgeDownloadReady, cards[0].Badge)
	assert.Equal(t, ActionDownload, cards[0].Action)
	assert.Equal(t, BadgeDraft, cards[1].Badge)

	sess, err := store.Current()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "ml-tok", sess.MagicLinkToken)
	assert.Equal(t, "a@b.it", sess.Email)
}

func TestListBooksInvalidTokenIsTokenError(t *testing.T) {
	r, _, _ := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"success":false,"error":{"message":"invalid token","code":"TOKEN_INVALID"}}`))
	})

	_, err := r.ListBooks(context.Background(), "bad")
	assert.True(t, api.IsTokenInvalid(err))
}

func TestCardFor(t *testing.T) {
	tests := []struct {
		name   string
		book   api.OwnedBook
		badge  StatusBadge
		action Action
	}{
		{"paid completed", api.OwnedBook{IsPaid: true, Status: api.StatusCompleted}, BadgeDownloadReady, ActionDownload},
		{"paid still rendering", api.OwnedBook{IsPaid: true, Status: api.StatusUploading}, BadgeProcessing, ""},
		{"preview ready", api.OwnedBook{PreviewGenerated: true, Status: api.StatusCompleted}, BadgePreviewReady, ActionPreview},
		{"draft", api.OwnedBook{Status: api.StatusDraft}, BadgeDraft, ""},
		{"pending", api.OwnedBook{Status: api.StatusPending}, BadgeGenerating, ""},
		{"generating", api.OwnedBook{Status: api.StatusGenerating}, BadgeGenerating, ""},
		{"failed", api.OwnedBook{Status: api.StatusFailed}, BadgeFailed, ""},
		{"cover pending", api.OwnedBook{Status: api.StatusCoverPending}, BadgeGenerating, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := CardFor(tt.book)
			assert.Equal(t, tt.badge, card.Badge)
			assert.Equal(t, tt.action, card.Action)
		})
	}
}
