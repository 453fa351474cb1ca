package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used by tests and by packages that need
// a session repository without touching disk.
type MemStore struct {
	mu       sync.Mutex
	id       string
	sess     *Session
	fallback string

	// FailWrites makes every mutation fail, to exercise the hard-error
	// surface of storage failure.
	FailWrites bool
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) SessionID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == "" {
		if m.FailWrites {
			return "", &StorageError{Op: "write", Err: ErrStorage}
		}
		m.id = uuid.NewString()
	}
	return m.id, nil
}

func (m *MemStore) Current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, nil
	}
	c := *m.sess
	return &c, nil
}

func (m *MemStore) Update(p Patch) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return nil, &StorageError{Op: "write", Err: ErrStorage}
	}
	if m.id == "" {
		m.id = uuid.NewString()
	}
	if m.sess == nil {
		now := time.Now().UTC()
		m.sess = &Session{SessionID: m.id, CreatedAt: now, UpdatedAt: now}
	}
	apply(m.sess, p)
	c := *m.sess
	return &c, nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = ""
	m.sess = nil
	return nil
}

func (m *MemStore) FallbackToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fallback, nil
}

func (m *MemStore) SetFallbackToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return &StorageError{Op: "write", Err: ErrStorage}
	}
	m.fallback = token
	return nil
}

func (m *MemStore) Close() error { return nil }

// Seed replaces the store contents, for test setup.
func (m *MemStore) Seed(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = sess.SessionID
	c := *sess
	m.sess = &c
}
