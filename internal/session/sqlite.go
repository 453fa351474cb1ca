package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const (
	currentSessionKey = "current_session"
	fallbackTokenKey  = "auth_token"
)

// SQLiteStore persists sessions in a sqlite database under the data dir.
// Layout mirrors the original storage scheme: a pointer key holding the
// current session id, one data blob per session id, and a flat legacy
// token key outside the blob.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	closed bool
}

// Verify SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

// Open creates or opens the session database in dataDir.
func Open(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "fiaba.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// live guards every operation against use after Close.
func (s *SQLiteStore) live() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// UseSessionID pins the current session pointer to an explicit id, for
// scripted runs driven by FIABA_SESSION_ID.
func (s *SQLiteStore) UseSessionID(id string) error {
	if err := s.live(); err != nil {
		return err
	}
	if err := s.setConfig(currentSessionKey, id); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// SessionID returns the current session id, minting one when absent.
func (s *SQLiteStore) SessionID() (string, error) {
	if err := s.live(); err != nil {
		return "", err
	}
	id, err := s.getConfig(currentSessionKey)
	if err != nil {
		return "", &StorageError{Op: "read", Err: err}
	}
	if id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := s.setConfig(currentSessionKey, id); err != nil {
		return "", &StorageError{Op: "write", Err: err}
	}
	return id, nil
}

// Current returns the live session, or nil when no session id has ever
// been minted (or its blob is missing).
func (s *SQLiteStore) Current() (*Session, error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	id, err := s.getConfig(currentSessionKey)
	if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}
	if id == "" {
		return nil, nil
	}
	return s.load(id)
}

func (s *SQLiteStore) load(id string) (*Session, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		// A corrupt blob behaves like an absent one; the next mutation
		// recreates it.
		return nil, nil
	}
	return &sess, nil
}

// Update merges a patch into the current session. When no session exists
// one is created first: a missing session is not an error condition here.
func (s *SQLiteStore) Update(p Patch) (*Session, error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	id, err := s.SessionID()
	if err != nil {
		return nil, err
	}

	sess, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		now := time.Now().UTC()
		sess = &Session{SessionID: id, CreatedAt: now, UpdatedAt: now}
	}

	apply(sess, p)

	if err := s.save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SQLiteStore) save(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, sess.SessionID, string(data), sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// Clear removes the session pointer and its data blob.
func (s *SQLiteStore) Clear() error {
	if err := s.live(); err != nil {
		return err
	}
	id, err := s.getConfig(currentSessionKey)
	if err != nil {
		return &StorageError{Op: "read", Err: err}
	}
	if id != "" {
		if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return &StorageError{Op: "write", Err: err}
		}
	}
	if _, err := s.db.Exec(`DELETE FROM config WHERE key = ?`, currentSessionKey); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// FallbackToken reads the legacy flat auth token.
func (s *SQLiteStore) FallbackToken() (string, error) {
	if err := s.live(); err != nil {
		return "", err
	}
	v, err := s.getConfig(fallbackTokenKey)
	if err != nil {
		return "", &StorageError{Op: "read", Err: err}
	}
	return v, nil
}

// SetFallbackToken writes the legacy flat auth token.
func (s *SQLiteStore) SetFallbackToken(token string) error {
	if err := s.live(); err != nil {
		return err
	}
	if err := s.setConfig(fallbackTokenKey, token); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

func (s *SQLiteStore) getConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) setConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
