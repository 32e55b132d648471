package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudshare/internal/client/migrations"
	"github.com/dmitrijs2005/cloudshare/internal/client/models"
	"github.com/dmitrijs2005/cloudshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/filex"

	_ "modernc.org/sqlite"
)

// Session is the persisted blob.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// Store persists the session as one blob under common.SessionKey.
type Store interface {
	Load(ctx context.Context) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	// Clear wipes everything the store holds.
	Clear(ctx context.Context) error
}

// KVStore keeps the session in the metadata table of a SQLite database.
type KVStore struct {
	db  *sql.DB
	now func() time.Time
}

const savedAtKey = "auth.saved_at"

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

// OpenKVStore opens (creating if needed) the session database at path and
// applies migrations. ":memory:" is accepted for throwaway sessions.
func OpenKVStore(ctx context.Context, path string) (*KVStore, error) {
	if path != ":memory:" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if path != ":memory:" {
		_ = os.Chmod(path, 0o600)
	}
	return NewKVStore(db), nil
}

func (s *KVStore) Close() error { return s.db.Close() }

func (s *KVStore) Load(ctx context.Context) (Session, bool, error) {
	raw, ok, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.SessionKey)
	if err != nil || !ok {
		return Session{}, false, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt blob is the same as no session.
		return Session{}, false, nil
	}
	return sess, sess.Token != "", nil
}

func (s *KVStore) Save(ctx context.Context, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	stamp := []byte(s.now().UTC().Format(time.RFC3339))
	return s.write(ctx, func(repo *metadata.SQLiteRepository) error {
		if err := repo.Set(ctx, common.SessionKey, raw); err != nil {
			return err
		}
		return repo.Set(ctx, savedAtKey, stamp)
	})
}

// write applies fn in one transaction, so the blob and its timestamp are
// never stored apart.
func (s *KVStore) write(ctx context.Context, fn func(repo *metadata.SQLiteRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session write: %w", err)
	}
	if err := fn(metadata.NewSQLiteRepository(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session write: %w", err)
	}
	return nil
}

func (s *KVStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Clear(ctx)
}

// Token reads the stored token on every call; expired JWTs are withheld.
func (s *KVStore) Token(ctx context.Context) (string, error) {
	sess, ok, err := s.Load(ctx)
	if err != nil || !ok {
		return "", err
	}
	if !Usable(sess.Token, s.now()) {
		return "", nil
	}
	return sess.Token, nil
}

// MemoryStore is a Store without persistence.
type MemoryStore struct {
	mu   sync.Mutex
	sess Session
}

func (m *MemoryStore) Load(context.Context) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess, m.sess.Token != "", nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = s
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = Session{}
	return nil
}
