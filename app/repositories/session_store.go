package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// SessionKeyPrefix namespaces session entries in the store.
const SessionKeyPrefix = "session:"

// Session ties a random identifier to a logged-in user.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BadgerSessionStore implements SessionRepository on badger. Entries carry a
// TTL so expired sessions disappear without a sweeper.
type BadgerSessionStore struct {
	db       *badger.DB
	lifetime time.Duration
}

// OpenBadger opens the badger database at path. An empty path keeps the
// store in memory.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return db, nil
}

// NewBadgerSessionStore creates a session store whose sessions live for lifetime.
func NewBadgerSessionStore(db *badger.DB, lifetime time.Duration) *BadgerSessionStore {
	return &BadgerSessionStore{db: db, lifetime: lifetime}
}

// Create starts a new session for userID.
func (s *BadgerSessionStore) Create(userID int) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.lifetime),
	}
	data, err := marshalEntity(session)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(session.ID), data).WithTTL(s.lifetime)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns a live session or ErrNotFound.
func (s *BadgerSessionStore) Get(id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var session Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Delete ends a session. Unknown ids are ignored.
func (s *BadgerSessionStore) Delete(id string) error {
	if id == "" {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

// Count returns the number of live sessions.
func (s *BadgerSessionStore) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(SessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if !it.Item().IsDeletedOrExpired() {
				count++
			}
		}
		return nil
	})
	return count, err
}

func sessionKey(id string) []byte {
	return []byte(SessionKeyPrefix + id)
}
