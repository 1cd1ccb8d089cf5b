// Package memory provides in-process implementations of the lesson
// repositories. It backs STORAGE=memory and the service tests, and enforces
// the same uniqueness rules as the postgres schema.
package memory

import (
	"context"
	"sync"

	models "lectern/internal/domain/models/lesson"
)

// row wraps a stored value with its insertion sequence so lists can return creation order
type row[T any] struct {
	seq   int64
	value T
}

// Store holds all lesson data for one process
type Store struct {
	mu  sync.RWMutex
	seq int64

	lessons  map[string]row[models.Lesson]
	versions map[string]row[models.LessonVersion]
	blocks   map[string]row[models.Block]
	assets   map[string]row[models.Asset]
	progress map[progressKey]row[models.ProgressRecord]

	// txMu serializes transactions and non-transactional writes.
	// Lock order is txMu, then mu.
	txMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		lessons:  make(map[string]row[models.Lesson]),
		versions: make(map[string]row[models.LessonVersion]),
		blocks:   make(map[string]row[models.Block]),
		assets:   make(map[string]row[models.Asset]),
		progress: make(map[progressKey]row[models.ProgressRecord]),
	}
}

type progressKey struct {
	studentID string
	lessonID  string
}

// next returns the next insertion sequence. Caller holds mu.
func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// inTx reports whether ctx belongs to a transaction running on this store
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// beginWrite locks the store for one write and returns the unlock func.
// A write outside a transaction also takes txMu, so it either lands before a
// transaction snapshots the store or after it commits or rolls back.
func (s *Store) beginWrite(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// snapshot is a point-in-time copy of the store's tables
type snapshot struct {
	seq      int64
	lessons  map[string]row[models.Lesson]
	versions map[string]row[models.LessonVersion]
	blocks   map[string]row[models.Block]
	assets   map[string]row[models.Asset]
	progress map[progressKey]row[models.ProgressRecord]
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		seq:      s.seq,
		lessons:  cloneMap(s.lessons),
		versions: cloneMap(s.versions),
		blocks:   cloneMap(s.blocks),
		assets:   cloneMap(s.assets),
		progress: cloneMap(s.progress),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.lessons = snap.lessons
	s.versions = snap.versions
	s.blocks = snap.blocks
	s.assets = snap.assets
	s.progress = snap.progress
}

// Stored values are held by value and copied on the way in and out, so
// replacing the map is enough to take a snapshot.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
