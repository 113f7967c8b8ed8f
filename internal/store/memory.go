// internal/store/memory.go
//
// In-memory registry of active game sessions.
//
// Characteristics:
//   - Sessions keyed by an opaque crypto-random token; possession of the
//     token authorizes guess submission (ownership is still re-checked).
//   - A secondary userID → sessionID index keeps the single-active-session
//     lookup O(1) instead of scanning the whole map.
//   - Completed sessions owned by a user are dropped lazily when that user
//     is looked up again; sessions are cheap and ephemeral.
//   - State is lost on process restart: clients must start a new game.

package store

import (
	"crypto/rand"
	"encoding/base64"
	"sync"

	"wordcast/internal/game"
	"wordcast/internal/words"
)

// Store is the session registry consumed by the play service.
// Implementations must keep the primary map and the per-user index in sync
// atomically with respect to concurrent requests.
type Store interface {
	// Create registers a new session and returns it with a fresh ID.
	Create(userID int64, lang words.Language, solution, date string, practice bool) *game.Session

	// Get retrieves a session by ID.
	Get(id string) (*game.Session, bool)

	// FindActiveForUser returns the user's non-completed session, if any.
	// Completed sessions encountered during the lookup are dropped.
	FindActiveForUser(userID int64) (*game.Session, bool)

	// Remove deletes a session and its index entry.
	Remove(id string)
}

// memory is the map-backed Store implementation.
type memory struct {
	mu       sync.Mutex
	sessions map[string]*game.Session // keyed by Session.ID
	byUser   map[int64]string         // userID → sessionID
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		sessions: make(map[string]*game.Session),
		byUser:   make(map[int64]string),
	}
}

func (m *memory) Create(userID int64, lang words.Language, solution, date string, practice bool) *game.Session {
	s := &game.Session{
		ID:       genID(),
		UserID:   userID,
		Solution: solution,
		Language: lang,
		Guesses:  []string{},
		Outcome:  game.OutcomeInProgress,
		Practice: practice,
		Date:     date,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// A leftover session for this user is superseded by the new one.
	if old, ok := m.byUser[userID]; ok {
		delete(m.sessions, old)
	}
	m.sessions[s.ID] = s
	m.byUser[userID] = s.ID
	return s
}

func (m *memory) Get(id string) (*game.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *memory) FindActiveForUser(userID int64) (*game.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byUser[userID]
	if !ok {
		return nil, false
	}
	s, ok := m.sessions[id]
	if !ok {
		delete(m.byUser, userID)
		return nil, false
	}
	if s.Completed {
		delete(m.sessions, id)
		delete(m.byUser, userID)
		return nil, false
	}
	return s, true
}

func (m *memory) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		if m.byUser[s.UserID] == id {
			delete(m.byUser, s.UserID)
		}
	}
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}
