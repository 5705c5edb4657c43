package liaobots

import (
	"net/http"
	"sync"
)

// Session is the state obtained by the login handshake: the auth code sent as
// x-auth-code and the cookies set during login.
type Session struct {
	AuthCode string
	Jar      http.CookieJar
}

// SessionStore holds the session shared by provider calls. Implementations
// must be safe for concurrent use.
type SessionStore interface {
	// Load returns the stored session and whether one is present.
	Load() (Session, bool)
	// Store replaces the stored session.
	Store(session Session)
	// Clear forgets the stored session so the next call logs in again.
	Clear()
}

// MemorySessionStore keeps one session in memory for the lifetime of the
// process. There is no expiry: a stale auth code only shows up as an error on
// the next chat call.
type MemorySessionStore struct {
	mu      sync.RWMutex
	session Session
	present bool
}

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (store *MemorySessionStore) Load() (Session, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.session, store.present
}

func (store *MemorySessionStore) Store(session Session) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.session = session
	store.present = true
}

func (store *MemorySessionStore) Clear() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.session = Session{}
	store.present = false
}

// defaultStore is shared by every provider built with New.
var defaultStore = NewMemorySessionStore()

// DefaultSessionStore returns the process-wide store used by New.
func DefaultSessionStore() SessionStore {
	return defaultStore
}
