package assistant

import (
	"errors"
	"sync"
)

// ErrSessionExists is returned by Create when the chat already has a session.
var ErrSessionExists = errors.New("assistant: session already exists")

// Store keeps per-chat sessions. Create refuses to clobber an existing
// session while Replace overwrites unconditionally; the asymmetry is what
// makes /start warn-if-active and /remindme restart-always.
type Store interface {
	Get(chatID int64) (*Session, bool)
	Create(chatID int64, s *Session) error
	Replace(chatID int64, s *Session)
	Delete(chatID int64)
}

// MemoryStore is the in-process Store used in production. Sessions are lost
// on restart, as are pending scheduled sends.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

func (m *MemoryStore) Get(chatID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

func (m *MemoryStore) Create(chatID int64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[chatID]; ok {
		return ErrSessionExists
	}
	m.sessions[chatID] = s
	return nil
}

func (m *MemoryStore) Replace(chatID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = s
}

func (m *MemoryStore) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// Len reports the number of active sessions (for diagnostics).
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
