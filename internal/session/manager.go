package session

import "sync"

// Manager tracks the live editing sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a session with one empty active scene.
func (m *Manager) Create() *Session {
	s := newSession()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	return s, ok
}

// ClearMedia detaches a deleted file from every scene of every session.
// Returns the total number of scenes cleared.
func (m *Manager) ClearMedia(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cleared := 0
	for _, s := range m.sessions {
		cleared += s.ClearMedia(path)
	}
	return cleared
}
