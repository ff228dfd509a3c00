package signing

import (
	"sync"

	"github.com/signdesk/signdesk/internal/logging"
	"github.com/signdesk/signdesk/internal/models"
)

// Manager keeps the live signing sessions, one per (document, signer) pair.
// Starting a new session for the same pair discards the previous one, which
// is how an already-committed flow restarts from scratch.
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
	log      logging.Logger
}

type sessionKey struct {
	docID string
	email string
}

func NewManager(log logging.Logger) *Manager {
	return &Manager{
		sessions: make(map[sessionKey]*Session),
		log:      log,
	}
}

// Start creates a fresh session, replacing any previous one for the pair.
func (m *Manager) Start(docID string, principal models.Principal, committer Committer) *Session {
	s := NewSession(docID, principal, committer, m.log)

	m.mu.Lock()
	m.sessions[sessionKey{docID: docID, email: principal.Email}] = s
	m.mu.Unlock()

	return s
}

// Get returns the live session for the pair, if any.
func (m *Manager) Get(docID string, principal models.Principal) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionKey{docID: docID, email: principal.Email}]
	return s, ok
}

// Drop removes the session for the pair; used after commit or abandonment.
func (m *Manager) Drop(docID string, principal models.Principal) {
	m.mu.Lock()
	delete(m.sessions, sessionKey{docID: docID, email: principal.Email})
	m.mu.Unlock()
}
