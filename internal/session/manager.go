package session

import "sync"

// Manager owns the live guided-entry sessions, keyed by user id.
// Session state is strictly partitioned per user, so there is no
// cross-user locking beyond the map itself; concurrent messages from
// one user are serialized by the per-user mutex.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*held
}

type held struct {
	mu      sync.Mutex
	session *Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*held)}
}

// Start opens a fresh session for the user at the amount step. A
// session already in flight for the same user is replaced outright;
// re-entering mid-flow is not supported.
func (m *Manager) Start(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &held{session: &Session{UserID: userID, Step: StepAmount}}
}

// Active reports whether the user has a session in flight.
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	return ok
}

// Advance feeds one input to the user's session, serialized per user.
// The second return value is false when no session is active.
func (m *Manager) Advance(userID int64, input string) (Result, bool) {
	m.mu.Lock()
	h, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return Result{}, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Advance(input), true
}

// Draft returns a copy of the collected fields of the user's session.
func (m *Manager) Draft(userID int64) (Draft, bool) {
	m.mu.Lock()
	h, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return Draft{}, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Draft, true
}

// Clear tears the user's session down, discarding all uncommitted
// fields. Clearing an absent session is a no-op. Used both for
// explicit cancellation and for the implicit cancel when an
// out-of-band command arrives mid-flow.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
