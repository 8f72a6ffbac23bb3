package voice

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// DefaultSessionTTL bounds how long an idle voice session stays resolvable.
const DefaultSessionTTL = 30 * time.Minute

// PropertyContext is the listing a voice session is discussing.
type PropertyContext struct {
	Title   string  `json:"title"`
	Address string  `json:"address"`
	Price   float64 `json:"price"`
	Image   string  `json:"image,omitempty"`
}

// Session is the server-side state of one voice call: who is talking and
// which property they are talking about. The profile starts from the form
// data supplied at token time and is amended one field at a time through
// the update_profile_field tool.
type Session struct {
	ID        string
	Profile   model.BuyerProfile
	Property  PropertyContext
	CreatedAt time.Time
	touchedAt time.Time
}

// Manager holds live sessions in memory. Sessions are ephemeral per call,
// so an in-process map with a TTL sweep is all the persistence they need.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewManager builds a Manager. ttl <= 0 falls back to DefaultSessionTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{ttl: ttl, sessions: make(map[string]*Session)}
}

// Create registers a new session and returns a snapshot of it.
func (m *Manager) Create(profile model.BuyerProfile, property PropertyContext) Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		Property:  property,
		CreatedAt: now,
		touchedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return *s
}

// Get returns a snapshot of the session with the given id. A hit refreshes
// the TTL clock.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	s.touchedAt = time.Now()
	return *s, true
}

// Update applies fn to the stored profile under the lock. It reports whether
// the session exists.
func (m *Manager) Update(id string, fn func(*model.BuyerProfile)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	fn(&s.Profile)
	s.touchedAt = time.Now()
	return true
}

// Sweep drops sessions idle longer than the TTL and returns how many were
// removed. The scheduler calls this periodically.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.touchedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are currently live.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
