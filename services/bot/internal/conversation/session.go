package conversation

import (
	"sync"
	"time"

	"adsbot/pkg/domain"
)

// Flow names the form a session is filling in.
type Flow string

const (
	FlowNone     Flow = ""
	FlowGraduate Flow = "graduate"
	FlowEmployer Flow = "employer"
	FlowStudent  Flow = "student"
)

// Steps outside the per-field chain.
const (
	StepConfirm    = "confirm"
	StepEditSelect = "edit_select"
	StepEditValue  = "edit_value"
)

// OriginDetail marks an edit started from the ad detail view; after the
// edit the user returns there instead of to the confirm summary.
const OriginDetail = "detail"

// Session is the transient state of one user's conversation. Step is
// either a field key of the active flow or one of the Step constants.
type Session struct {
	UserID    int64          `json:"userId"`
	Flow      Flow           `json:"flow,omitempty"`
	Step      string         `json:"step,omitempty"`
	Data      domain.Payload `json:"data,omitempty"`
	AdID      int64          `json:"adId,omitempty"`
	EditField string         `json:"editField,omitempty"`
	Origin    string         `json:"origin,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Active reports whether the session is inside a flow.
func (s Session) Active() bool { return s.Flow != FlowNone && s.Step != "" }

// SessionStore keeps one session per user.
type SessionStore interface {
	Get(userID int64) (Session, bool, error)
	Save(Session) error
	Delete(userID int64) error
}

// MemorySessionStore keeps sessions in process memory with a TTL.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]Session
	now      func() time.Time
}

// NewMemorySessionStore builds an in-memory session store. A ttl of zero or
// less keeps sessions until they are deleted.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: map[int64]Session{},
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Get(userID int64) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return Session{}, false, nil
	}
	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		delete(m.sessions, userID)
		return Session{}, false, nil
	}
	s.Data = s.Data.Clone()
	return s, true, nil
}

func (m *MemorySessionStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Data = s.Data.Clone()
	s.UpdatedAt = m.now()
	m.sessions[s.UserID] = s
	return nil
}

func (m *MemorySessionStore) Delete(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
