// Package session keeps the editor state of plays being drawn: which spots
// are positioned, which routes they run and which spot is selected.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/logging"
	"github.com/playdrawer/backend/internal/models"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/playdrawer/backend/internal/storage"
)

// MaxSessions limits concurrent editor sessions.
const MaxSessions = 50

// SessionKeepAliveWindow protects recently used sessions from cleanup.
const SessionKeepAliveWindow = 5 * time.Minute

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session: not found")

// Manager handles active editor sessions.
type Manager struct {
	sessions    map[string]*sessionState
	mu          sync.Mutex
	catalog     *routes.Catalog
	style       render.Style
	maxSessions int
	log         *log.Logger
	now         func() time.Time
}

type sessionState struct {
	editor       *Editor
	createdAt    time.Time
	lastAccessed time.Time
}

// NewManager creates a session manager drawing routes from catalog with style.
func NewManager(catalog *routes.Catalog, style render.Style) *Manager {
	return &Manager{
		sessions:    make(map[string]*sessionState),
		catalog:     catalog,
		style:       style,
		maxSessions: MaxSessions,
		log:         logging.New("session"),
		now:         time.Now,
	}
}

// Catalog returns the catalog sessions resolve routes against.
func (m *Manager) Catalog() *routes.Catalog {
	return m.catalog
}

// Style returns the stroke used for session drawings.
func (m *Manager) Style() render.Style {
	return m.style
}

// Create starts a blank editor session for layout.
func (m *Manager) Create(layout *field.Layout) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictIfFull()

	id := uuid.New().String()
	now := m.now()
	st := &sessionState{
		editor:       NewEditor(layout, m.catalog, m.style),
		createdAt:    now,
		lastAccessed: now,
	}
	m.sessions[id] = st

	m.log.Debugf("created session %s (%d spots)", id[:8], layout.SpotCount())
	return st.editor.state(id, now, now)
}

// evictIfFull drops the least recently used sessions until one more fits.
// Caller must hold m.mu.
func (m *Manager) evictIfFull() {
	if len(m.sessions) < m.maxSessions {
		return
	}

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.sessions[ids[i]].lastAccessed.Before(m.sessions[ids[j]].lastAccessed)
	})

	for _, id := range ids[:len(m.sessions)-m.maxSessions+1] {
		delete(m.sessions, id)
		m.log.Infof("evicted session %s to stay under %d sessions", id[:8], m.maxSessions)
	}
}

// Get returns the state of a session.
func (m *Manager) Get(id string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[id]
	if !ok {
		return State{}, false
	}
	return st.editor.state(id, st.createdAt, st.lastAccessed), true
}

// Touch marks a session as in use.
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[id]
	if !ok {
		return false
	}
	st.lastAccessed = m.now()
	return true
}

// Delete ends a session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// With runs fn on the session's editor under the manager lock and returns
// the resulting state. The session is touched even when fn fails.
func (m *Manager) With(id string, fn func(*Editor) error) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[id]
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	st.lastAccessed = m.now()

	if err := fn(st.editor); err != nil {
		return State{}, err
	}
	return st.editor.state(id, st.createdAt, st.lastAccessed), nil
}

// Drawings renders the routes of a session.
func (m *Manager) Drawings(id string) ([]Drawing, error) {
	var out []Drawing
	_, err := m.With(id, func(e *Editor) error {
		out = e.Drawings()
		return nil
	})
	return out, err
}

// Save snapshots the session and writes it to store. The session then tracks
// the stored play, so saving again updates it. The store write runs without
// the manager lock.
func (m *Manager) Save(id string, store storage.Store) (*models.Play, error) {
	var play *models.Play
	_, err := m.With(id, func(e *Editor) error {
		var err error
		play, err = e.Snapshot()
		return err
	})
	if err != nil {
		return nil, err
	}

	out, created, err := store.Save(play, m.now())
	if err != nil {
		return nil, err
	}
	if created {
		m.log.Infof("session %s saved new play %q (%s)", id[:8], out.Name, out.ID)
	}

	// The session may have loaded another play while the write ran.
	_, err = m.With(id, func(e *Editor) error {
		if e.PlayID() == play.ID {
			e.Saved(out)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	return out, nil
}

// Load replaces the session contents with a stored play.
func (m *Manager) Load(id string, store storage.Store, playID string) (State, error) {
	play, err := store.Get(playID)
	if err != nil {
		return State{}, err
	}
	return m.With(id, func(e *Editor) error {
		e.Reload(play.ID, play)
		return nil
	})
}

// CleanupOldSessions removes sessions idle for longer than maxAge and
// returns how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-SessionKeepAliveWindow)

	removed := 0
	for id, st := range m.sessions {
		if st.lastAccessed.After(keepAliveCutoff) {
			continue
		}
		if st.lastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.log.Infof("cleaned up idle session %s (last accessed %s ago)",
				id[:8], now.Sub(st.lastAccessed).Round(time.Second))
		}
	}
	return removed
}
