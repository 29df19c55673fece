package selection

import (
	"sync"
)

// Manager holds the in-memory selection state per session key and applies
// transitions through the reducer. After every transition the new line
// collection is written to the store fire-and-forget; a failed write never
// rolls back the in-memory state.
//
// Sessions sharing a key (two tabs with the same cookie) each overwrite the
// persisted file wholesale: last write wins, no merging.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	sessions map[string]State
}

func NewManager(store *Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]State),
	}
}

// Get returns the current state for a session key, hydrating it from the
// store on first access.
func (m *Manager) Get(key string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hydrateLocked(key)
}

// Dispatch applies an action for a session key and returns the new state.
// The transition is atomic from the caller's perspective.
func (m *Manager) Dispatch(key string, action Action) State {
	m.mu.Lock()
	state := m.hydrateLocked(key)
	next := Reduce(state, action)
	m.sessions[key] = next
	m.mu.Unlock()

	// Best-effort persistence outside the lock; errors are swallowed by
	// the store.
	m.store.Save(key, next.Lines)
	return next
}

func (m *Manager) hydrateLocked(key string) State {
	if state, ok := m.sessions[key]; ok {
		return state
	}
	state := Reduce(State{}, Hydrate{Lines: m.store.Load(key)})
	m.sessions[key] = state
	return state
}
