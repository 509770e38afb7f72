package npc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// Manager tracks all live enemies by ID.
// All methods are safe for concurrent use; enemy mutation itself happens on
// the frame goroutine.
type Manager struct {
	mu      sync.RWMutex
	enemies map[string]*Enemy
	deps    Deps
}

// NewManager creates an empty Manager whose enemies share deps.
//
// Precondition: deps.Scheduler must not be nil.
func NewManager(deps Deps) *Manager {
	return &Manager{
		enemies: make(map[string]*Enemy),
		deps:    deps.withDefaults(),
	}
}

// Spawn creates a new Enemy from tmpl at loc facing yaw.
//
// Precondition: tmpl must be non-nil.
// Postcondition: Returns a new Enemy with a unique ID; the enemy removes
// itself from the Manager when destroyed.
func (m *Manager) Spawn(tmpl *Template, loc geom.Vec3, yaw float64) (*Enemy, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("npc.Manager.Spawn: tmpl must not be nil")
	}
	id := fmt.Sprintf("%s-%s", tmpl.ID, uuid.NewString()[:8])
	e := NewEnemy(id, tmpl, loc, yaw, m.deps)
	e.onDestroyed = func(dead *Enemy) {
		if err := m.Remove(dead.ID); err != nil {
			m.deps.Logger.Warn("removing destroyed enemy", zap.Error(err))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.enemies[id] = e
	m.deps.Logger.Info("enemy spawned", zap.String("enemy", id), zap.String("template", tmpl.ID))
	return e, nil
}

// Remove deletes an enemy by ID.
//
// Postcondition: Returns an error if the enemy is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.enemies[id]; !ok {
		return fmt.Errorf("enemy %q not found", id)
	}
	delete(m.enemies, id)
	return nil
}

// Get returns the enemy with the given ID.
//
// Postcondition: Returns (e, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Enemy, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.enemies[id]
	return e, ok
}

// All returns a snapshot of the live enemies ordered by ID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) All() []*Enemy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Enemy, 0, len(m.enemies))
	for _, e := range m.enemies {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of live enemies.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.enemies)
}
