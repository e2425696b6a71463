package cart

import "sync"

// Event describes one cart mutation, delivered to listeners after the
// change is visible to Items/Contains.
type Event struct {
	Op         string `json:"op"` // "add", "remove" or "clear"
	InstanceID int    `json:"instanceId,omitempty"`
}

// Listener receives cart mutation events. Listeners must not call back
// into the manager.
type Listener func(Event)

// Manager is the selection set for one session: an ordered set of class
// instance ids. It stores identifiers only, never denormalized details;
// resolution against the catalog happens at the read boundary. All methods
// are safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	items     []int
	members   map[int]struct{}
	listeners []Listener
}

func NewManager() *Manager {
	return &Manager{members: make(map[int]struct{})}
}

// Subscribe registers a listener for subsequent mutations.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Add inserts the id at the end of the selection. Adding a member again is
// a no-op that returns false, so the set never holds duplicates.
func (m *Manager) Add(instanceID int) bool {
	m.mu.Lock()
	if _, exists := m.members[instanceID]; exists {
		m.mu.Unlock()
		return false
	}
	m.members[instanceID] = struct{}{}
	m.items = append(m.items, instanceID)
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, Event{Op: "add", InstanceID: instanceID})
	return true
}

// Remove deletes the id; removing a non-member is a no-op.
func (m *Manager) Remove(instanceID int) {
	m.mu.Lock()
	if _, exists := m.members[instanceID]; !exists {
		m.mu.Unlock()
		return
	}
	delete(m.members, instanceID)
	for i, id := range m.items {
		if id == instanceID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, Event{Op: "remove", InstanceID: instanceID})
}

// Clear empties the selection unconditionally.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.items = nil
	m.members = make(map[int]struct{})
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, Event{Op: "clear"})
}

// Contains reports membership.
func (m *Manager) Contains(instanceID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.members[instanceID]
	return exists
}

// Items returns a point-in-time copy of the selection in insertion order.
// Later mutations do not alter the returned slice, so an in-flight
// submission works on the selection as it stood when it started.
func (m *Manager) Items() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of selected instances.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func notify(listeners []Listener, e Event) {
	for _, l := range listeners {
		l(e)
	}
}
