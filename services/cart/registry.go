package cart

import "sync"

// Registry hands out one cart manager per session id. Carts live for the
// process lifetime of the session; each is mutated only through its own
// manager.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Manager
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Manager)}
}

// Get returns the session's cart, creating it on first use.
func (r *Registry) Get(sessionID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.carts[sessionID]
	if !ok {
		m = NewManager()
		r.carts[sessionID] = m
	}
	return m
}
