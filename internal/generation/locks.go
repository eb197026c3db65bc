package generation

import "sync"

// lockRegistry tracks records with a generation attempt in flight. It keys
// by record id so unrelated records can generate concurrently.
type lockRegistry struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{active: make(map[string]struct{})}
}

// acquire claims the lock for a record id, reporting false when an attempt
// already holds it.
func (r *lockRegistry) acquire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.active[id]; held {
		return false
	}
	r.active[id] = struct{}{}
	return true
}

func (r *lockRegistry) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}
