package catalog

import (
	"sync"
	"time"

	"zenflow/models"
)

// Snapshot is one reconciled view of the studio dataset: the enriched class
// list plus the four lookup maps. A snapshot is immutable once published;
// consumers hold the reference they read and are never mutated underneath.
// Ids are positions in the source arrays and are only meaningful within the
// snapshot that assigned them.
type Snapshot struct {
	Classes       []models.Class
	ClassByID     map[int]models.Class
	InstanceByID  map[int]models.ClassInstance // future instances only
	TeacherByID   map[int]models.Teacher
	ClassTypeByID map[int]models.ClassType

	Today       int // YYYYMMDD reference date of this pass
	Version     uint64
	RefreshedAt time.Time
}

// Holder publishes snapshots. Each refresh swaps the whole snapshot in one
// step, so a reader either sees the previous model or the new one, never a
// partially rebuilt state.
type Holder struct {
	mu      sync.RWMutex
	current *Snapshot
	version uint64
}

// Current returns the latest published snapshot, or nil before the first
// successful reconciliation.
func (h *Holder) Current() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Publish stamps the snapshot with the next version and makes it current.
func (h *Holder) Publish(s *Snapshot) *Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.version++
	s.Version = h.version
	s.RefreshedAt = time.Now()
	h.current = s
	return s
}
