package renamer

import "sync"

// Tracker classifies every session ID the renamer has observed. Entries are
// never evicted except by Release, so memory grows with the number of
// distinct sessions seen during the process lifetime.
type Tracker struct {
	mu        sync.Mutex
	temporary map[string]struct{}
	locked    map[string]struct{}
	renamed   map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		temporary: make(map[string]struct{}),
		locked:    make(map[string]struct{}),
		renamed:   make(map[string]struct{}),
	}
}

// MarkTemporary flags a scratch session so its own events are never
// evaluated for renaming.
func (t *Tracker) MarkTemporary(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.temporary[id] = struct{}{}
}

// MarkLocked flags a session that already carries a non-default title.
func (t *Tracker) MarkLocked(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locked[id] = struct{}{}
}

// TryClaim atomically checks all three classes and, only if none apply,
// marks the session renamed. It is the sole serialization point that keeps
// two events from both starting title generation for the same session.
func (t *Tracker) TryClaim(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.temporary[id]; ok {
		return false
	}
	if _, ok := t.locked[id]; ok {
		return false
	}
	if _, ok := t.renamed[id]; ok {
		return false
	}
	t.renamed[id] = struct{}{}
	return true
}

// Release removes the renamed mark so a later event may claim the session
// again. Used only when generation or apply fails.
func (t *Tracker) Release(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.renamed, id)
}

func (t *Tracker) IsTemporary(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.temporary[id]
	return ok
}

func (t *Tracker) IsLocked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.locked[id]
	return ok
}

func (t *Tracker) IsRenamed(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.renamed[id]
	return ok
}

// Stats is a point-in-time snapshot of tracker membership counts.
type Stats struct {
	Temporary int `json:"temporary"`
	Locked    int `json:"locked"`
	Renamed   int `json:"renamed"`
}

func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		Temporary: len(t.temporary),
		Locked:    len(t.locked),
		Renamed:   len(t.renamed),
	}
}
