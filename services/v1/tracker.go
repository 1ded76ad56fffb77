package v1

import "sync"

// IncidentTracker remembers which services have an open incident and its id.
// A name is present only while its incident is open. State lives for the
// process lifetime; incidents open before a restart are not known.
type IncidentTracker struct {
	mu        sync.RWMutex
	incidents map[string]string
}

func NewIncidentTracker() *IncidentTracker {
	return &IncidentTracker{incidents: make(map[string]string)}
}

func (t *IncidentTracker) Get(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.incidents[name]
	return id, ok
}

// Set overwrites any existing entry.
func (t *IncidentTracker) Set(name, incidentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.incidents[name] = incidentID
}

// Clear is a no-op when nothing is tracked for name.
func (t *IncidentTracker) Clear(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.incidents, name)
}

func (t *IncidentTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.incidents)
}

// Snapshot returns a copy of the tracked incidents.
func (t *IncidentTracker) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.incidents))
	for k, v := range t.incidents {
		out[k] = v
	}
	return out
}
