package scheduling

import "sync"

// slotLocks serializes booking attempts per (doctor, date, slot) key so
// the conflict check and the insert behind it run as a unit. MySQL has
// no partial unique indexes, so uniqueness scoped to non-cancelled rows
// cannot be pushed into the schema; this mutex closes the race instead.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the given slot key and returns the matching unlock.
// Callers must release on every exit path.
func (s *slotLocks) acquire(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func slotKey(doctorID, date, slot string) string {
	return doctorID + "|" + date + "|" + slot
}
