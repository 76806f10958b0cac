package sync

import (
	"sync"
	"time"
)

// fetchTimeout bounds the remote list fetch of a Synchronize pass. On
// expiry the pass aborts without touching the local store.
const fetchTimeout = 7 * time.Second

// scopeLocks serializes Synchronize and the optimistic write path per
// scope (group token). Overlapping invocations on the same scope would
// otherwise race between the merge and push phases.
type scopeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *scopeLocks) get(scope string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[scope]
	if !ok {
		l = &sync.Mutex{}
		s.locks[scope] = l
	}
	return l
}
