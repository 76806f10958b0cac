package sync

import "sync"

// Projection is the observable in-memory view of one entity kind.
// UI-facing code reads only projections, never the store directly, so a
// display never lags behind an in-flight optimistic write.
//
// The container is explicit state owned by the reconciler layer and
// injected into consumers, not an ambient singleton. Subscribers get a
// buffered channel carrying the latest snapshot; a slow subscriber is
// skipped past, it only ever sees the newest state.
type Projection[T any] struct {
	mu      sync.RWMutex
	current []T
	subs    map[int]chan []T
	nextID  int
}

// NewProjection creates an empty projection.
func NewProjection[T any]() *Projection[T] {
	return &Projection[T]{subs: make(map[int]chan []T)}
}

// Current returns the latest published snapshot. The returned slice is
// the caller's own copy.
func (p *Projection[T]) Current() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]T, len(p.current))
	copy(out, p.current)
	return out
}

// Publish replaces the snapshot and notifies subscribers. Stale
// undelivered snapshots are dropped in favor of the new one. Every
// reader gets its own copy, so mutating a snapshot cannot corrupt other
// readers.
func (p *Projection[T]) Publish(items []T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = make([]T, len(items))
	copy(p.current, items)
	for _, ch := range p.subs {
		snap := make([]T, len(items))
		copy(snap, items)
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Subscribe registers for snapshot updates. The returned cancel func
// unregisters and closes the channel.
func (p *Projection[T]) Subscribe() (<-chan []T, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	ch := make(chan []T, 1)
	p.subs[id] = ch
	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}
