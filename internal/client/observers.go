package client

import (
	"maps"
	"slices"
	"sync"
)

// observers is a set of callbacks notified with each new value. Callbacks
// run synchronously on the notifying goroutine and never under the
// owner's lock, so they may call back into the owner.
type observers[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
}

// add registers fn and returns a func that removes it. The returned func
// is safe to call more than once.
func (o *observers[T]) add(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func(T))
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.fns, id)
	}
}

func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	ids := slices.Sorted(maps.Keys(o.fns))
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.fns[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
