package state

import "sync"

// base carries the lock and observer registry shared by both stores.
// Observers are stored as `any` because the two stores notify with different
// snapshot types; each store asserts back to its own callback type.
type base struct {
	mu      sync.Mutex
	subs    map[int]any
	nextSub int
}

// subscribe registers fn and returns an unsubscribe func. Safe to call from
// an observer.
func (b *base) subscribe(fn any) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]any)
	}

	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// observers returns the current callbacks in registration order. Caller must
// hold mu.
func (b *base) observers() []any {
	out := make([]any, 0, len(b.subs))

	for id := 0; id < b.nextSub; id++ {
		if fn, ok := b.subs[id]; ok {
			out = append(out, fn)
		}
	}

	return out
}
