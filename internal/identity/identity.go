// Package identity adapts the external identity provider. Verification is
// delegated entirely to the provider; this package only joins the verified
// uid with the persisted role record and fans identity changes out to
// observers such as the sync engine and the authorization gate.
package identity

import (
	"context"
	"sync"

	"github.com/shopsphere/storefront/internal/models"
)

// Identity is a resolved, role-bearing principal. A nil *Identity published
// on a Stream means "signed out".
type Identity struct {
	UID   string
	Email string
	Role  models.Role
}

// Provider verifies identity-provider tokens.
type Provider interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// Stream delivers identity-changed events to subscribers: present with a
// role-bearing identity, or absent (nil). A late subscriber immediately
// receives the current value if the identity has resolved at least once.
type Stream struct {
	mu       sync.Mutex
	cur      *Identity
	resolved bool
	subs     map[int]func(*Identity)
	nextSub  int
}

func NewStream() *Stream {
	return &Stream{subs: make(map[int]func(*Identity))}
}

// Publish records the new identity (nil for sign-out) and notifies
// subscribers in registration order.
func (s *Stream) Publish(id *Identity) {
	s.mu.Lock()
	s.cur = id
	s.resolved = true

	fns := make([]func(*Identity), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

// Subscribe registers fn and returns an unsubscribe func. If an identity has
// already resolved, fn is invoked synchronously with the current value so the
// subscriber never starts stale.
func (s *Stream) Subscribe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	cur, resolved := s.cur, s.resolved
	s.mu.Unlock()

	if resolved {
		fn(cur)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Current returns the latest identity and whether resolution has happened.
// (false, nil) is the UNKNOWN phase before the first Publish.
func (s *Stream) Current() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cur, s.resolved
}
