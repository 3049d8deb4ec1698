package service

import (
	"log/slog"
	"sync"

	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/state"
	storesync "github.com/shopsphere/storefront/internal/sync"
)

// UserSession is the per-user unit of local state: the cart and wishlist
// containers, the identity stream feeding the gate and the sync engine, and
// the engine itself. Local state is authoritative for the whole session; the
// remote store trails it.
type UserSession struct {
	UID      string
	Cart     *state.CartStore
	Wishlist *state.WishlistStore
	Stream   *identity.Stream

	engine *storesync.Engine
}

// SessionManager owns the live sessions. Sessions are created lazily on the
// first authenticated touch and torn down on sign-out, which also cancels
// any pending sync work for the user.
type SessionManager struct {
	opts     storesync.Options
	remote   storesync.Remote
	notifier storesync.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*UserSession
}

func NewSessionManager(opts storesync.Options, remote storesync.Remote, notifier storesync.Notifier, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionManager{
		opts:     opts,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		sessions: make(map[string]*UserSession),
	}
}

// Attach returns the session for id, creating it on first touch. Creation
// publishes the identity, which makes the engine pull the persisted cart and
// wishlist and reconcile them with local state.
func (m *SessionManager) Attach(id *identity.Identity) *UserSession {
	m.mu.Lock()
	if sess, ok := m.sessions[id.UID]; ok {
		m.mu.Unlock()
		return sess
	}

	sess := &UserSession{
		UID:      id.UID,
		Cart:     state.NewCartStore(),
		Wishlist: state.NewWishlistStore(),
		Stream:   identity.NewStream(),
	}
	sess.engine = storesync.NewEngine(m.opts, sess.Cart, sess.Wishlist, m.remote, m.notifier, m.logger)
	m.sessions[id.UID] = sess
	m.mu.Unlock()

	sess.engine.Start(sess.Stream)
	sess.Stream.Publish(id)

	return sess
}

// Get returns the live session for uid, if any.
func (m *SessionManager) Get(uid string) (*UserSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[uid]

	return sess, ok
}

// SignOut publishes the absent identity (stopping pushes and applying the
// retention policy), then closes the engine and drops the session.
func (m *SessionManager) SignOut(uid string) {
	m.mu.Lock()
	sess, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()

	if !ok {
		return
	}

	sess.Stream.Publish(nil)
	sess.engine.Close()
}

// Close tears down every session; used at server shutdown so no write is in
// flight when the process exits.
func (m *SessionManager) Close() {
	m.mu.Lock()
	sessions := make([]*UserSession, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*UserSession)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.engine.Close()
	}
}
