// Package sync keeps the remote store eventually consistent with the local
// cart/wishlist state for the signed-in identity, and seeds local state from
// the remote store on sign-in.
//
// Discipline: every local mutation schedules a trailing-edge debounced push
// of the full current snapshot. At most one push per user is ever in flight;
// a push requested mid-flight queues behind it and only the latest snapshot
// is sent once the in-flight one completes, so intermediate states coalesce.
// Failures are absorbed: a failed push is logged and retried on the next
// mutation-triggered cycle, a failed pull falls back to an empty remote
// snapshot. Nothing here may block or crash the caller.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/metrics"
	"github.com/shopsphere/storefront/internal/models"
	"github.com/shopsphere/storefront/internal/state"
)

type MergePolicy string

const (
	// MergeLocalWins: on sign-in, a non-empty local state survives and the
	// remote copy is overwritten by the next push. An empty local state is
	// seeded from remote either way, so items added anonymously before
	// login are never lost.
	MergeLocalWins MergePolicy = "local-wins"

	// MergeRemoteWins: on sign-in the remote snapshot always replaces local.
	MergeRemoteWins MergePolicy = "remote-wins"
)

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case MergeLocalWins, "":
		return MergeLocalWins, nil
	case MergeRemoteWins:
		return MergeRemoteWins, nil
	}

	return "", fmt.Errorf("unknown merge policy %q", s)
}

// Remote is the per-user document surface of the external store. Pull
// returns (nil, "", nil) when no document exists; the second value is an
// opaque version used to skip redundant sign-in pulls.
type Remote interface {
	PullCart(ctx context.Context, uid string) (*models.CartSnapshot, string, error)
	PushCart(ctx context.Context, uid string, snap models.CartSnapshot) (string, error)
	PullWishlist(ctx context.Context, uid string) (*models.WishlistSnapshot, string, error)
	PushWishlist(ctx context.Context, uid string, snap models.WishlistSnapshot) (string, error)
}

// Notifier receives the non-blocking notification emitted when pushes keep
// failing past the configured threshold.
type Notifier interface {
	NotifySyncFailure(uid string, consecutiveFailures int)
}

type Options struct {
	Debounce                time.Duration
	MergePolicy             MergePolicy
	RetainCartOnSignOut     bool
	RetainWishlistOnSignOut bool
	// FailureThreshold is how many consecutive push failures trigger one
	// Notifier call. Zero disables the notification.
	FailureThreshold int
	PushTimeout      time.Duration
}

type versions struct {
	cart     string
	wishlist string
}

// Engine synchronizes one session's stores with the remote store.
type Engine struct {
	opts     Options
	cart     *state.CartStore
	wishlist *state.WishlistStore
	remote   Remote
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	uid      string
	timer    *time.Timer
	inflight bool
	pending  bool
	failures int
	seen     map[string]versions
	unsubs   []func()
	closed   bool

	wg sync.WaitGroup
}

func NewEngine(opts Options, cart *state.CartStore, wishlist *state.WishlistStore, remote Remote, notifier Notifier, logger *slog.Logger) *Engine {
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}

	if opts.MergePolicy == "" {
		opts.MergePolicy = MergeLocalWins
	}

	if opts.PushTimeout <= 0 {
		opts.PushTimeout = 10 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		opts:     opts,
		cart:     cart,
		wishlist: wishlist,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		seen:     make(map[string]versions),
	}
}

// Start subscribes the engine to both stores and the identity stream.
func (e *Engine) Start(stream *identity.Stream) {
	e.mu.Lock()
	e.unsubs = append(e.unsubs,
		e.cart.Subscribe(func(models.CartSnapshot) { e.onMutation() }),
		e.wishlist.Subscribe(func(models.WishlistSnapshot) { e.onMutation() }),
	)
	e.mu.Unlock()

	unsub := stream.Subscribe(e.HandleIdentity)

	e.mu.Lock()
	e.unsubs = append(e.unsubs, unsub)
	e.mu.Unlock()
}

// Close cancels pending timers, unsubscribes, and waits for the in-flight
// push. No write is issued after Close returns.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.stopTimerLocked()
	e.pending = false
	unsubs := e.unsubs
	e.unsubs = nil
	e.mu.Unlock()

	for _, fn := range unsubs {
		fn()
	}

	e.wg.Wait()
}

// HandleIdentity receives identity-changed events; nil means signed out.
func (e *Engine) HandleIdentity(id *identity.Identity) {
	if id == nil {
		e.signOut()
		return
	}

	e.signIn(id.UID)
}

// onMutation runs after every applied local mutation. While signed in it
// (re)arms the debounce timer; each new mutation within the window pushes the
// deadline out, so a burst coalesces into a single trailing-edge push.
func (e *Engine) onMutation() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.uid == "" || e.closed {
		return
	}

	e.stopTimerLocked()
	e.timer = time.AfterFunc(e.opts.Debounce, e.flush)
}

// flush is the debounce timer callback: promote the current state into a
// push, or queue behind the one in flight.
func (e *Engine) flush() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timer = nil
	e.startPushLocked()
}

// startPushLocked begins a push unless one is already in flight, in which
// case the request is queued and superseded by the latest snapshot later.
func (e *Engine) startPushLocked() {
	if e.uid == "" || e.closed {
		return
	}

	if e.inflight {
		e.pending = true
		metrics.SyncSnapshotCoalesced()

		return
	}

	e.inflight = true
	uid := e.uid
	e.wg.Add(1)

	go e.push(uid, e.cart.Snapshot(), e.wishlist.Snapshot())
}

// push writes the given snapshots for uid. Snapshots are captured under the
// session lock when the push starts, never on the push goroutine itself: by
// the time the goroutine runs, sign-out retention may already have cleared
// the local stores, and a late capture would push that cleared state over
// the signed-out user's document.
func (e *Engine) push(uid string, cartSnap models.CartSnapshot, wishSnap models.WishlistSnapshot) {
	defer e.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.PushTimeout)
	defer cancel()

	cartVer, err := e.remote.PushCart(ctx, uid, cartSnap)
	if err == nil {
		var wishVer string

		wishVer, err = e.remote.PushWishlist(ctx, uid, wishSnap)
		if err == nil {
			e.recordPushed(uid, cartVer, wishVer)
		}
	}

	e.mu.Lock()
	e.inflight = false

	if err != nil {
		metrics.SyncPush("failure")
		e.failures++
		failures := e.failures
		e.logger.Warn("sync push failed, will retry on next mutation",
			slog.String("uid", uid), slog.Int("consecutive_failures", failures), slog.String("error", err.Error()))

		notify := e.opts.FailureThreshold > 0 && failures >= e.opts.FailureThreshold && e.notifier != nil
		if notify {
			e.failures = 0
		}

		// A queued push would resend the same failing snapshot immediately;
		// drop it and let the next mutation cycle retry instead.
		e.pending = false
		e.mu.Unlock()

		if notify {
			e.notifier.NotifySyncFailure(uid, failures)
		}

		return
	}

	metrics.SyncPush("success")
	e.failures = 0

	// Supersede: exactly one queued push runs now, carrying whatever the
	// state looks like at this moment.
	if e.pending && e.uid == uid && !e.closed {
		e.pending = false
		e.inflight = true
		e.wg.Add(1)

		go e.push(uid, e.cart.Snapshot(), e.wishlist.Snapshot())
	}
	e.mu.Unlock()
}

func (e *Engine) recordPushed(uid, cartVer, wishVer string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seen[uid] = versions{cart: cartVer, wishlist: wishVer}
}

// signIn seeds local state from the remote store. The pull happens on a
// goroutine and never blocks; a failed pull degrades to an empty remote
// snapshot.
func (e *Engine) signIn(uid string) {
	e.mu.Lock()
	if e.closed || e.uid == uid {
		e.mu.Unlock()
		return
	}

	e.uid = uid
	e.failures = 0
	e.pending = false
	e.stopTimerLocked()
	last := e.seen[uid]
	e.mu.Unlock()

	e.wg.Add(1)

	go e.pullAndMerge(uid, last)
}

func (e *Engine) pullAndMerge(uid string, last versions) {
	defer e.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.PushTimeout)
	defer cancel()

	pulled := true

	remoteCart, cartVer, err := e.remote.PullCart(ctx, uid)
	if err != nil {
		metrics.SyncPull("failure")
		e.logger.Warn("sync pull failed, falling back to empty remote cart",
			slog.String("uid", uid), slog.String("error", err.Error()))

		remoteCart, cartVer = nil, ""
		pulled = false
	}

	remoteWish, wishVer, err := e.remote.PullWishlist(ctx, uid)
	if err != nil {
		metrics.SyncPull("failure")
		e.logger.Warn("sync pull failed, falling back to empty remote wishlist",
			slog.String("uid", uid), slog.String("error", err.Error()))

		remoteWish, wishVer = nil, ""
		pulled = false
	}

	if pulled {
		metrics.SyncPull("success")
	}

	e.mu.Lock()
	if e.closed || e.uid != uid {
		e.mu.Unlock()
		return
	}
	e.seen[uid] = versions{cart: cartVer, wishlist: wishVer}
	e.mu.Unlock()

	localDirty := false

	if cartVer == "" || cartVer != last.cart {
		localDirty = e.mergeCart(remoteCart) || localDirty
	}

	if wishVer == "" || wishVer != last.wishlist {
		localDirty = e.mergeWishlist(remoteWish) || localDirty
	}

	// Local won somewhere: the remote copy is stale until the next push, so
	// schedule one now rather than waiting for a mutation.
	if localDirty {
		e.mu.Lock()
		e.startPushLocked()
		e.mu.Unlock()
	}
}

// mergeCart applies the merge policy and reports whether local state should
// overwrite remote.
func (e *Engine) mergeCart(remote *models.CartSnapshot) bool {
	local := e.cart.Snapshot()

	switch {
	case e.opts.MergePolicy == MergeRemoteWins:
		if remote != nil {
			e.cart.Replace(*remote)
		} else {
			e.cart.Replace(models.CartSnapshot{})
		}

		return false
	case local.Empty():
		if remote != nil && !remote.Empty() {
			e.cart.Replace(*remote)
		}

		return false
	default:
		// Local wins; remote differs until the next push.
		return true
	}
}

func (e *Engine) mergeWishlist(remote *models.WishlistSnapshot) bool {
	local := e.wishlist.Snapshot()

	switch {
	case e.opts.MergePolicy == MergeRemoteWins:
		if remote != nil {
			e.wishlist.Replace(*remote)
		} else {
			e.wishlist.Replace(models.WishlistSnapshot{})
		}

		return false
	case local.Empty():
		if remote != nil && !remote.Empty() {
			e.wishlist.Replace(*remote)
		}

		return false
	default:
		return true
	}
}

// signOut stops pushing immediately: the debounce timer is cancelled, any
// queued push is dropped, and the retention policy is applied. The cart is
// retained by default for guest checkout continuation; the wishlist is
// cleared. Replace is used so retention does not itself schedule a push.
func (e *Engine) signOut() {
	e.mu.Lock()
	if e.uid == "" {
		e.mu.Unlock()
		return
	}

	uid := e.uid
	e.uid = ""
	e.pending = false
	e.failures = 0
	e.stopTimerLocked()

	// Retention is about to clear local state below; the recorded remote
	// version no longer describes what local holds, so the next sign-in
	// must pull fresh.
	if !e.opts.RetainCartOnSignOut || !e.opts.RetainWishlistOnSignOut {
		delete(e.seen, uid)
	}
	e.mu.Unlock()

	if !e.opts.RetainCartOnSignOut {
		e.cart.Replace(models.CartSnapshot{})
	}

	if !e.opts.RetainWishlistOnSignOut {
		e.wishlist.Replace(models.WishlistSnapshot{})
	}
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
