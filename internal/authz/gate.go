// Package authz is the single role gate every protected surface consults.
// Authorization denial is a control-flow outcome (a redirect), never an
// exception surfaced to the page.
package authz

import (
	"net/url"
	"sync"

	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
)

type Decision int

const (
	// Unknown: identity resolution still pending. Render a loading state,
	// not an error.
	Unknown Decision = iota
	Allowed
	Denied
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Resolution is the gate's view of the identity: unresolved, resolved-absent
// (Identity nil), or resolved-present.
type Resolution struct {
	Resolved bool
	Identity *identity.Identity
}

// Evaluate is the pure decision function. An empty allowed set means any
// signed-in identity passes.
func Evaluate(res Resolution, allowed []models.Role) Decision {
	if !res.Resolved {
		return Unknown
	}

	if res.Identity == nil {
		return Denied
	}

	if len(allowed) == 0 {
		return Allowed
	}

	for _, r := range allowed {
		if res.Identity.Role == r {
			return Allowed
		}
	}

	return Denied
}

// Gate guards one route's allowed-role set against a live identity stream.
// It is not a one-time check: every identity change re-evaluates, so a role
// upgraded mid-session flips the decision without a new navigation.
type Gate struct {
	allowed   []models.Role
	loginPath string

	mu       sync.Mutex
	res      Resolution
	decision Decision
	subs     map[int]func(Decision)
	nextSub  int
}

func NewGate(allowed []models.Role, loginPath string) *Gate {
	return &Gate{
		allowed:   allowed,
		loginPath: loginPath,
		decision:  Unknown,
		subs:      make(map[int]func(Decision)),
	}
}

// Watch subscribes the gate to the stream and returns the unsubscribe func.
func (g *Gate) Watch(stream *identity.Stream) func() {
	return stream.Subscribe(g.OnIdentity)
}

// OnIdentity feeds the next identity value (nil = signed out) into the gate.
func (g *Gate) OnIdentity(id *identity.Identity) {
	g.mu.Lock()
	g.res = Resolution{Resolved: true, Identity: id}
	next := Evaluate(g.res, g.allowed)
	changed := next != g.decision
	g.decision = next

	var fns []func(Decision)
	if changed {
		fns = make([]func(Decision), 0, len(g.subs))
		for i := 0; i < g.nextSub; i++ {
			if fn, ok := g.subs[i]; ok {
				fns = append(fns, fn)
			}
		}
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

func (g *Gate) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.decision
}

// Subscribe registers an observer invoked whenever the decision changes.
func (g *Gate) Subscribe(fn func(Decision)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, id)
	}
}

// Redirect builds the denied destination for this gate's login path.
func (g *Gate) Redirect(requestedPath string) string {
	return Redirect(g.loginPath, requestedPath)
}

// Redirect builds the denied destination, carrying the originally requested
// path so sign-in can return the user where they started.
func Redirect(loginPath, requestedPath string) string {
	if requestedPath == "" {
		return loginPath
	}

	return loginPath + "?next=" + url.QueryEscape(requestedPath)
}
