package guard

import (
	"context"
	"sync"

	"github.com/wolfeidau/backoffice/internal/session"
)

// Source is the session state a Watch follows. *session.Store implements it.
type Source interface {
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) func()
}

// Watch guards path now and again after every session change, calling fn
// with the first decision and then only with decisions that differ from the
// previous one. fn may call Login or Logout on the store, e.g. to end the
// session when the decision is a redirect to login. The returned function
// stops watching.
func (g *Guard) Watch(ctx context.Context, src Source, path string, fn func(Decision)) func() {
	var (
		mu      sync.Mutex
		last    Decision
		version uint64
		started bool
	)

	// changed records d as the latest decision for snapshot v and reports
	// whether fn must be told about it.
	changed := func(v uint64, d Decision) bool {
		mu.Lock()
		defer mu.Unlock()

		if started && v <= version {
			return false
		}
		version = v
		if started && d.Same(last) {
			return false
		}
		started = true
		last = d
		return true
	}

	cancel := src.Subscribe(func(snap session.Snapshot) {
		if d := g.Navigate(ctx, snap, path); changed(snap.Version, d) {
			fn(d)
		}
	})

	snap := src.Snapshot()
	if d := g.Navigate(ctx, snap, path); changed(snap.Version, d) {
		fn(d)
	}

	return cancel
}
