package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"escaperoom/internal/game"
)

// errStale aborts a delayed dispatch whose session has moved on.
var errStale = errors.New("delayed action is stale")

// timers runs delayed callbacks and can cancel all that are still pending.
type timers struct {
	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	stopped bool
}

func (ts *timers) after(d time.Duration, f func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.stopped {
		return
	}
	if ts.pending == nil {
		ts.pending = map[*time.Timer]struct{}{}
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		ts.mu.Lock()
		delete(ts.pending, t)
		stopped := ts.stopped
		ts.mu.Unlock()
		if !stopped {
			f()
		}
	})
	ts.pending[t] = struct{}{}
}

func (ts *timers) stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.stopped = true
	for t := range ts.pending {
		t.Stop()
	}
	clear(ts.pending)
}

// step is one delayed action of a chain.
type step struct {
	delay time.Duration
	kind  game.ActionKind
}

// dispatchLater applies the steps to session id one after another, each
// after its delay. The chain belongs to epoch: once the session's epoch has
// changed, or a step is not applied, the rest is dropped. A zero delay
// dispatches before dispatchLater returns.
func (s *Server) dispatchLater(id string, epoch uint64, steps ...step) {
	if len(steps) == 0 {
		return
	}
	first, rest := steps[0], steps[1:]
	fire := func() {
		applied := false
		_, err := s.Store.Update(context.Background(), id, func(sess game.Session, ok bool) (game.Session, error) {
			if !ok || sess.Epoch != epoch {
				return sess, errStale
			}
			sess, applied = s.Engine.Apply(sess, game.Action{Kind: first.kind})
			return sess, nil
		})
		switch {
		case errors.Is(err, errStale):
			s.logger().Debug("dropped stale action", "session", id, "action", first.kind)
			return
		case err != nil:
			s.logger().Error("delayed action failed", "session", id, "action", first.kind, "error", err)
			return
		case !applied:
			s.logger().Debug("delayed action ignored", "session", id, "action", first.kind)
			return
		}
		s.dispatchLater(id, epoch, rest...)
	}
	if first.delay <= 0 {
		fire()
		return
	}
	s.afterFunc()(first.delay, fire)
}

func (s *Server) afterFunc() func(time.Duration, func()) {
	if s.after != nil {
		return s.after
	}
	return s.timers.after
}

// Stop cancels every pending delayed action.
func (s *Server) Stop() {
	s.timers.stop()
}
