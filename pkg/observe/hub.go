// Package observe implements the subscription hub that fans mutation
// notifications out to watchers.
//
// Subscribers declare a path filter, either exact or prefix, and are
// called at most once per mutation batch no matter how many paths changed
// inside it. Batches coalesce notifications only; they are not a mutual
// exclusion mechanism, since the engine assumes a single logical mutator.
package observe

import (
	"sort"
	"sync"

	"github.com/go-drift/formkit/pkg/errors"
	"github.com/go-drift/formkit/pkg/fieldpath"
)

type subscriber struct {
	filter string
	exact  bool
	fn     func(changed []string)
	active bool
}

// matches reports whether the subscriber's filter covers path.
// An exact filter matches only the literal path; a prefix filter matches
// the path and all of its descendants, and an empty prefix filter is
// form-wide.
func (s *subscriber) matches(path string) bool {
	if s.exact {
		return s.filter == path
	}
	return fieldpath.WithinPrefix(path, s.filter)
}

// Hub is the subscriber registry of one form engine instance.
type Hub struct {
	mu      sync.Mutex
	subs    []*subscriber
	depth   int
	changed map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{changed: make(map[string]struct{})}
}

// Subscribe registers a callback for mutations matching the filter and
// returns an unsubscribe function. Subscribers are notified in
// registration order within a batch. The callback receives the sorted
// affected path set of the batch; consumers re-read their slice of state
// through the engine rather than trusting a payload.
func (h *Hub) Subscribe(filter string, exact bool, fn func(changed []string)) func() {
	sub := &subscriber{filter: filter, exact: exact, fn: fn, active: true}

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		sub.active = false
		for i, s := range h.subs {
			if s == sub {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				break
			}
		}
		h.mu.Unlock()
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Begin opens a batch scope. Scopes nest; notifications are delivered
// when the outermost scope ends.
func (h *Hub) Begin() {
	h.mu.Lock()
	h.depth++
	h.mu.Unlock()
}

// End closes a batch scope, flushing the accumulated path set when the
// outermost scope closes.
func (h *Hub) End() {
	h.mu.Lock()
	if h.depth > 0 {
		h.depth--
	}
	flush := h.depth == 0 && len(h.changed) > 0
	h.mu.Unlock()

	if flush {
		h.flush()
	}
}

// Batch runs fn inside a batch scope.
func (h *Hub) Batch(fn func()) {
	h.Begin()
	defer h.End()
	fn()
}

// Changed records mutated paths. Outside a batch the notification round
// runs immediately; inside one the paths coalesce until End.
func (h *Hub) Changed(paths ...string) {
	h.mu.Lock()
	for _, p := range paths {
		h.changed[p] = struct{}{}
	}
	flush := h.depth == 0 && len(h.changed) > 0
	h.mu.Unlock()

	if flush {
		h.flush()
	}
}

// flush delivers one notification round: every active subscriber whose
// filter matches any affected path is called exactly once, in
// registration order. Callbacks run outside the lock so they can
// subscribe, unsubscribe or trigger further mutations.
func (h *Hub) flush() {
	h.mu.Lock()
	changed := make([]string, 0, len(h.changed))
	for p := range h.changed {
		changed = append(changed, p)
	}
	h.changed = make(map[string]struct{})
	round := make([]*subscriber, len(h.subs))
	copy(round, h.subs)
	h.mu.Unlock()

	sort.Strings(changed)

	for _, sub := range round {
		h.mu.Lock()
		live := sub.active
		h.mu.Unlock()
		if !live || !anyMatch(sub, changed) {
			continue
		}
		func() {
			defer errors.Recover("observe.Hub.flush", nil)
			sub.fn(changed)
		}()
	}
}

func anyMatch(sub *subscriber, changed []string) bool {
	for _, p := range changed {
		if sub.matches(p) {
			return true
		}
	}
	return false
}
