package control

import (
	"sync"

	"github.com/go-drift/formkit/pkg/fieldpath"
	"github.com/go-drift/formkit/pkg/values"
)

// WatchOptions configures a watcher.
type WatchOptions struct {
	// Path is the watched location. Empty watches the whole form.
	Path string
	// Exact restricts matching to the literal path. The engine reports
	// a mutation against the leaf and its ancestors, so an exact watcher
	// of a container still fires when a descendant changes. Ignored for
	// an empty Path, which always watches the whole form.
	Exact bool
	// Default is returned by Value while the watched slot is absent.
	Default any
}

// Watcher observes one slice of the form value tree. Reads are always
// current; listeners fire once per mutation batch that affects the
// watched path.
type Watcher struct {
	c    *Control
	opts WatchOptions
	path fieldpath.Path
	name string

	mu         sync.Mutex
	listeners  map[uint64]func(value any)
	nextListID uint64
	unsub      func()
	closed     bool
}

// Watch creates a watcher for the given path. Close it when the
// consumer unmounts, or its subscription outlives the consumer.
func (c *Control) Watch(opts WatchOptions) (*Watcher, error) {
	var (
		p    fieldpath.Path
		name string
	)
	if opts.Path != "" {
		var err error
		p, name, err = c.parse("control.Watch", opts.Path)
		if err != nil {
			return nil, err
		}
	}

	w := &Watcher{
		c:         c,
		opts:      opts,
		path:      p,
		name:      name,
		listeners: make(map[uint64]func(value any)),
	}
	if name != "" {
		c.names.Watch.Add(name)
	}
	// An exact filter on the empty path would never match anything.
	exact := opts.Exact && name != ""
	w.unsub = c.hub.Subscribe(name, exact, func([]string) {
		w.notify()
	})
	return w, nil
}

// Value returns the current value of the watched slice, detached from
// the live tree. A form-wide watcher returns the whole snapshot.
func (w *Watcher) Value() any {
	if w.name == "" {
		return w.c.store.Snapshot()
	}
	if !w.c.store.Has(w.path) {
		return w.opts.Default
	}
	return values.Clone(w.c.store.Get(w.path, nil))
}

// AddListener registers a change callback and returns an unsubscribe
// function. The callback receives the watched slice's new value.
func (w *Watcher) AddListener(fn func(value any)) func() {
	w.mu.Lock()
	id := w.nextListID
	w.nextListID++
	w.listeners[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

// notify calls all listeners with the freshly read value.
func (w *Watcher) notify() {
	w.mu.Lock()
	fns := make([]func(any), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	value := w.Value()
	for _, fn := range fns {
		fn(value)
	}
}

// Close detaches the watcher from the hub. Idempotent.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.listeners = make(map[uint64]func(value any))
	w.mu.Unlock()

	if w.name != "" {
		w.c.names.Watch.Remove(w.name)
	}
	w.unsub()
}
