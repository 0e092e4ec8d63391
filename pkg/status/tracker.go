// Package status derives per-field and per-form status from the value
// trees and validation events.
//
// Dirty is a lazy view: every access re-derives it from the current and
// default trees, which is cheap because the comparison is path-local.
// Touched, validating and error state are explicit sets mutated at the
// event that causes the transition, never recomputed. Nothing outside
// this package mutates the sets directly.
package status

import (
	"sort"

	"github.com/go-drift/formkit/pkg/names"
	"github.com/go-drift/formkit/pkg/registry"
	"github.com/go-drift/formkit/pkg/values"
)

// Tracker maintains the status sets for one form engine instance.
type Tracker struct {
	store  *values.Store
	fields *registry.Registry

	touched names.Set
	// pending maps a path to its latest unresolved validation
	// generation. A path is validating while it has an entry.
	pending map[string]uint64
	// gens is the monotone per-path generation counter. It only ever
	// increases while the path exists, so a result from an older run can
	// always be recognized as stale.
	gens   map[string]uint64
	errors map[string]any
}

// New creates a tracker over the given store and registry.
func New(store *values.Store, fields *registry.Registry) *Tracker {
	return &Tracker{
		store:   store,
		fields:  fields,
		touched: names.NewSet(),
		pending: make(map[string]uint64),
		gens:    make(map[string]uint64),
		errors:  make(map[string]any),
	}
}

// IsDirty reports whether the current value at path differs from its
// default under deep equality. Paths without a registered node are never
// dirty.
func (t *Tracker) IsDirty(path string) bool {
	node, ok := t.fields.Lookup(path)
	if !ok {
		return false
	}
	return t.store.Dirty(node.Path())
}

// DirtyNames returns the registered paths that are currently dirty,
// sorted.
func (t *Tracker) DirtyNames() []string {
	var out []string
	for _, name := range t.fields.Names() {
		if t.IsDirty(name) {
			out = append(out, name)
		}
	}
	return out
}

// AnyDirty reports whether any registered field is dirty.
func (t *Tracker) AnyDirty() bool {
	for _, name := range t.fields.Names() {
		if t.IsDirty(name) {
			return true
		}
	}
	return false
}

// MarkTouched records that the field at path completed a blur. Touched is
// sticky: it is never auto-cleared, only an explicit reset clears it.
func (t *Tracker) MarkTouched(path string) {
	t.touched.Add(path)
}

// IsTouched reports whether path has been blurred at least once.
func (t *Tracker) IsTouched(path string) bool {
	return t.touched.Has(path)
}

// TouchedNames returns the touched paths, sorted.
func (t *Tracker) TouchedNames() []string {
	return t.touched.List()
}

// BeginValidation starts a validation run for path and returns its
// generation. The newest generation wins: starting a new run makes any
// unresolved older run stale.
func (t *Tracker) BeginValidation(path string) uint64 {
	t.gens[path]++
	gen := t.gens[path]
	t.pending[path] = gen
	return gen
}

// ResolveValidation applies the outcome of a validation run. A nil
// payload records success and clears the path's error; anything else is
// stored verbatim as the error payload. The result is discarded and
// false returned when a newer generation has started since, or when the
// path's validation state was cleared.
func (t *Tracker) ResolveValidation(path string, gen uint64, payload any) bool {
	if t.pending[path] != gen {
		return false
	}
	delete(t.pending, path)
	if payload == nil {
		delete(t.errors, path)
	} else {
		t.errors[path] = payload
	}
	return true
}

// IsValidating reports whether an async validation is in flight for path.
func (t *Tracker) IsValidating(path string) bool {
	_, ok := t.pending[path]
	return ok
}

// AnyValidating reports whether any path has a validation in flight.
func (t *Tracker) AnyValidating() bool {
	return len(t.pending) > 0
}

// SetError stores an error payload for path without a validation run,
// e.g. a server-side error parked on a field. A nil payload clears.
func (t *Tracker) SetError(path string, payload any) {
	if payload == nil {
		delete(t.errors, path)
		return
	}
	t.errors[path] = payload
}

// Error returns the current error payload for path.
func (t *Tracker) Error(path string) (any, bool) {
	payload, ok := t.errors[path]
	return payload, ok
}

// ErrorNames returns the paths with an error payload, sorted.
func (t *Tracker) ErrorNames() []string {
	out := make([]string, 0, len(t.errors))
	for path := range t.errors {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Errors returns a copy of the path -> payload error mapping.
func (t *Tracker) Errors() map[string]any {
	out := make(map[string]any, len(t.errors))
	for path, payload := range t.errors {
		out[path] = payload
	}
	return out
}

// ClearPath removes path from every status set. Called on full
// unregistration; the generation counter goes too, because the path's
// identity ends here and a future registration is a fresh field.
func (t *Tracker) ClearPath(path string) {
	t.touched.Remove(path)
	delete(t.pending, path)
	delete(t.gens, path)
	delete(t.errors, path)
}

// Rename moves path's status set memberships to a new canonical name.
// Array mutations use this to follow elements that shift position.
func (t *Tracker) Rename(old, new string) {
	if t.touched.Has(old) {
		t.touched.Remove(old)
		t.touched.Add(new)
	}
	if gen, ok := t.pending[old]; ok {
		delete(t.pending, old)
		t.pending[new] = gen
	}
	if gen, ok := t.gens[old]; ok {
		delete(t.gens, old)
		t.gens[new] = gen
	}
	if payload, ok := t.errors[old]; ok {
		delete(t.errors, old)
		t.errors[new] = payload
	}
}

// Reset clears every status set.
func (t *Tracker) Reset() {
	t.touched = names.NewSet()
	t.pending = make(map[string]uint64)
	t.gens = make(map[string]uint64)
	t.errors = make(map[string]any)
}
