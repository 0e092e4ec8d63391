// Package values stores the current and default value trees of a form.
//
// The two trees are the single source of truth for "what is the field's
// value" and "what counts as pristine". All access goes through
// [fieldpath] so the absent / nil distinction is handled in exactly one
// place.
package values

import (
	"github.com/go-drift/formkit/pkg/fieldpath"
)

// Store holds the current and default value trees.
type Store struct {
	current  map[string]any
	defaults map[string]any
}

// New creates a store seeded from the given defaults. The current tree
// starts as a deep copy of the defaults; a nil map starts both trees
// empty.
func New(defaults map[string]any) *Store {
	if defaults == nil {
		defaults = map[string]any{}
	}
	return &Store{
		current:  cloneTree(defaults),
		defaults: defaults,
	}
}

func cloneTree(m map[string]any) map[string]any {
	cloned, _ := Clone(m).(map[string]any)
	if cloned == nil {
		cloned = map[string]any{}
	}
	return cloned
}

// Get returns the current value at p, or fallback when absent.
func (s *Store) Get(p fieldpath.Path, fallback any) any {
	return fieldpath.Get(s.current, p, fallback)
}

// GetDefault returns the default value at p, or fallback when absent.
func (s *Store) GetDefault(p fieldpath.Path, fallback any) any {
	return fieldpath.Get(s.defaults, p, fallback)
}

// Has reports whether the current tree has a slot at p.
func (s *Store) Has(p fieldpath.Path) bool {
	return fieldpath.Has(s.current, p)
}

// HasDefault reports whether the default tree has a slot at p.
func (s *Store) HasDefault(p fieldpath.Path) bool {
	return fieldpath.Has(s.defaults, p)
}

// Set writes the current value at p.
func (s *Store) Set(p fieldpath.Path, value any) {
	fieldpath.Set(s.current, p, value)
}

// SetDefault writes the default value at p.
func (s *Store) SetDefault(p fieldpath.Path, value any) {
	fieldpath.Set(s.defaults, p, value)
}

// Remove deletes the slot at p from both trees.
func (s *Store) Remove(p fieldpath.Path) {
	fieldpath.Delete(s.current, p)
	fieldpath.Delete(s.defaults, p)
}

// Dirty reports whether the current value at p differs from its default
// under deep equality. Absent slots compare equal to nil, so an
// unregistered path is never dirty.
func (s *Store) Dirty(p fieldpath.Path) bool {
	return !DeepEqual(s.Get(p, nil), s.GetDefault(p, nil))
}

// Current returns the live current tree. Callers must treat it as
// read-only; mutation outside Set bypasses notification.
func (s *Store) Current() map[string]any { return s.current }

// Defaults returns the live default tree, read-only for callers.
func (s *Store) Defaults() map[string]any { return s.defaults }

// Snapshot returns a deep copy of the current tree.
func (s *Store) Snapshot() map[string]any {
	return cloneTree(s.current)
}

// Reset replaces the default tree and restores the current tree from it.
// Passing nil keeps the existing defaults and only restores current.
func (s *Store) Reset(defaults map[string]any) {
	if defaults != nil {
		s.defaults = defaults
	}
	s.current = cloneTree(s.defaults)
}
