// Package names tracks path category membership for a form engine instance.
//
// Each category is a plain set of canonical path strings: which paths are
// currently mounted to a live element, which are unmounted but still
// watched, which are managed as ordered field arrays, and which are
// disabled. The sets are bookkeeping only; they never own field state.
package names

import (
	"sort"

	"github.com/go-drift/formkit/pkg/fieldpath"
)

// Set is a membership set of canonical path strings.
type Set map[string]struct{}

// NewSet returns an empty path set.
func NewSet() Set { return make(Set) }

// Add inserts path into the set.
func (s Set) Add(path string) { s[path] = struct{}{} }

// Remove deletes path from the set.
func (s Set) Remove(path string) { delete(s, path) }

// Has reports whether path is a member.
func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// HasWithin reports whether path or any of its ancestors is a member.
// Used for category flags that propagate downward, such as disabled.
func (s Set) HasWithin(path string) bool {
	for member := range s {
		if fieldpath.WithinPrefix(path, member) {
			return true
		}
	}
	return false
}

// RemovePrefix deletes every member at or below the given path.
func (s Set) RemovePrefix(path string) {
	for member := range s {
		if fieldpath.WithinPrefix(member, path) {
			delete(s, member)
		}
	}
}

// List returns the members in sorted order for stable iteration.
func (s Set) List() []string {
	out := make([]string, 0, len(s))
	for member := range s {
		out = append(out, member)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Sets groups the path categories one engine instance tracks.
type Sets struct {
	// Mount holds paths currently attached to a live element.
	Mount Set
	// Unmount holds paths that detached but whose state must survive,
	// either because the unregistration policy kept them or because a
	// watcher still addresses them.
	Unmount Set
	// Array holds paths managed as ordered field arrays. Membership
	// suppresses unregister-on-unmount while an array mutation is in
	// progress.
	Array Set
	// Disabled holds paths whose value contribution is excluded from
	// snapshots. The flag propagates to descendants.
	Disabled Set
	// Watch holds paths addressed by watchers without a registered node.
	Watch Set
}

// New returns empty category sets.
func New() *Sets {
	return &Sets{
		Mount:    NewSet(),
		Unmount:  NewSet(),
		Array:    NewSet(),
		Disabled: NewSet(),
		Watch:    NewSet(),
	}
}

// Drop removes path from every category.
func (n *Sets) Drop(path string) {
	n.Mount.Remove(path)
	n.Unmount.Remove(path)
	n.Array.Remove(path)
	n.Disabled.Remove(path)
	n.Watch.Remove(path)
}

// Rename moves path from one canonical name to another in every category
// it belongs to. Array mutations use this to follow elements that shift
// position.
func (n *Sets) Rename(old, new string) {
	for _, set := range []Set{n.Mount, n.Unmount, n.Array, n.Disabled, n.Watch} {
		if set.Has(old) {
			set.Remove(old)
			set.Add(new)
		}
	}
}
