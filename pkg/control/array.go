package control

import (
	"strconv"
	"strings"

	"github.com/go-drift/formkit/pkg/fieldpath"
	"github.com/go-drift/formkit/pkg/values"
)

// tempIndexBase offsets temporary indices used while applying a rename
// permutation, far above any realistic row count so staged names never
// collide with real ones.
const tempIndexBase = 1 << 30

// FieldArray manages an ordered, reorderable group of rows under one
// array path. Mutations splice the value slice and rename the registered
// child paths, statuses and category memberships of rows that shift
// position, so a row keeps its dirty/touched/error identity while its
// path changes.
//
// Every mutation runs inside an array mutation window: detaching an
// array-managed path during the window never fully unregisters it, since
// the mutation's own unmount/remount cycles are repositioning, not
// removal.
type FieldArray struct {
	c    *Control
	name string
	path fieldpath.Path

	// pendingMapping carries the row index permutation out of a
	// mutation's splice function. Only set while mutate runs.
	pendingMapping map[int]int
}

// Array returns the field array manager for path and marks the path
// array-managed.
func (c *Control) Array(path string) (*FieldArray, error) {
	p, name, err := c.parse("control.Array", path)
	if err != nil {
		return nil, err
	}
	c.names.Array.Add(name)
	return &FieldArray{c: c, name: name, path: p}, nil
}

// Name returns the canonical array path.
func (a *FieldArray) Name() string { return a.name }

// Len returns the current number of rows.
func (a *FieldArray) Len() int {
	slice, _ := a.c.store.Get(a.path, nil).([]any)
	return len(slice)
}

// Values returns a detached copy of the rows.
func (a *FieldArray) Values() []any {
	slice, _ := values.Clone(a.c.store.Get(a.path, nil)).([]any)
	return slice
}

// Append adds rows at the end.
func (a *FieldArray) Append(rows ...any) {
	if len(rows) == 0 {
		return
	}
	a.mutate(nil, func(slice []any) []any {
		return append(slice, rows...)
	})
}

// Prepend adds rows at the front, shifting existing rows up.
func (a *FieldArray) Prepend(rows ...any) {
	if len(rows) == 0 {
		return
	}
	a.mutate(nil, func(slice []any) []any {
		mapping := make(map[int]int, len(slice))
		for i := range slice {
			mapping[i] = i + len(rows)
		}
		a.pendingMapping = mapping
		return append(append([]any{}, rows...), slice...)
	})
}

// Insert adds rows at index i, shifting later rows up. An index past the
// end behaves like Append.
func (a *FieldArray) Insert(i int, rows ...any) {
	if len(rows) == 0 || i < 0 {
		return
	}
	a.mutate(nil, func(slice []any) []any {
		if i >= len(slice) {
			return append(slice, rows...)
		}
		mapping := make(map[int]int)
		for j := i; j < len(slice); j++ {
			mapping[j] = j + len(rows)
		}
		a.pendingMapping = mapping
		out := make([]any, 0, len(slice)+len(rows))
		out = append(out, slice[:i]...)
		out = append(out, rows...)
		out = append(out, slice[i:]...)
		return out
	})
}

// Remove deletes the row at index i, shifting later rows down. Out of
// range indices are a no-op. The removed row's registered children are
// fully unregistered regardless of the unregister policy: the row is
// gone, not repositioned.
func (a *FieldArray) Remove(i int) {
	a.mutate([]int{i}, func(slice []any) []any {
		if i < 0 || i >= len(slice) {
			return slice
		}
		mapping := make(map[int]int)
		for j := i + 1; j < len(slice); j++ {
			mapping[j] = j - 1
		}
		a.pendingMapping = mapping
		return append(slice[:i:i], slice[i+1:]...)
	})
}

// Swap exchanges the rows at i and j.
func (a *FieldArray) Swap(i, j int) {
	if i == j {
		return
	}
	a.mutate(nil, func(slice []any) []any {
		if i < 0 || j < 0 || i >= len(slice) || j >= len(slice) {
			return slice
		}
		slice[i], slice[j] = slice[j], slice[i]
		a.pendingMapping = map[int]int{i: j, j: i}
		return slice
	})
}

// Move relocates the row at from to position to, shifting the rows in
// between.
func (a *FieldArray) Move(from, to int) {
	if from == to {
		return
	}
	a.mutate(nil, func(slice []any) []any {
		if from < 0 || to < 0 || from >= len(slice) || to >= len(slice) {
			return slice
		}
		mapping := map[int]int{from: to}
		if from < to {
			for j := from + 1; j <= to; j++ {
				mapping[j] = j - 1
			}
		} else {
			for j := to; j < from; j++ {
				mapping[j] = j + 1
			}
		}
		a.pendingMapping = mapping

		row := slice[from]
		rest := append(slice[:from:from], slice[from+1:]...)
		out := make([]any, 0, len(slice))
		out = append(out, rest[:to]...)
		out = append(out, row)
		out = append(out, rest[to:]...)
		return out
	})
}

// mutate runs one array mutation: drop removed rows' registrations,
// splice the slice, rename shifted children, notify once.
func (a *FieldArray) mutate(removed []int, splice func([]any) []any) {
	c := a.c
	c.arrayMutations++
	defer func() { c.arrayMutations-- }()

	c.hub.Batch(func() {
		a.pendingMapping = nil
		slice, _ := c.store.Get(a.path, nil).([]any)

		for _, i := range removed {
			if i >= 0 && i < len(slice) {
				c.removeSubtree(fieldpath.Index(a.name, i))
			}
		}

		c.store.Set(a.path, splice(slice))

		if len(a.pendingMapping) > 0 {
			c.remapArrayChildren(a.name, a.pendingMapping)
			a.pendingMapping = nil
		}
		c.hub.Changed(c.affected(a.name, a.path)...)
	})
}

// removeSubtree fully unregisters every registered path at or below
// prefix, without touching the value trees (the caller splices those).
func (c *Control) removeSubtree(prefix string) {
	for _, name := range c.fields.NamesWithin(prefix) {
		c.fields.Remove(name)
		c.tracker.ClearPath(name)
		c.names.Drop(name)
		delete(c.fieldStates, name)
	}
}

// remapArrayChildren renames every registered child of base according to
// the row index mapping, in two phases through temporary indices so an
// arbitrary permutation (a swap renames in both directions) never
// collides.
func (c *Control) remapArrayChildren(base string, mapping map[int]int) {
	type rename struct{ from, to string }
	var staged []rename

	for _, name := range c.fields.NamesWithin(base) {
		idx, suffix, ok := splitChildIndex(base, name)
		if !ok {
			continue
		}
		to, moved := mapping[idx]
		if !moved || to == idx {
			continue
		}
		temp := fieldpath.Index(base, tempIndexBase+to) + suffix
		c.renamePath(name, temp)
		staged = append(staged, rename{from: temp, to: fieldpath.Index(base, to) + suffix})
	}
	for _, r := range staged {
		c.renamePath(r.from, r.to)
	}
}

// renamePath moves a registered path and all its bookkeeping to a new
// canonical name.
func (c *Control) renamePath(old, new string) {
	p, err := fieldpath.Parse(new)
	if err != nil {
		return
	}
	if !c.fields.Rename(old, new, p) {
		return
	}
	c.tracker.Rename(old, new)
	c.names.Rename(old, new)
	if view, ok := c.fieldStates[old]; ok {
		delete(c.fieldStates, old)
		view.name = new
		c.fieldStates[new] = view
	}
}

// splitChildIndex extracts the leading row index of a child path under
// base: for base "rows", "rows[2].name" yields (2, ".name", true).
func splitChildIndex(base, name string) (int, string, bool) {
	rest, ok := strings.CutPrefix(name, base+"[")
	if !ok {
		return 0, "", false
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return 0, "", false
	}
	idx, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, "", false
	}
	return idx, rest[end+1:], true
}
