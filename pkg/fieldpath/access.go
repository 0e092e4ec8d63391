package fieldpath

// Get returns the value at p inside root, or fallback if any segment is
// absent or addressed through a container of the wrong shape.
func Get(root map[string]any, p Path, fallback any) any {
	v, ok := lookup(root, p)
	if !ok {
		return fallback
	}
	return v
}

// Has reports whether the slot at p exists in root. A slot holding an
// explicit nil exists; a missing key or out-of-range index does not. This
// is the distinction dirty comparison relies on: absent and nil compare
// equal in value terms but differ in presence terms.
func Has(root map[string]any, p Path) bool {
	_, ok := lookup(root, p)
	return ok
}

func lookup(root map[string]any, p Path) (any, bool) {
	var cur any = root
	for _, seg := range p {
		if seg.IsIndex {
			slice, ok := cur.([]any)
			if !ok || seg.Index >= len(slice) {
				return nil, false
			}
			cur = slice[seg.Index]
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg.Key]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Set writes value at p inside root, creating intermediate containers as
// needed. Whether an intermediate is a mapping or a sequence is chosen by
// the next segment's kind. Sequences are grown with nil slots up to the
// addressed index. Setting the same value twice is idempotent.
func Set(root map[string]any, p Path, value any) {
	if len(p) == 0 {
		return
	}
	// The first segment is a key by construction (Parse rejects a
	// leading index).
	seg := p[0]
	if len(p) == 1 {
		root[seg.Key] = value
		return
	}
	root[seg.Key] = setBelow(root[seg.Key], p[1:], value)
}

// setBelow writes value into container at the remaining path, replacing
// container when its shape does not match the segment kind. It returns the
// container to store in the parent slot, since growing a slice reallocates.
func setBelow(container any, p Path, value any) any {
	seg := p[0]
	if seg.IsIndex {
		slice, _ := container.([]any)
		for len(slice) <= seg.Index {
			slice = append(slice, nil)
		}
		if len(p) == 1 {
			slice[seg.Index] = value
		} else {
			slice[seg.Index] = setBelow(slice[seg.Index], p[1:], value)
		}
		return slice
	}
	m, ok := container.(map[string]any)
	if !ok {
		m = make(map[string]any)
	}
	if len(p) == 1 {
		m[seg.Key] = value
	} else {
		m[seg.Key] = setBelow(m[seg.Key], p[1:], value)
	}
	return m
}

// Delete removes the slot at p from root. Mapping slots are deleted;
// sequence slots are set to nil so sibling indices keep their positions
// (reindexing is an array mutation, not a deletion). Missing paths are a
// no-op.
func Delete(root map[string]any, p Path) {
	if len(p) == 0 {
		return
	}
	parent, ok := lookup(root, p.Parent())
	if !ok {
		return
	}
	last := p[len(p)-1]
	if last.IsIndex {
		if slice, ok := parent.([]any); ok && last.Index < len(slice) {
			slice[last.Index] = nil
		}
		return
	}
	if m, ok := parent.(map[string]any); ok {
		delete(m, last.Key)
	}
}
