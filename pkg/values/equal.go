package values

import "reflect"

// DeepEqual compares two value tree fragments. Mappings and sequences are
// compared recursively; a key that is absent on one side compares equal to
// an explicit nil on the other, and sequences of different lengths compare
// equal when the extra slots are all nil. Scalars fall back to
// reflect.DeepEqual.
func DeepEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return b == nil && mapAllNil(av)
		}
		for k := range av {
			if !DeepEqual(av[k], bv[k]) {
				return false
			}
		}
		for k := range bv {
			if _, seen := av[k]; !seen && !DeepEqual(nil, bv[k]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok {
			return b == nil && sliceAllNil(av)
		}
		long := av
		if len(bv) > len(long) {
			long = bv
		}
		for i := range long {
			var x, y any
			if i < len(av) {
				x = av[i]
			}
			if i < len(bv) {
				y = bv[i]
			}
			if !DeepEqual(x, y) {
				return false
			}
		}
		return true
	}
	if bm, ok := b.(map[string]any); ok {
		return a == nil && mapAllNil(bm)
	}
	if bs, ok := b.([]any); ok {
		return a == nil && sliceAllNil(bs)
	}
	return reflect.DeepEqual(a, b)
}

// mapAllNil reports whether every value in m is nil under DeepEqual.
// An all-nil container is indistinguishable from an absent one.
func mapAllNil(m map[string]any) bool {
	for _, v := range m {
		if !DeepEqual(v, nil) {
			return false
		}
	}
	return true
}

func sliceAllNil(s []any) bool {
	for _, v := range s {
		if !DeepEqual(v, nil) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of a value tree fragment. Mappings and
// sequences are copied recursively; scalars are returned as-is.
func Clone(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, child := range tv {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, child := range tv {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}
