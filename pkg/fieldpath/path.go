// Package fieldpath provides parsing and traversal of form value paths.
//
// A path addresses one location in a nested form value tree using dotted
// keys and bracketed indices, e.g. "user.addresses[0].street". Paths are
// the only identity mechanism in the engine: every registry node, status
// set and subscription filter is keyed by a canonical path string.
//
// Traversal is tolerant by design. Get and Has never fail on missing
// segments: a not-yet-mounted field is a normal transient state, not a
// fault. The one hard fault is a path string that cannot be parsed, which
// Parse reports as a [errors.PathError].
package fieldpath

import (
	"strconv"
	"strings"

	"github.com/go-drift/formkit/pkg/errors"
)

// Segment is one step of a parsed path: either a mapping key or a
// sequence index.
type Segment struct {
	// Key is the mapping key. Empty when IsIndex is true.
	Key string
	// Index is the sequence index. Valid only when IsIndex is true.
	Index int
	// IsIndex reports whether this segment addresses a sequence element.
	IsIndex bool
}

// Path is a parsed field path.
type Path []Segment

// Parse parses a path string into segments.
//
// The grammar is key segments separated by dots, each optionally followed
// by one or more bracketed numeric indices: "a.b[0].c", "rows[2][0]".
// The first segment must be a key, because the root of a form value tree
// is always a mapping.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, &errors.PathError{Path: s, Offset: 0, Reason: "empty path"}
	}

	var p Path
	i := 0
	expectKey := true
	for i < len(s) {
		switch {
		case s[i] == '.':
			if expectKey {
				return nil, &errors.PathError{Path: s, Offset: i, Reason: "empty segment"}
			}
			expectKey = true
			i++
		case s[i] == '[':
			if len(p) == 0 {
				return nil, &errors.PathError{Path: s, Offset: i, Reason: "path must begin with a key"}
			}
			if expectKey {
				return nil, &errors.PathError{Path: s, Offset: i, Reason: "index after dot"}
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, &errors.PathError{Path: s, Offset: i, Reason: "unterminated index"}
			}
			digits := s[i+1 : i+end]
			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 || digits == "" {
				return nil, &errors.PathError{Path: s, Offset: i + 1, Reason: "index is not numeric"}
			}
			p = append(p, Segment{Index: idx, IsIndex: true})
			i += end + 1
		case s[i] == ']':
			return nil, &errors.PathError{Path: s, Offset: i, Reason: "unexpected ']'"}
		default:
			if !expectKey {
				return nil, &errors.PathError{Path: s, Offset: i, Reason: "missing '.' between segments"}
			}
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != ']' {
				j++
			}
			p = append(p, Segment{Key: s[i:j]})
			expectKey = false
			i = j
		}
	}
	if expectKey {
		return nil, &errors.PathError{Path: s, Offset: len(s), Reason: "trailing '.'"}
	}
	return p, nil
}

// MustParse is like Parse but panics on a malformed path.
// Use only for paths known to be well formed, such as literals in tests.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the canonical string form of the path.
// Parse(p.String()) always yields p back.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteByte(']')
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Key)
	}
	return sb.String()
}

// Parent returns the path without its final segment, or nil for a
// single-segment path.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1]
}

// Ancestors returns the canonical strings of every proper ancestor of the
// path, ordered from the root down to the immediate parent. A container is
// considered affected by a mutation whenever any of its descendants is, so
// mutation notifications carry the ancestor set alongside the leaf path.
func (p Path) Ancestors() []string {
	if len(p) <= 1 {
		return nil
	}
	out := make([]string, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		out = append(out, p[:i].String())
	}
	return out
}

// Canonical parses s and returns its canonical string form.
func Canonical(s string) (string, error) {
	p, err := Parse(s)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// WithinPrefix reports whether path lies at or below prefix.
// An empty prefix matches every path (the form-wide filter). Matching is
// segment aware: prefix "a.b" covers "a.b", "a.b.c" and "a.b[0]" but not
// "a.bc".
func WithinPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+".") || strings.HasPrefix(path, prefix+"[")
}

// Index returns the canonical path of element i under the given array path.
func Index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// Key returns the canonical path of the named child under the given path.
func Key(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
