// Package registry owns the field node arena of a form engine instance.
//
// Every registered path has exactly one [FieldNode] holding its rule set,
// mount state and the capability handle of the attached UI element. The
// arena owns node lifetime; subscribers and elements only borrow nodes by
// path. Registration is idempotent: re-registering a path merges the new
// rule set over the old one and leaves the node's state alone.
package registry

import (
	"sort"

	"github.com/go-drift/formkit/pkg/fieldpath"
)

// ElementCapabilities is the surface a concrete UI element exposes to the
// engine. The engine stores the handle and forwards calls; it never
// implements the behavior itself.
type ElementCapabilities interface {
	Focus()
	Select()
	SetCustomValidity(message string)
	ReportValidity() bool
}

// Options configures a registration. All fields are optional; zero values
// mean "not specified".
type Options struct {
	// Rules is the validation rule set for the field. Opaque to the
	// engine; it is stored and handed back to external validators
	// verbatim. The last registration's rules win.
	Rules any
	// Value is the caller-supplied initial value, used only when neither
	// the current nor the default tree already has a slot for the path.
	Value any
	// HasValue marks Value as intentionally provided, so an explicit nil
	// initial value is distinguishable from no initial value.
	HasValue bool
	// Disabled sets the field's disabled flag when explicitly true or
	// false. Unset leaves the flag alone.
	Disabled Tristate
	// ShouldUnregister overrides the form-level unregister-on-unmount
	// default for this field.
	ShouldUnregister Tristate
}

// FieldNode is the per-path record in the arena.
type FieldNode struct {
	name             string
	path             fieldpath.Path
	rules            any
	mounted          bool
	disabled         bool
	shouldUnregister Tristate
	ref              ElementCapabilities
}

// Name returns the canonical path string the node is registered under.
func (n *FieldNode) Name() string { return n.name }

// Path returns the parsed path of the node.
func (n *FieldNode) Path() fieldpath.Path { return n.path }

// Rules returns the current rule set.
func (n *FieldNode) Rules() any { return n.rules }

// Mounted reports whether a concrete element is attached.
func (n *FieldNode) Mounted() bool { return n.mounted }

// Disabled reports the node's own disabled flag. Category propagation to
// descendants is handled above the registry.
func (n *FieldNode) Disabled() bool { return n.disabled }

// SetDisabled sets the node's disabled flag.
func (n *FieldNode) SetDisabled(disabled bool) { n.disabled = disabled }

// ShouldUnregister returns the per-field unregister override.
func (n *FieldNode) ShouldUnregister() Tristate { return n.shouldUnregister }

// State returns the node's position in the registration lifecycle.
func (n *FieldNode) State() LifecycleState {
	if n.mounted {
		return StateMounted
	}
	return StateRegistered
}

// Focus forwards to the attached element. No-op while detached.
func (n *FieldNode) Focus() {
	if n.ref != nil {
		n.ref.Focus()
	}
}

// Select forwards to the attached element. No-op while detached.
func (n *FieldNode) Select() {
	if n.ref != nil {
		n.ref.Select()
	}
}

// SetCustomValidity forwards to the attached element. No-op while detached.
func (n *FieldNode) SetCustomValidity(message string) {
	if n.ref != nil {
		n.ref.SetCustomValidity(message)
	}
}

// ReportValidity forwards to the attached element.
// Returns true while detached: an absent element has nothing to report.
func (n *FieldNode) ReportValidity() bool {
	if n.ref != nil {
		return n.ref.ReportValidity()
	}
	return true
}

// Registry is the arena mapping canonical paths to field nodes.
type Registry struct {
	nodes map[string]*FieldNode
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{nodes: make(map[string]*FieldNode)}
}

// Register creates the node for name, or merges opts into the existing
// one. For an existing node the rule set is replaced when opts carries
// one, the disabled and unregister flags are applied when explicitly set,
// and everything else (mount state, ref, value) is left untouched.
// The second result reports whether the node was created by this call, so
// the caller knows to seed the value tree.
func (r *Registry) Register(name string, p fieldpath.Path, opts Options) (*FieldNode, bool) {
	if node, ok := r.nodes[name]; ok {
		if opts.Rules != nil {
			node.rules = opts.Rules
		}
		if opts.Disabled.IsSet() {
			node.disabled = opts.Disabled.Bool(false)
		}
		if opts.ShouldUnregister.IsSet() {
			node.shouldUnregister = opts.ShouldUnregister
		}
		return node, false
	}
	node := &FieldNode{
		name:             name,
		path:             p,
		rules:            opts.Rules,
		disabled:         opts.Disabled.Bool(false),
		shouldUnregister: opts.ShouldUnregister,
	}
	r.nodes[name] = node
	return node, true
}

// Lookup returns the node registered under name.
func (r *Registry) Lookup(name string) (*FieldNode, bool) {
	node, ok := r.nodes[name]
	return node, ok
}

// SetRef attaches an element capability handle to the node and marks it
// mounted. Attaching to an unknown path is a tolerated no-op so render
// order races between registration and element attachment cannot fault.
// A nil ref detaches the element and marks the node unmounted.
func (r *Registry) SetRef(name string, ref ElementCapabilities) {
	node, ok := r.nodes[name]
	if !ok {
		return
	}
	node.ref = ref
	node.mounted = ref != nil
}

// Remove deletes the node for name from the arena.
func (r *Registry) Remove(name string) {
	delete(r.nodes, name)
}

// Rename moves a node to a new canonical path. Used by array mutations
// when elements shift position. Returns false when no node exists at old
// or the new name is already taken.
func (r *Registry) Rename(old, new string, p fieldpath.Path) bool {
	node, ok := r.nodes[old]
	if !ok {
		return false
	}
	if _, taken := r.nodes[new]; taken {
		return false
	}
	delete(r.nodes, old)
	node.name = new
	node.path = p
	r.nodes[new] = node
	return true
}

// Names returns the registered paths in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NamesWithin returns the registered paths at or below the given path,
// sorted.
func (r *Registry) NamesWithin(path string) []string {
	var out []string
	for name := range r.nodes {
		if fieldpath.WithinPrefix(name, path) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int { return len(r.nodes) }
