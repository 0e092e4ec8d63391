// Package control composes the form engine: path-addressed value storage,
// the field node arena, status derivation and the subscription hub behind
// one facade.
//
// A [Control] is an explicit engine instance; there is no ambient
// singleton. Consumers register fields by path, mutate values through
// SetValue or a field's OnChange binding, and observe slices of state
// through [Control.Watch], [Control.GetFieldState] and [Control.State].
// Every mutation runs inside a notification batch so watchers see one
// coalesced round per logical change.
//
// The engine assumes a single logical mutator (one UI turn at a time);
// batching exists to coalesce notifications, not to provide mutual
// exclusion.
package control

import (
	"github.com/go-drift/formkit/pkg/errors"
	"github.com/go-drift/formkit/pkg/fieldpath"
	"github.com/go-drift/formkit/pkg/names"
	"github.com/go-drift/formkit/pkg/observe"
	"github.com/go-drift/formkit/pkg/registry"
	"github.com/go-drift/formkit/pkg/status"
	"github.com/go-drift/formkit/pkg/values"
)

// Options configures a Control instance.
type Options struct {
	// DefaultValues seeds the default tree. The current tree starts as a
	// deep copy of it.
	DefaultValues map[string]any
	// ShouldUnregister makes detaching a field fully unregister it by
	// default. Individual fields can override with
	// [registry.Options.ShouldUnregister].
	ShouldUnregister bool
}

// Control is the engine facade.
type Control struct {
	opts    Options
	fields  *registry.Registry
	store   *values.Store
	tracker *status.Tracker
	hub     *observe.Hub
	names   *names.Sets

	// arrayMutations counts nested array mutation windows. While it is
	// non-zero, detaching an array-managed path never fully unregisters:
	// the mutation's own unmount/remount cycles must not read as removal.
	arrayMutations int

	fieldStates map[string]*FieldState
	formState   *FormState
}

// New creates an engine instance.
func New(opts Options) *Control {
	fields := registry.New()
	store := values.New(opts.DefaultValues)
	c := &Control{
		opts:        opts,
		fields:      fields,
		store:       store,
		tracker:     status.New(store, fields),
		hub:         observe.NewHub(),
		names:       names.New(),
		fieldStates: make(map[string]*FieldState),
	}
	c.formState = &FormState{c: c}
	return c
}

// parse canonicalizes a path string, wrapping a syntax fault with the
// failing operation.
func (c *Control) parse(op, path string) (fieldpath.Path, string, error) {
	p, err := fieldpath.Parse(path)
	if err != nil {
		ferr := &errors.FormError{Op: op, Kind: errors.KindPath, Path: path, Err: err}
		errors.Report(ferr)
		return nil, "", ferr
	}
	return p, p.String(), nil
}

// affected returns the notification set for a mutation at name: the path
// itself, its ancestors (a container is dirty when any descendant is),
// and any registered descendants (replacing a subtree changes them too).
func (c *Control) affected(name string, p fieldpath.Path) []string {
	out := append(p.Ancestors(), name)
	for _, child := range c.fields.NamesWithin(name) {
		if child != name {
			out = append(out, child)
		}
	}
	return out
}

// Register creates or reuses the field node at path and returns the
// consumer binding. Registering an existing path merges the rule set
// (last registration wins) and leaves the value untouched; the current
// value slot is otherwise seeded from the default tree, or from
// opts.Value when no default exists.
func (c *Control) Register(path string, opts registry.Options) (*Field, error) {
	p, name, err := c.parse("control.Register", path)
	if err != nil {
		return nil, err
	}

	c.hub.Batch(func() {
		_, _ = c.fields.Register(name, p, opts)

		seeded := false
		if !c.store.Has(p) {
			switch {
			case c.store.HasDefault(p):
				c.store.Set(p, values.Clone(c.store.GetDefault(p, nil)))
			case opts.HasValue:
				// A caller-supplied initial value is the pristine
				// baseline: seed both trees so the field starts clean.
				c.store.Set(p, values.Clone(opts.Value))
				c.store.SetDefault(p, values.Clone(opts.Value))
			default:
				c.store.Set(p, nil)
			}
			seeded = true
		}

		flagged := false
		if opts.Disabled.IsSet() {
			disabled := opts.Disabled.Bool(false)
			flagged = c.names.Disabled.Has(name) != disabled
			c.applyDisabled(name, disabled)
		}

		// A node surviving a prior detach is being reused.
		c.names.Unmount.Remove(name)

		if seeded || flagged {
			c.hub.Changed(c.affected(name, p)...)
		}
	})

	return &Field{c: c, name: name, path: p}, nil
}

// Unregister resolves the unregistration policy for path and either
// removes the field entirely or keeps its node unmounted for a later
// remount. Renaming a field is not a move: it is an Unregister of the
// old path followed by a Register of the new one, and state at the old
// path is lost unless the caller copies it first.
func (c *Control) Unregister(path string) error {
	p, name, err := c.parse("control.Unregister", path)
	if err != nil {
		return err
	}

	node, ok := c.fields.Lookup(name)
	if !ok {
		return nil
	}

	action := registry.ResolveDetach(registry.DetachContext{
		FormShouldUnregister:    c.opts.ShouldUnregister,
		FieldOverride:           node.ShouldUnregister(),
		ArrayManaged:            c.names.Array.HasWithin(name),
		ArrayMutationInProgress: c.arrayMutations > 0,
		Watched:                 c.names.Watch.HasWithin(name),
	})

	c.hub.Batch(func() {
		switch action {
		case registry.ActionRemove:
			c.fields.Remove(name)
			c.store.Remove(p)
			c.tracker.ClearPath(name)
			c.names.Drop(name)
			delete(c.fieldStates, name)
		case registry.ActionKeep:
			c.fields.SetRef(name, nil)
			c.names.Mount.Remove(name)
			c.names.Unmount.Add(name)
		}
		c.hub.Changed(c.affected(name, p)...)
	})
	return nil
}

// SetOption configures a SetValue call.
type SetOption func(*setConfig)

type setConfig struct {
	touch bool
}

// Touch marks the field touched as part of the SetValue, for callers
// that translate a combined input-and-blur gesture.
func Touch() SetOption {
	return func(cfg *setConfig) { cfg.touch = true }
}

// SetValue writes the current value at path and notifies matching
// subscribers once. Writing to an unregistered path is allowed; the slot
// exists in the value tree and a later registration adopts it.
func (c *Control) SetValue(path string, value any, opts ...SetOption) error {
	p, name, err := c.parse("control.SetValue", path)
	if err != nil {
		return err
	}
	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c.hub.Batch(func() {
		c.store.Set(p, value)
		if cfg.touch {
			c.tracker.MarkTouched(name)
		}
		c.hub.Changed(c.affected(name, p)...)
	})
	return nil
}

// GetValue returns a detached copy of the current value at path, or nil
// when absent. Reading has no side effects.
func (c *Control) GetValue(path string) (any, error) {
	p, _, err := c.parse("control.GetValue", path)
	if err != nil {
		return nil, err
	}
	return values.Clone(c.store.Get(p, nil)), nil
}

// Values returns a detached deep copy of the whole current tree.
func (c *Control) Values() map[string]any {
	return c.store.Snapshot()
}

// SubmitValues returns the current tree minus the contribution of
// disabled fields. Disabling is recorded as a flag, not a deletion, so
// re-enabling a field restores its value; only the snapshot is filtered.
func (c *Control) SubmitValues() map[string]any {
	snap := c.store.Snapshot()
	for _, name := range c.names.Disabled.List() {
		if p, err := fieldpath.Parse(name); err == nil {
			fieldpath.Delete(snap, p)
		}
	}
	return snap
}

// Blur records a blur completion for path. Blurring a path without a
// registered node is a tolerated no-op: element detach ordering is not
// guaranteed by the binding layer.
func (c *Control) Blur(path string) error {
	_, name, err := c.parse("control.Blur", path)
	if err != nil {
		return err
	}
	if _, ok := c.fields.Lookup(name); !ok {
		return nil
	}
	c.hub.Batch(func() {
		c.tracker.MarkTouched(name)
		c.hub.Changed(name)
	})
	return nil
}

// SetDisabledOptions names a field and its new disabled flag.
type SetDisabledOptions struct {
	Name string
	// Disabled must be explicitly true or false to take effect; unset
	// means "caller did not specify" and the call is a silent no-op.
	Disabled registry.Tristate
}

// SetDisabledField flips a field's disabled flag. When disabled, the
// field's value contribution is excluded from [Control.SubmitValues]
// without being deleted, so re-enabling restores the prior value.
func (c *Control) SetDisabledField(opts SetDisabledOptions) error {
	if !opts.Disabled.IsSet() {
		return nil
	}
	p, name, err := c.parse("control.SetDisabledField", opts.Name)
	if err != nil {
		return err
	}
	c.hub.Batch(func() {
		c.applyDisabled(name, opts.Disabled.Bool(false))
		c.hub.Changed(c.affected(name, p)...)
	})
	return nil
}

func (c *Control) applyDisabled(name string, disabled bool) {
	if node, ok := c.fields.Lookup(name); ok {
		node.SetDisabled(disabled)
	}
	if disabled {
		c.names.Disabled.Add(name)
	} else {
		c.names.Disabled.Remove(name)
	}
}

// BeginValidation starts an async validation run for path and returns
// its generation token. The engine only tracks that validation is in
// flight; rule execution belongs to an external validator.
func (c *Control) BeginValidation(path string) (uint64, error) {
	_, name, err := c.parse("control.BeginValidation", path)
	if err != nil {
		return 0, err
	}
	var gen uint64
	c.hub.Batch(func() {
		gen = c.tracker.BeginValidation(name)
		c.hub.Changed(name)
	})
	return gen, nil
}

// ResolveValidation applies a validation outcome for the given
// generation. A nil payload is success and clears the path's error; any
// other payload is stored verbatim. Results from superseded generations
// are discarded and reported as applied=false.
func (c *Control) ResolveValidation(path string, gen uint64, payload any) (bool, error) {
	_, name, err := c.parse("control.ResolveValidation", path)
	if err != nil {
		return false, err
	}
	applied := false
	c.hub.Batch(func() {
		applied = c.tracker.ResolveValidation(name, gen, payload)
		if applied {
			c.hub.Changed(name)
		}
	})
	return applied, nil
}

// SetError parks an error payload on path without a validation run.
func (c *Control) SetError(path string, payload any) error {
	_, name, err := c.parse("control.SetError", path)
	if err != nil {
		return err
	}
	c.hub.Batch(func() {
		c.tracker.SetError(name, payload)
		c.hub.Changed(name)
	})
	return nil
}

// ClearErrors clears error payloads for the given paths, or every error
// when called with no arguments.
func (c *Control) ClearErrors(paths ...string) error {
	if len(paths) == 0 {
		paths = c.tracker.ErrorNames()
	}
	parsed := make([]string, 0, len(paths))
	for _, path := range paths {
		_, name, err := c.parse("control.ClearErrors", path)
		if err != nil {
			return err
		}
		parsed = append(parsed, name)
	}
	c.hub.Batch(func() {
		for _, name := range parsed {
			c.tracker.SetError(name, nil)
			c.hub.Changed(name)
		}
	})
	return nil
}

// Reset replaces the default tree (nil keeps the existing defaults),
// restores the current tree from it and clears every status set. Field
// registrations and mounted elements survive a reset.
func (c *Control) Reset(defaults map[string]any) {
	c.hub.Batch(func() {
		c.store.Reset(defaults)
		c.tracker.Reset()
		for _, name := range c.fields.Names() {
			if node, ok := c.fields.Lookup(name); ok {
				c.hub.Changed(c.affected(name, node.Path())...)
			}
		}
	})
}

// ResetFieldOption configures a ResetField call.
type ResetFieldOption func(*resetFieldConfig)

type resetFieldConfig struct {
	keepTouched bool
	keepError   bool
}

// KeepTouched preserves the field's touched flag across the reset.
func KeepTouched() ResetFieldOption {
	return func(cfg *resetFieldConfig) { cfg.keepTouched = true }
}

// KeepError preserves the field's error payload across the reset.
func KeepError() ResetFieldOption {
	return func(cfg *resetFieldConfig) { cfg.keepError = true }
}

// ResetField restores a single field's current value from its default
// and clears its status. KeepTouched and KeepError retain the
// corresponding state; an in-flight validation is always abandoned.
func (c *Control) ResetField(path string, opts ...ResetFieldOption) error {
	p, name, err := c.parse("control.ResetField", path)
	if err != nil {
		return err
	}
	var cfg resetFieldConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	wasTouched := c.tracker.IsTouched(name)
	payload, hadError := c.tracker.Error(name)

	c.hub.Batch(func() {
		c.store.Set(p, values.Clone(c.store.GetDefault(p, nil)))
		c.tracker.ClearPath(name)
		if cfg.keepTouched && wasTouched {
			c.tracker.MarkTouched(name)
		}
		if cfg.keepError && hadError {
			c.tracker.SetError(name, payload)
		}
		c.hub.Changed(c.affected(name, p)...)
	})
	return nil
}

// Subscribe registers a raw hub subscriber. Most consumers want
// [Control.Watch]; Subscribe is the escape hatch for form-state style
// consumers that re-read multiple slices per round.
func (c *Control) Subscribe(filter string, exact bool, fn func(changed []string)) func() {
	return c.hub.Subscribe(filter, exact, fn)
}

// Batch runs fn inside one notification batch, coalescing every mutation
// performed by fn into a single round.
func (c *Control) Batch(fn func()) {
	c.hub.Batch(fn)
}

// attachRef wires an element capability handle to a registered path.
// Attaching to an unknown path is a tolerated no-op.
func (c *Control) attachRef(name string, ref registry.ElementCapabilities) {
	if _, ok := c.fields.Lookup(name); !ok {
		return
	}
	c.hub.Batch(func() {
		c.fields.SetRef(name, ref)
		if ref != nil {
			c.names.Mount.Add(name)
			c.names.Unmount.Remove(name)
		} else {
			c.names.Mount.Remove(name)
			c.names.Unmount.Add(name)
		}
		c.hub.Changed(name)
	})
}

// FieldNode exposes the registry node for path, primarily for forwarding
// element capabilities (focus, custom validity) from above the engine.
func (c *Control) FieldNode(path string) (*registry.FieldNode, bool) {
	name, err := fieldpath.Canonical(path)
	if err != nil {
		return nil, false
	}
	return c.fields.Lookup(name)
}
