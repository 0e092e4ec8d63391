package control

import (
	"github.com/go-drift/formkit/pkg/fieldpath"
	"github.com/go-drift/formkit/pkg/registry"
)

// ChangeEvent is the normalized form of a raw input event. The binding
// layer translates whatever its widget toolkit produces into one of
// these before it reaches the engine.
type ChangeEvent struct {
	// Name optionally overrides the field the event applies to. Empty
	// means the field the binding was created for.
	Name string
	// Value is the new value.
	Value any
}

// BlurEvent is the normalized form of a raw blur event.
type BlurEvent struct {
	// Name optionally overrides the field the event applies to.
	Name string
}

// Field is the consumer binding returned by [Control.Register]: the
// wiring a rendered input needs to feed events into the engine and
// attach its element capabilities.
type Field struct {
	c    *Control
	name string
	path fieldpath.Path
}

// Name returns the canonical path the field is registered under.
func (f *Field) Name() string { return f.name }

// OnChange feeds a change event into the engine.
func (f *Field) OnChange(evt ChangeEvent) {
	name := evt.Name
	if name == "" {
		name = f.name
	}
	// The path was validated at registration; an overridden name is
	// caller input and may fault, which SetValue reports.
	_ = f.c.SetValue(name, evt.Value)
}

// OnBlur feeds a blur event into the engine. Blur on a field that has
// since unregistered is a tolerated no-op.
func (f *Field) OnBlur(evt BlurEvent) {
	name := evt.Name
	if name == "" {
		name = f.name
	}
	_ = f.c.Blur(name)
}

// Ref attaches the concrete element's capability handle. Pass nil when
// the element unmounts. Attachment order relative to registration is not
// guaranteed by the binding layer, so attaching before the node exists
// is tolerated.
func (f *Field) Ref(el registry.ElementCapabilities) {
	f.c.attachRef(f.name, el)
}

// Focus forwards focus to the attached element, if any.
func (f *Field) Focus() {
	if node, ok := f.c.fields.Lookup(f.name); ok {
		node.Focus()
	}
}
