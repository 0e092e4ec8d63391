// Package formtest provides an in-package harness for exercising a form
// engine from tests: it mounts fields with fake elements, simulates
// change and blur events, records every notification round, and dumps
// value trees on assertion failure.
package formtest

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/go-drift/formkit/pkg/control"
	"github.com/go-drift/formkit/pkg/registry"
	"github.com/go-drift/formkit/pkg/values"
)

// dumper formats failure payloads. Indent matches spew's two space
// default so nested trees stay readable in test logs.
var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisableCapacities: true}

// Harness wraps a Control with event simulation and notification
// recording.
type Harness struct {
	// Control is the engine under test, exposed for calls the harness
	// does not wrap.
	Control *control.Control

	t        *testing.T
	rounds   [][]string
	unsub    func()
	fields   map[string]*control.Field
	elements map[string]*FakeElement
}

// NewHarness creates a harness around a fresh engine. Call Close when
// done, or use NewHarnessWithT.
func NewHarness(opts control.Options) *Harness {
	h := &Harness{
		Control:  control.New(opts),
		fields:   make(map[string]*control.Field),
		elements: make(map[string]*FakeElement),
	}
	h.unsub = h.Control.Subscribe("", false, func(changed []string) {
		h.rounds = append(h.rounds, changed)
	})
	return h
}

// NewHarnessWithT creates a harness that detaches itself via t.Cleanup.
// This is the recommended constructor for tests.
func NewHarnessWithT(t *testing.T, opts control.Options) *Harness {
	h := NewHarness(opts)
	h.t = t
	t.Cleanup(h.Close)
	return h
}

// Close detaches the harness's recorder from the engine.
func (h *Harness) Close() {
	if h.unsub != nil {
		h.unsub()
		h.unsub = nil
	}
}

// Mount registers a field and attaches a fake element to it, simulating
// the full register-then-ref sequence a binding layer performs.
func (h *Harness) Mount(path string, opts registry.Options) *control.Field {
	f, err := h.Control.Register(path, opts)
	if err != nil {
		h.fatalf("Mount(%q): %v", path, err)
		return nil
	}
	el := &FakeElement{}
	f.Ref(el)
	h.fields[f.Name()] = f
	h.elements[f.Name()] = el
	return f
}

// Unmount detaches the field's element and unregisters the path,
// simulating element teardown.
func (h *Harness) Unmount(path string) {
	if f, ok := h.fields[path]; ok {
		f.Ref(nil)
		delete(h.fields, path)
		delete(h.elements, path)
	}
	if err := h.Control.Unregister(path); err != nil {
		h.fatalf("Unmount(%q): %v", path, err)
	}
}

// Change simulates user input on a mounted field.
func (h *Harness) Change(path string, value any) {
	if f, ok := h.fields[path]; ok {
		f.OnChange(control.ChangeEvent{Value: value})
		return
	}
	if err := h.Control.SetValue(path, value); err != nil {
		h.fatalf("Change(%q): %v", path, err)
	}
}

// Blur simulates focus leaving a field.
func (h *Harness) Blur(path string) {
	if f, ok := h.fields[path]; ok {
		f.OnBlur(control.BlurEvent{})
		return
	}
	if err := h.Control.Blur(path); err != nil {
		h.fatalf("Blur(%q): %v", path, err)
	}
}

// Element returns the fake element mounted at path.
func (h *Harness) Element(path string) (*FakeElement, bool) {
	el, ok := h.elements[path]
	return el, ok
}

// Rounds returns every notification round recorded so far, oldest
// first. Each round is the sorted affected path set of one batch.
func (h *Harness) Rounds() [][]string {
	return h.rounds
}

// LastRound returns the most recent notification round, or nil when
// none has fired.
func (h *Harness) LastRound() []string {
	if len(h.rounds) == 0 {
		return nil
	}
	return h.rounds[len(h.rounds)-1]
}

// ResetRounds discards the recorded rounds, so a test can scope its
// assertions to the mutations that follow setup.
func (h *Harness) ResetRounds() {
	h.rounds = nil
}

// RequireValue fails the test when the current value at path does not
// deeply equal want, dumping both sides and the full tree.
func (h *Harness) RequireValue(path string, want any) {
	got, err := h.Control.GetValue(path)
	if err != nil {
		h.fatalf("RequireValue(%q): %v", path, err)
		return
	}
	if !values.DeepEqual(got, want) {
		h.fatalf("value at %q:\ngot:  %swant: %stree: %s",
			path, dumper.Sdump(got), dumper.Sdump(want), dumper.Sdump(h.Control.Values()))
	}
}

// DumpValues formats the whole current value tree for a test log.
func (h *Harness) DumpValues() string {
	return dumper.Sdump(h.Control.Values())
}

func (h *Harness) fatalf(format string, args ...any) {
	if h.t != nil {
		h.t.Helper()
		h.t.Fatalf(format, args...)
		return
	}
	panic(dumper.Sprintf(format, args...))
}
