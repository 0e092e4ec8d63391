package formtest

import (
	"reflect"
	"testing"

	"github.com/go-drift/formkit/pkg/control"
	"github.com/go-drift/formkit/pkg/registry"
)

func TestHarnessRecordsRounds(t *testing.T) {
	h := NewHarnessWithT(t, control.Options{})
	h.Mount("a", registry.Options{})
	h.Mount("b", registry.Options{})
	h.ResetRounds()

	h.Change("a", 1)
	h.Blur("a")

	rounds := h.Rounds()
	if len(rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(rounds))
	}
	if !reflect.DeepEqual(rounds[0], []string{"a"}) {
		t.Errorf("first round = %v", rounds[0])
	}
	if !reflect.DeepEqual(h.LastRound(), []string{"a"}) {
		t.Errorf("last round = %v", h.LastRound())
	}
}

func TestHarnessBatchCoalesces(t *testing.T) {
	h := NewHarnessWithT(t, control.Options{})
	h.Mount("x", registry.Options{})
	h.Mount("y", registry.Options{})
	h.ResetRounds()

	h.Control.Batch(func() {
		h.Change("x", 1)
		h.Change("y", 2)
	})

	if got := len(h.Rounds()); got != 1 {
		t.Fatalf("rounds = %d, want one coalesced round", got)
	}
	if !reflect.DeepEqual(h.LastRound(), []string{"x", "y"}) {
		t.Errorf("round = %v", h.LastRound())
	}
}

func TestHarnessMountAttachesElement(t *testing.T) {
	h := NewHarnessWithT(t, control.Options{})
	f := h.Mount("field", registry.Options{})

	el, ok := h.Element("field")
	if !ok {
		t.Fatal("element not recorded")
	}
	f.Focus()
	if el.FocusCount != 1 {
		t.Errorf("FocusCount = %d, want 1", el.FocusCount)
	}
	if got := h.Control.State().MountedFields(); !reflect.DeepEqual(got, []string{"field"}) {
		t.Errorf("MountedFields = %v", got)
	}
}

func TestHarnessUnmountFollowsPolicy(t *testing.T) {
	h := NewHarnessWithT(t, control.Options{ShouldUnregister: true})
	h.Mount("gone", registry.Options{})
	h.Change("gone", "x")

	h.Unmount("gone")
	if _, ok := h.Control.FieldNode("gone"); ok {
		t.Error("unmount should have unregistered the field")
	}
	v, _ := h.Control.GetValue("gone")
	if v != nil {
		t.Errorf("value = %v, want removed", v)
	}
}

func TestHarnessChangeUnmountedPathWritesDirectly(t *testing.T) {
	h := NewHarnessWithT(t, control.Options{})
	h.Change("free", 42)
	h.RequireValue("free", 42)
}

func TestRequireValueDeepEquality(t *testing.T) {
	h := NewHarnessWithT(t, control.Options{})
	h.Change("user", map[string]any{"name": "ada", "meta": nil})
	// Absent and nil read as the same value.
	h.RequireValue("user", map[string]any{"name": "ada"})
}

func TestFakeElementRecords(t *testing.T) {
	el := &FakeElement{ReportResult: true}
	el.Focus()
	el.Select()
	el.SetCustomValidity("too short")
	if !el.ReportValidity() || el.ReportCount != 1 {
		t.Error("ReportValidity should return the configured result")
	}
	if el.FocusCount != 1 || el.SelectCount != 1 || el.Validity != "too short" {
		t.Errorf("recorded = %+v", el)
	}
}

func TestDumpValuesMentionsPaths(t *testing.T) {
	h := NewHarnessWithT(t, control.Options{DefaultValues: map[string]any{"k": "v"}})
	dump := h.DumpValues()
	if dump == "" {
		t.Fatal("empty dump")
	}
}
