package schema

import (
	"testing"

	"github.com/go-drift/formkit/pkg/control"
	"github.com/go-drift/formkit/pkg/registry"
)

func TestBuildControl(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, path := range s.Paths() {
		if _, ok := c.FieldNode(path); !ok {
			t.Errorf("field %q not registered", path)
		}
	}

	v, err := c.GetValue("profile.age")
	if err != nil {
		t.Fatal(err)
	}
	if v != 30 {
		t.Errorf("profile.age = %v, want seeded default", v)
	}

	// A declared default is the pristine baseline.
	if c.State().IsDirty() {
		t.Error("freshly built form should be clean")
	}

	// The disabled flag carries into submit filtering.
	if _, ok := c.SubmitValues()["newsletter"]; ok {
		t.Error("disabled field should be excluded from submit values")
	}
}

func TestApplyTwiceIsIdempotent(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetValue("email", "a@b.com"); err != nil {
		t.Fatal(err)
	}

	if err := s.Apply(c); err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	v, _ := c.GetValue("email")
	if v != "a@b.com" {
		t.Errorf("email = %v, reapplying a schema must not reset values", v)
	}
}

func TestApplyDisabledTristate(t *testing.T) {
	s, err := Parse([]byte(`
fields:
  - path: a
    disabled: false
  - path: b
`))
	if err != nil {
		t.Fatal(err)
	}

	c, err := s.Build()
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{"a", "b"} {
		if err := c.SetValue(path, "v"); err != nil {
			t.Fatal(err)
		}
		if err := c.SetDisabledField(control.SetDisabledOptions{
			Name:     path,
			Disabled: registry.TristateTrue,
		}); err != nil {
			t.Fatal(err)
		}
	}

	// Explicit false re-enables; an unspecified flag is left alone.
	if err := s.Apply(c); err != nil {
		t.Fatal(err)
	}
	submit := c.SubmitValues()
	if _, ok := submit["a"]; !ok {
		t.Error("explicit disabled: false should re-enable the field")
	}
	if _, ok := submit["b"]; ok {
		t.Error("an unspecified flag must leave the disabled state untouched")
	}
}

func TestKeepOnUnregisterOverride(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetValue("draft", "in progress"); err != nil {
		t.Fatal(err)
	}

	// The form-wide default unregisters on detach; draft opts out.
	if err := c.Unregister("email"); err != nil {
		t.Fatal(err)
	}
	if err := c.Unregister("draft"); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.FieldNode("email"); ok {
		t.Error("email should be fully unregistered")
	}
	v, _ := c.GetValue("draft")
	if v != "in progress" {
		t.Errorf("draft = %v, want value kept across detach", v)
	}
}
