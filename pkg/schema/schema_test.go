package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-drift/formkit/pkg/errors"
)

const sampleYAML = `
version: "1.0.0"
name: signup
shouldUnregister: true
fields:
  - path: email
    default: ""
    rules:
      required: true
  - path: profile.age
    default: 30
  - path: newsletter
    default: true
    disabled: true
  - path: draft
    keepOnUnregister: true
`

func TestParseYAML(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Name != "signup" || !s.ShouldUnregister {
		t.Errorf("header = %+v", s)
	}
	if len(s.Fields) != 4 {
		t.Fatalf("fields = %d, want 4", len(s.Fields))
	}
	if s.Fields[0].Rules["required"] != true {
		t.Errorf("rules = %v", s.Fields[0].Rules)
	}
	if got := s.Paths(); !reflect.DeepEqual(got, []string{"email", "profile.age", "newsletter", "draft"}) {
		t.Errorf("Paths = %v", got)
	}
}

func TestParseJSON(t *testing.T) {
	s, err := ParseJSON([]byte(`{"fields":[{"path":"items[0].sku","default":"A-1"}]}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if s.Fields[0].Path != "items[0].sku" {
		t.Errorf("path = %q", s.Fields[0].Path)
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "form.yaml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(yamlPath); err != nil {
		t.Errorf("Load yaml failed: %v", err)
	}

	jsonPath := filepath.Join(dir, "form.json")
	if err := os.WriteFile(jsonPath, []byte(`{"fields":[{"path":"a"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(jsonPath); err != nil {
		t.Errorf("Load json failed: %v", err)
	}

	txtPath := filepath.Join(dir, "form.txt")
	if err := os.WriteFile(txtPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txtPath); err == nil {
		t.Error("unsupported extension should fail")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty path", `fields: [{path: ""}]`},
		{"malformed path", `fields: [{path: "a..b"}]`},
		{"duplicate path", `fields: [{path: a}, {path: a}]`},
		{"garbage version", `{version: "not-semver", fields: []}`},
		{"future major", `{version: "2.0.0", fields: []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !IsSchemaError(err) {
				t.Errorf("err = %v, want a schema fault", err)
			}
		})
	}
}

func TestVersionAccepted(t *testing.T) {
	for _, v := range []string{"", "1.0.0", "v1.0.0", "0.9.0", "1.2.3"} {
		s := &Schema{Version: v}
		if err := s.Validate(); err != nil {
			t.Errorf("version %q rejected: %v", v, err)
		}
	}
}

func TestDefaultsTree(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	defaults, err := s.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"email":      "",
		"profile":    map[string]any{"age": 30},
		"newsletter": true,
	}
	if !reflect.DeepEqual(defaults, want) {
		t.Errorf("Defaults = %#v, want %#v", defaults, want)
	}
}

func TestSchemaErrKind(t *testing.T) {
	_, err := Parse([]byte(`fields: [{path: "a..b"}]`))
	ferr, ok := err.(*errors.FormError)
	if !ok || ferr.Kind != errors.KindSchema {
		t.Fatalf("err = %v, want FormError with KindSchema", err)
	}
}
