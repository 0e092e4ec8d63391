// Package schema loads declarative form definitions.
//
// A schema file names the fields of a form with their defaults, rules
// and flags, so a form can be described in data and applied to a
// [control.Control] at startup. YAML and JSON encodings are supported;
// the format is chosen by file extension.
package schema

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/formkit/pkg/errors"
	"github.com/go-drift/formkit/pkg/fieldpath"
)

// CurrentVersion is the newest schema format version this package
// understands. Files declaring a newer major version are rejected.
const CurrentVersion = "v1.0.0"

// Schema is a declarative form definition.
type Schema struct {
	// Version declares the schema format version as a semver string.
	// Empty means the current version.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
	// Name is an optional human-readable form name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// ShouldUnregister sets the form-wide unregistration default.
	ShouldUnregister bool `yaml:"shouldUnregister,omitempty" json:"shouldUnregister,omitempty"`
	// Fields lists the form's fields.
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field is one field entry in a schema.
type Field struct {
	// Path is the field's canonical location in the value tree.
	Path string `yaml:"path" json:"path"`
	// Default seeds the field's default value.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`
	// Rules is an opaque rule payload handed to the registration.
	Rules map[string]any `yaml:"rules,omitempty" json:"rules,omitempty"`
	// Disabled excludes the field from submit snapshots. nil leaves any
	// existing flag untouched; explicit false actively enables.
	Disabled *bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	// KeepOnUnregister overrides the form-wide unregistration default
	// for this field, forcing its state to survive a detach.
	KeepOnUnregister bool `yaml:"keepOnUnregister,omitempty" json:"keepOnUnregister,omitempty"`
}

// Load reads a schema file, choosing the decoder by extension
// (.yaml/.yml or .json), and validates it.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schemaErr("schema.Load", path, err)
	}

	var s Schema
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		err = fmt.Errorf("unsupported schema extension %q", ext)
	}
	if err != nil {
		return nil, schemaErr("schema.Load", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse decodes a schema from YAML bytes and validates it.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, schemaErr("schema.Parse", "", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseJSON decodes a schema from JSON bytes and validates it.
func ParseJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, schemaErr("schema.ParseJSON", "", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the schema for well-formedness: a supported version,
// at least valid field paths and no duplicate paths.
func (s *Schema) Validate() error {
	if err := s.checkVersion(); err != nil {
		return err
	}

	seen := make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		if strings.TrimSpace(f.Path) == "" {
			return schemaErr("schema.Validate", "", fmt.Errorf("field %d: empty path", i))
		}
		name, err := fieldpath.Canonical(f.Path)
		if err != nil {
			return schemaErr("schema.Validate", f.Path, err)
		}
		if prev, dup := seen[name]; dup {
			return schemaErr("schema.Validate", name,
				fmt.Errorf("fields %d and %d declare the same path", prev, i))
		}
		seen[name] = i
	}
	return nil
}

// checkVersion rejects schemas written for a newer major format.
func (s *Schema) checkVersion() error {
	v := strings.TrimSpace(s.Version)
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return schemaErr("schema.Validate", "", fmt.Errorf("invalid version %q", s.Version))
	}
	if semver.Compare(semver.Major(v), semver.Major(CurrentVersion)) > 0 {
		return schemaErr("schema.Validate", "",
			fmt.Errorf("schema version %s is newer than supported %s", v, CurrentVersion))
	}
	return nil
}

// Paths returns the canonical field paths in declaration order.
func (s *Schema) Paths() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if name, err := fieldpath.Canonical(f.Path); err == nil {
			out = append(out, name)
		}
	}
	return out
}

// Defaults builds the default value tree declared by the schema.
func (s *Schema) Defaults() (map[string]any, error) {
	root := make(map[string]any)
	for _, f := range s.Fields {
		if f.Default == nil {
			continue
		}
		p, err := fieldpath.Parse(f.Path)
		if err != nil {
			return nil, schemaErr("schema.Defaults", f.Path, err)
		}
		fieldpath.Set(root, p, f.Default)
	}
	return root, nil
}

func schemaErr(op, path string, err error) error {
	ferr := &errors.FormError{Op: op, Kind: errors.KindSchema, Path: path, Err: err}
	errors.Report(ferr)
	return ferr
}

// IsSchemaError reports whether err is a schema fault.
func IsSchemaError(err error) bool {
	var ferr *errors.FormError
	return stderrors.As(err, &ferr) && ferr.Kind == errors.KindSchema
}
