package schema

import (
	"github.com/go-drift/formkit/pkg/control"
	"github.com/go-drift/formkit/pkg/registry"
)

// Build creates a Control seeded with the schema's defaults and
// registers every declared field.
func (s *Schema) Build() (*control.Control, error) {
	defaults, err := s.Defaults()
	if err != nil {
		return nil, err
	}
	c := control.New(control.Options{
		DefaultValues:    defaults,
		ShouldUnregister: s.ShouldUnregister,
	})
	if err := s.Apply(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply registers the schema's fields on an existing Control. Fields
// already registered merge per the engine's idempotent registration
// rule, so applying a schema twice is harmless.
func (s *Schema) Apply(c *control.Control) error {
	var firstErr error
	c.Batch(func() {
		for _, f := range s.Fields {
			var opts registry.Options
			if f.Disabled != nil {
				opts.Disabled = registry.TristateOf(*f.Disabled)
			}
			if f.Rules != nil {
				opts.Rules = f.Rules
			}
			if f.Default != nil {
				opts.Value = f.Default
				opts.HasValue = true
			}
			if f.KeepOnUnregister {
				opts.ShouldUnregister = registry.TristateFalse
			}
			if _, err := c.Register(f.Path, opts); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}
