package control

// FieldState is a lazy view of one field's derived status. Every method
// re-derives its answer at call time, so repeated reads always reflect
// the latest state even though the view object itself is memoized per
// path by [Control.GetFieldState].
type FieldState struct {
	c    *Control
	name string
}

// Name returns the canonical path the view covers.
func (s *FieldState) Name() string { return s.name }

// IsDirty reports whether the field's current value differs from its
// default under deep equality.
func (s *FieldState) IsDirty() bool { return s.c.tracker.IsDirty(s.name) }

// IsTouched reports whether the field has been blurred at least once.
func (s *FieldState) IsTouched() bool { return s.c.tracker.IsTouched(s.name) }

// IsValidating reports whether an async validation is in flight.
func (s *FieldState) IsValidating() bool { return s.c.tracker.IsValidating(s.name) }

// Invalid reports whether the field currently has an error payload.
func (s *FieldState) Invalid() bool {
	_, ok := s.c.tracker.Error(s.name)
	return ok
}

// Error returns the field's current error payload, if any.
func (s *FieldState) Error() (any, bool) { return s.c.tracker.Error(s.name) }

// GetFieldState returns the lazy status view for path. The view's
// identity is stable across calls so binding layers can use it as a
// dependency key.
func (c *Control) GetFieldState(path string) (*FieldState, error) {
	_, name, err := c.parse("control.GetFieldState", path)
	if err != nil {
		return nil, err
	}
	if view, ok := c.fieldStates[name]; ok {
		return view, nil
	}
	view := &FieldState{c: c, name: name}
	c.fieldStates[name] = view
	return view, nil
}

// FormState is the lazy form-wide status view returned by
// [Control.State]. Like [FieldState] it derives everything on access.
type FormState struct {
	c *Control
}

// IsDirty reports whether any registered field is dirty.
func (s *FormState) IsDirty() bool { return s.c.tracker.AnyDirty() }

// DirtyFields returns the dirty paths, sorted.
func (s *FormState) DirtyFields() []string { return s.c.tracker.DirtyNames() }

// TouchedFields returns the touched paths, sorted.
func (s *FormState) TouchedFields() []string { return s.c.tracker.TouchedNames() }

// IsValidating reports whether any validation is in flight.
func (s *FormState) IsValidating() bool { return s.c.tracker.AnyValidating() }

// IsValid reports whether no field has an error payload.
func (s *FormState) IsValid() bool { return len(s.c.tracker.ErrorNames()) == 0 }

// Errors returns a copy of the path to error payload mapping.
func (s *FormState) Errors() map[string]any { return s.c.tracker.Errors() }

// MountedFields returns the paths currently attached to live elements,
// sorted.
func (s *FormState) MountedFields() []string { return s.c.names.Mount.List() }

// UnmountedFields returns the paths whose elements detached but whose
// state the unregistration policy kept, sorted.
func (s *FormState) UnmountedFields() []string { return s.c.names.Unmount.List() }

// State returns the form-wide lazy status view. The same view is
// returned for the life of the Control.
func (c *Control) State() *FormState { return c.formState }
