package registry

// LifecycleState is a field path's position in the registration
// lifecycle.
//
// The transitions on a detach event are resolved by [ResolveDetach]:
//
//	Unregistered -> Registered -> Mounted -> UnmountPending -> Unregistered
//	                     ^                         |
//	                     +-------------------------+  (keep)
type LifecycleState int

const (
	// StateUnregistered means no node exists for the path.
	StateUnregistered LifecycleState = iota
	// StateRegistered means a node exists but no element is attached.
	StateRegistered
	// StateMounted means a concrete element is attached.
	StateMounted
	// StateUnmountPending means the element detached and the
	// unregistration policy has not yet been resolved.
	StateUnmountPending
)

func (s LifecycleState) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateMounted:
		return "mounted"
	case StateUnmountPending:
		return "unmount-pending"
	default:
		return "unregistered"
	}
}

// DetachAction is the resolved outcome of a detach event.
type DetachAction int

const (
	// ActionKeep retains the node unmounted so a later remount restores
	// prior state instead of resetting it.
	ActionKeep DetachAction = iota
	// ActionRemove fully unregisters: the node, its value and default
	// slots, and its status set memberships are all deleted.
	ActionRemove
)

func (a DetachAction) String() string {
	if a == ActionRemove {
		return "remove"
	}
	return "keep"
}

// DetachContext carries the inputs of an unregistration decision.
type DetachContext struct {
	// FormShouldUnregister is the form-level unregister-on-unmount
	// default.
	FormShouldUnregister bool
	// FieldOverride is the per-field override; it wins when explicitly
	// set.
	FieldOverride Tristate
	// ArrayManaged reports whether the path belongs to a field array.
	ArrayManaged bool
	// ArrayMutationInProgress reports whether an array mutation is
	// currently rewriting sibling paths.
	ArrayMutationInProgress bool
	// Watched reports whether a watcher still addresses the path. A
	// watched path survives the form-level default but not an explicit
	// per-field removal.
	Watched bool
}

// ResolveDetach decides what happens to a field node when its consumer
// detaches. An array-managed path is never removed mid-mutation: the
// mutation itself unmounts and remounts child paths, and treating those
// cycles as removal would destroy rows that are merely being repositioned.
func ResolveDetach(ctx DetachContext) DetachAction {
	if ctx.ArrayManaged && ctx.ArrayMutationInProgress {
		return ActionKeep
	}
	if ctx.FieldOverride.IsSet() {
		if ctx.FieldOverride.Bool(false) {
			return ActionRemove
		}
		return ActionKeep
	}
	if ctx.Watched {
		return ActionKeep
	}
	if ctx.FormShouldUnregister {
		return ActionRemove
	}
	return ActionKeep
}
