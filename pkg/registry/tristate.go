package registry

// Tristate is a boolean option that distinguishes "caller did not
// specify" from an explicit true or false. Field options carry tri-states
// so an explicit false can override a form-level default while an unset
// value falls through to it.
type Tristate uint8

const (
	// TristateUnset means the caller did not specify the option.
	TristateUnset Tristate = iota
	// TristateFalse means the caller explicitly set the option to false.
	TristateFalse
	// TristateTrue means the caller explicitly set the option to true.
	TristateTrue
)

func (t Tristate) String() string {
	switch t {
	case TristateFalse:
		return "false"
	case TristateTrue:
		return "true"
	default:
		return "unset"
	}
}

// TristateOf converts an explicit boolean into a Tristate.
func TristateOf(b bool) Tristate {
	if b {
		return TristateTrue
	}
	return TristateFalse
}

// IsSet reports whether the caller specified the option.
func (t Tristate) IsSet() bool { return t != TristateUnset }

// Bool resolves the tri-state against a fallback used when unset.
func (t Tristate) Bool(fallback bool) bool {
	switch t {
	case TristateTrue:
		return true
	case TristateFalse:
		return false
	default:
		return fallback
	}
}
