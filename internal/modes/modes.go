// Package modes classifies channel mode characters by parameter arity and
// describes the status ranks a user can hold in a channel.
package modes

// Type is the parameter arity category of a channel mode, in CHANMODES
// group order.
type Type int

const (
	// List modes always take a parameter and hold a list, like bans (group A).
	List Type = iota
	// AlwaysParameter modes take a parameter on set and unset (group B).
	AlwaysParameter
	// ParameterOnSet modes take a parameter only when enabled (group C).
	ParameterOnSet
	// NoParameter modes are boolean toggles (group D).
	NoParameter
)

func (t Type) String() string {
	switch t {
	case List:
		return "list"
	case AlwaysParameter:
		return "always-parameter"
	case ParameterOnSet:
		return "parameter-on-set"
	case NoParameter:
		return "no-parameter"
	}
	return "unknown"
}

// NeedsParameter reports whether a change to a mode of this type consumes a
// parameter. Listing a list mode without a parameter is handled by callers.
func (t Type) NeedsParameter(adding bool) bool {
	switch t {
	case List, AlwaysParameter:
		return true
	case ParameterOnSet:
		return adding
	}
	return false
}

// Table maps mode characters to their type.
type Table map[byte]Type

// Lookup returns the type for mode; ok is false for unclassified modes.
func (t Table) Lookup(mode byte) (typ Type, ok bool) {
	typ, ok = t[mode]
	return
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// DefaultTable returns the classification used before CHANMODES arrives.
func DefaultTable() Table {
	return Table{
		'b': List,
		'e': List,
		'I': List,
		'k': AlwaysParameter,
		'l': ParameterOnSet,
		'i': NoParameter,
		'm': NoParameter,
		'n': NoParameter,
		'p': NoParameter,
		's': NoParameter,
		't': NoParameter,
	}
}

// TableFromGroups builds a table from the CHANMODES groups A, B, C and D.
// Groups beyond the fourth are ignored.
func TableFromGroups(groups []string) Table {
	out := make(Table)
	for i, group := range groups {
		if i > int(NoParameter) {
			break
		}
		for j := 0; j < len(group); j++ {
			out[group[j]] = Type(i)
		}
	}
	return out
}

// UserMode is a channel status rank: a mode character and the prefix symbol
// shown before nicknames holding it.
type UserMode struct {
	Mode   byte
	Prefix byte
}

func (m UserMode) String() string {
	return string([]byte{m.Mode, '/', m.Prefix})
}

// DefaultUserModes returns operator and voice, highest privilege first.
func DefaultUserModes() []UserMode {
	return []UserMode{
		{Mode: 'o', Prefix: '@'},
		{Mode: 'v', Prefix: '+'},
	}
}
