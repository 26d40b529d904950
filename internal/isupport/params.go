package isupport

import (
	"github.com/dalnet/ircstate/internal/casemap"
	"github.com/dalnet/ircstate/internal/modes"
)

// Parameter is one parsed ISUPPORT token.
type Parameter interface {
	// Name is the upper-cased key.
	Name() string
	// Value is the decoded value, if the token carried one.
	Value() (string, bool)
}

type param struct {
	name     string
	value    string
	hasValue bool
}

func (p param) Name() string { return p.name }

func (p param) Value() (string, bool) { return p.value, p.hasValue }

// NickLen is NICKLEN, the maximum nickname length.
type NickLen struct {
	param
	Limit int
}

// ChanLen is CHANLEN (or CHANNELLEN), the maximum channel name length.
type ChanLen struct {
	param
	Limit int
}

// ChanLimit is CHANLIMIT. Limits maps a channel prefix to the number of
// channels of that type a client may join; prefixes without a count are
// unbounded and absent from the map.
type ChanLimit struct {
	param
	Limits map[byte]int
}

// ChanModes is CHANMODES, the mode groups A, B, C, D (and any extras).
type ChanModes struct {
	param
	Groups []string
}

// Prefix is PREFIX, the status modes from highest to lowest privilege.
type Prefix struct {
	param
	Modes []modes.UserMode
}

// CaseMapping is CASEMAPPING.
type CaseMapping struct {
	param
	Mapping casemap.CaseMapping
}

// ChanTypes is CHANTYPES, the characters that may begin a channel name.
type ChanTypes struct {
	param
	Prefixes []byte
}

// Network is NETWORK.
type Network struct {
	param
	NetworkName string
}

// WhoX is WHOX.
type WhoX struct {
	param
}

// Unknown is any key without a typed record.
type Unknown struct {
	param
}

// Removal is a -KEY token withdrawing a previously advertised key.
type Removal struct {
	param
}
