// Package mask tests user identities against nick!user@host patterns.
package mask

import (
	"errors"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// Wildcard stands in for any segment a mask does not constrain.
const Wildcard = "*"

// ErrArgument is returned when a mask is built from an absent identity.
var ErrArgument = errors.New("mask: missing argument")

// Mask is satisfied by HostMask, NickMask, UserMask and FullMask.
type Mask interface {
	// Test matches the identity segment the mask constrains: the host for
	// a HostMask, the nickname for a NickMask, the username for a
	// UserMask and the whole nick!user@host for a FullMask.
	Test(identity string) bool
	// TestUser matches a parsed source.
	TestUser(user ircmsg.NUH) bool
	// String renders the mask as nick!user@host.
	String() string
}

func render(nick, user, host string) string {
	if nick == "" {
		nick = Wildcard
	}
	if user == "" {
		user = Wildcard
	}
	if host == "" {
		host = Wildcard
	}
	var out strings.Builder
	out.Grow(len(nick) + len(user) + len(host) + 2)
	out.WriteString(nick)
	out.WriteByte('!')
	out.WriteString(user)
	out.WriteByte('@')
	out.WriteString(host)
	return out.String()
}

// Parse builds the narrowest mask for a pattern: a bare string with no '!'
// or '@' is a NickMask, anything else a FullMask.
func Parse(pattern string) (Mask, error) {
	if pattern == "" {
		return nil, ErrArgument
	}
	if !strings.ContainsAny(pattern, "!@") {
		return NickMask{nick: pattern}, nil
	}
	full, err := FullMaskFromString(pattern)
	if err != nil {
		return nil, err
	}
	return full, nil
}
