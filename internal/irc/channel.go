package irc

import (
	"bytes"
	"regexp"

	"github.com/dalnet/ircstate/internal/modes"
)

// channel name body after the prefix: no space, comma, ^G, CR or LF
var channelBody = regexp.MustCompile("^[^ ,\x07\r\n]+$")

// IsValidChannel reports whether name is a channel name on this server. The
// length limit only applies once the server has sent CHANLEN.
func (si *ServerInfo) IsValidChannel(name string) bool {
	if len(name) <= 1 {
		return false
	}

	si.mu.RLock()
	limit := si.channelLengthLimit
	prefixes := si.channelPrefixes
	si.mu.RUnlock()

	if limit >= 0 && len(name) > limit {
		return false
	}
	if bytes.IndexByte(prefixes, name[0]) < 0 {
		return false
	}
	return channelBody.MatchString(name[1:])
}

// TargetedChannelInfo resolves a status-targeted channel such as "@#chan",
// returning the rank whose prefix leads name. A leading channel prefix never
// targets, except '+' in front of a channel of another type ("+#chan").
func (si *ServerInfo) TargetedChannelInfo(name string) (modes.UserMode, bool) {
	if len(name) < 2 {
		return modes.UserMode{}, false
	}
	first := name[0]

	si.mu.RLock()
	if bytes.IndexByte(si.channelPrefixes, first) >= 0 && (first != '+' || name[1] == '+') {
		si.mu.RUnlock()
		return modes.UserMode{}, false
	}
	var (
		mode  modes.UserMode
		found bool
	)
	for _, m := range si.channelUserModes {
		if m.Prefix == first {
			mode, found = m, true
			break
		}
	}
	si.mu.RUnlock()

	if !found || !si.IsValidChannel(name[1:]) {
		return modes.UserMode{}, false
	}
	return mode, true
}

// IsTargetedChannel reports whether name is a status-targeted channel.
func (si *ServerInfo) IsTargetedChannel(name string) bool {
	_, ok := si.TargetedChannelInfo(name)
	return ok
}
