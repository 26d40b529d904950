package irc

import (
	"fmt"
	"sync"

	"github.com/dalnet/ircstate/internal/casemap"
	"github.com/dalnet/ircstate/internal/isupport"
	"github.com/dalnet/ircstate/internal/modes"
)

var defaultChannelPrefixes = []byte{'#', '&', '!', '+'}

// ServerInfo holds what the server has told us about itself during this
// session. Every getter returns a copy; only the session's dispatch path
// mutates it.
type ServerInfo struct {
	mu sync.RWMutex

	caseMapping        casemap.CaseMapping
	channelLengthLimit int
	channelLimits      map[byte]int
	channelModes       modes.Table
	channelPrefixes    []byte
	channelUserModes   []modes.UserMode
	motd               []string
	networkName        string
	address            string
	version            string
	nickLengthLimit    int
	supportsWhoX       bool

	// every applied ISUPPORT token, including ones without a typed record
	parameters map[string]string
}

func newServerInfo() *ServerInfo {
	return &ServerInfo{
		caseMapping:        casemap.Default,
		channelLengthLimit: -1,
		channelLimits:      make(map[byte]int),
		channelModes:       modes.DefaultTable(),
		channelPrefixes:    append([]byte(nil), defaultChannelPrefixes...),
		channelUserModes:   modes.DefaultUserModes(),
		nickLengthLimit:    -1,
		parameters:         make(map[string]string),
	}
}

// Address is the server name from RPL_MYINFO, if seen.
func (si *ServerInfo) Address() (string, bool) {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.address, si.address != ""
}

func (si *ServerInfo) setAddress(address string) {
	si.mu.Lock()
	si.address = address
	si.mu.Unlock()
}

func (si *ServerInfo) CaseMapping() casemap.CaseMapping {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.caseMapping
}

func (si *ServerInfo) setCaseMapping(cm casemap.CaseMapping) {
	si.mu.Lock()
	si.caseMapping = cm
	si.mu.Unlock()
}

// ChannelLengthLimit is the maximum channel name length, or -1 if unknown.
// A negative value is never a usable bound.
func (si *ServerInfo) ChannelLengthLimit() int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.channelLengthLimit
}

func (si *ServerInfo) setChannelLengthLimit(limit int) {
	si.mu.Lock()
	si.channelLengthLimit = limit
	si.mu.Unlock()
}

// ChannelLimits maps channel prefixes to the maximum number of such channels
// a client may join. Absent prefixes are unbounded.
func (si *ServerInfo) ChannelLimits() map[byte]int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	out := make(map[byte]int, len(si.channelLimits))
	for k, v := range si.channelLimits {
		out[k] = v
	}
	return out
}

func (si *ServerInfo) setChannelLimits(limits map[byte]int) error {
	if limits == nil {
		return fmt.Errorf("%w: channel limits", ErrArgument)
	}
	copied := make(map[byte]int, len(limits))
	for k, v := range limits {
		copied[k] = v
	}
	si.mu.Lock()
	si.channelLimits = copied
	si.mu.Unlock()
	return nil
}

func (si *ServerInfo) ChannelModes() modes.Table {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.channelModes.Clone()
}

// ChannelModeType classifies mode; ok is false when the server never
// classified it.
func (si *ServerInfo) ChannelModeType(mode byte) (modes.Type, bool) {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.channelModes.Lookup(mode)
}

// setChannelModes replaces the whole table; CHANMODES is always resent in full.
func (si *ServerInfo) setChannelModes(table modes.Table) error {
	if table == nil {
		return fmt.Errorf("%w: channel modes", ErrArgument)
	}
	table = table.Clone()
	si.mu.Lock()
	si.channelModes = table
	si.mu.Unlock()
	return nil
}

// ChannelPrefixes lists the characters that may begin a channel name.
func (si *ServerInfo) ChannelPrefixes() []byte {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return append([]byte(nil), si.channelPrefixes...)
}

func (si *ServerInfo) setChannelPrefixes(prefixes []byte) error {
	if len(prefixes) == 0 {
		return fmt.Errorf("%w: channel prefixes", ErrArgument)
	}
	copied := append([]byte(nil), prefixes...)
	si.mu.Lock()
	si.channelPrefixes = copied
	si.mu.Unlock()
	return nil
}

// ChannelUserModes lists channel status ranks, highest privilege first.
func (si *ServerInfo) ChannelUserModes() []modes.UserMode {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return append([]modes.UserMode{}, si.channelUserModes...)
}

func (si *ServerInfo) setChannelUserModes(userModes []modes.UserMode) error {
	if userModes == nil {
		return fmt.Errorf("%w: channel user modes", ErrArgument)
	}
	copied := append([]modes.UserMode{}, userModes...)
	si.mu.Lock()
	si.channelUserModes = copied
	si.mu.Unlock()
	return nil
}

// MOTD returns the lines of the last complete message of the day.
func (si *ServerInfo) MOTD() []string {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return append([]string{}, si.motd...)
}

func (si *ServerInfo) setMOTD(lines []string) error {
	if lines == nil {
		return fmt.Errorf("%w: motd", ErrArgument)
	}
	copied := append([]string{}, lines...)
	si.mu.Lock()
	si.motd = copied
	si.mu.Unlock()
	return nil
}

func (si *ServerInfo) NetworkName() (string, bool) {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.networkName, si.networkName != ""
}

func (si *ServerInfo) setNetworkName(name string) {
	si.mu.Lock()
	si.networkName = name
	si.mu.Unlock()
}

// NickLengthLimit is the maximum nickname length, or -1 if unknown.
func (si *ServerInfo) NickLengthLimit() int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.nickLengthLimit
}

func (si *ServerInfo) setNickLengthLimit(limit int) {
	si.mu.Lock()
	si.nickLengthLimit = limit
	si.mu.Unlock()
}

// Version is the server software version from RPL_MYINFO, if seen.
func (si *ServerInfo) Version() (string, bool) {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.version, si.version != ""
}

func (si *ServerInfo) setVersion(version string) {
	si.mu.Lock()
	si.version = version
	si.mu.Unlock()
}

func (si *ServerInfo) HasWhoXSupport() bool {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.supportsWhoX
}

func (si *ServerInfo) setWhoXSupport(supported bool) {
	si.mu.Lock()
	si.supportsWhoX = supported
	si.mu.Unlock()
}

// ISupportParameters returns every ISUPPORT key currently in effect with its
// raw value ("" for keys sent without one).
func (si *ServerInfo) ISupportParameters() map[string]string {
	si.mu.RLock()
	defer si.mu.RUnlock()
	out := make(map[string]string, len(si.parameters))
	for k, v := range si.parameters {
		out[k] = v
	}
	return out
}

// apply folds one parsed ISUPPORT record into the registry. A record that
// cannot be applied leaves the registry untouched.
func (si *ServerInfo) apply(param isupport.Parameter) error {
	var err error
	switch p := param.(type) {
	case isupport.Removal:
		si.remove(p.Name())
		return nil
	case isupport.NickLen:
		si.setNickLengthLimit(p.Limit)
	case isupport.ChanLen:
		si.setChannelLengthLimit(p.Limit)
	case isupport.ChanLimit:
		err = si.setChannelLimits(p.Limits)
	case isupport.ChanModes:
		if len(p.Groups) < 4 {
			value, _ := p.Value()
			return &isupport.TokenError{
				Token: p.Name() + "=" + value,
				Key:   p.Name(),
				Err:   fmt.Errorf("%w: %d mode groups, need 4", isupport.ErrInvalidValue, len(p.Groups)),
			}
		}
		err = si.setChannelModes(modes.TableFromGroups(p.Groups))
	case isupport.Prefix:
		err = si.setChannelUserModes(p.Modes)
	case isupport.CaseMapping:
		si.setCaseMapping(p.Mapping)
	case isupport.ChanTypes:
		err = si.setChannelPrefixes(p.Prefixes)
	case isupport.Network:
		si.setNetworkName(p.NetworkName)
	case isupport.WhoX:
		si.setWhoXSupport(true)
	}
	if err != nil {
		return err
	}

	value, _ := param.Value()
	si.mu.Lock()
	si.parameters[param.Name()] = value
	si.mu.Unlock()
	return nil
}

// remove handles -KEY by restoring the field's default.
func (si *ServerInfo) remove(key string) {
	defaults := newServerInfo()

	si.mu.Lock()
	defer si.mu.Unlock()
	delete(si.parameters, key)
	switch key {
	case isupport.KeyNickLen:
		si.nickLengthLimit = defaults.nickLengthLimit
	case isupport.KeyChanLen, isupport.KeyChannelLen:
		si.channelLengthLimit = defaults.channelLengthLimit
	case isupport.KeyChanLimit:
		si.channelLimits = defaults.channelLimits
	case isupport.KeyChanModes:
		si.channelModes = defaults.channelModes
	case isupport.KeyPrefix:
		si.channelUserModes = defaults.channelUserModes
	case isupport.KeyCaseMapping:
		si.caseMapping = defaults.caseMapping
	case isupport.KeyChanTypes:
		si.channelPrefixes = defaults.channelPrefixes
	case isupport.KeyNetwork:
		si.networkName = ""
	case isupport.KeyWhoX:
		si.supportsWhoX = false
	}
}
