package irc

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalnet/ircstate/internal/casemap"
	"github.com/dalnet/ircstate/internal/isupport"
	"github.com/dalnet/ircstate/internal/modes"
)

func TestServerInfoDefaults(t *testing.T) {
	info := newServerInfo()

	assert.Equal(t, casemap.RFC1459, info.CaseMapping())
	assert.Equal(t, -1, info.ChannelLengthLimit())
	assert.Equal(t, -1, info.NickLengthLimit())
	assert.Equal(t, []byte("#&!+"), info.ChannelPrefixes())
	assert.Equal(t, modes.DefaultUserModes(), info.ChannelUserModes())
	assert.Empty(t, info.ChannelLimits())
	assert.Empty(t, info.MOTD())
	assert.False(t, info.HasWhoXSupport())

	_, ok := info.NetworkName()
	assert.False(t, ok)
	_, ok = info.Address()
	assert.False(t, ok)
	_, ok = info.Version()
	assert.False(t, ok)
}

func applyToken(t *testing.T, info *ServerInfo, token string) {
	t.Helper()
	p, err := isupport.Parse(token)
	require.NoError(t, err, token)
	require.NoError(t, info.apply(p), token)
}

func TestApplyNickLen(t *testing.T) {
	for _, n := range []int{0, 1, 9, 31, 4096} {
		info := newServerInfo()
		applyToken(t, info, "NICKLEN="+strconv.Itoa(n))
		assert.Equal(t, n, info.NickLengthLimit())
	}
}

func TestApplyCaseMapping(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "CASEMAPPING=ascii")
	assert.Equal(t, casemap.ASCII, info.CaseMapping())

	applyToken(t, info, "CASEMAPPING=rfc1459")
	assert.Equal(t, `[]\~`, info.CaseMapping().Fold("{}|^"))
}

func TestApplyChanModesReplacesTable(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "CHANMODES=b,k,l,m")

	typ, ok := info.ChannelModeType('m')
	require.True(t, ok)
	assert.Equal(t, modes.NoParameter, typ)

	typ, ok = info.ChannelModeType('b')
	require.True(t, ok)
	assert.Equal(t, modes.List, typ)

	// 't' was in the default table but not in the server's groups
	_, ok = info.ChannelModeType('t')
	assert.False(t, ok)
	_, ok = info.ChannelModeType('Z')
	assert.False(t, ok)
}

func TestApplyChanModesTooFewGroups(t *testing.T) {
	info := newServerInfo()
	p, err := isupport.Parse("CHANMODES=b,k")
	require.NoError(t, err)

	err = info.apply(p)
	var tokenErr *isupport.TokenError
	require.ErrorAs(t, err, &tokenErr)
	assert.ErrorIs(t, err, isupport.ErrInvalidValue)

	assert.Equal(t, modes.DefaultTable(), info.ChannelModes())
	assert.NotContains(t, info.ISupportParameters(), "CHANMODES")
}

func TestApplyStructured(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "CHANLIMIT=#&:25")
	applyToken(t, info, "PREFIX=(qaohv)~&@%+")
	applyToken(t, info, "CHANTYPES=#")
	applyToken(t, info, "NETWORK=KittehNet")
	applyToken(t, info, "WHOX")
	applyToken(t, info, "CHANLEN=50")
	applyToken(t, info, "EXCEPTS")

	assert.Equal(t, map[byte]int{'#': 25, '&': 25}, info.ChannelLimits())
	assert.Len(t, info.ChannelUserModes(), 5)
	assert.Equal(t, []byte("#"), info.ChannelPrefixes())
	name, ok := info.NetworkName()
	assert.True(t, ok)
	assert.Equal(t, "KittehNet", name)
	assert.True(t, info.HasWhoXSupport())
	assert.Equal(t, 50, info.ChannelLengthLimit())

	params := info.ISupportParameters()
	assert.Equal(t, "KittehNet", params["NETWORK"])
	assert.Contains(t, params, "EXCEPTS")
	assert.Equal(t, "", params["WHOX"])
}

func TestApplyRemovalRestoresDefaults(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "NICKLEN=30")
	applyToken(t, info, "CHANTYPES=#")
	applyToken(t, info, "WHOX")
	applyToken(t, info, "NETWORK=KittehNet")
	applyToken(t, info, "CHANMODES=b,k,l,m")

	for _, token := range []string{"-NICKLEN", "-CHANTYPES", "-WHOX", "-NETWORK", "-CHANMODES"} {
		applyToken(t, info, token)
	}

	assert.Equal(t, -1, info.NickLengthLimit())
	assert.Equal(t, []byte("#&!+"), info.ChannelPrefixes())
	assert.False(t, info.HasWhoXSupport())
	_, ok := info.NetworkName()
	assert.False(t, ok)
	assert.Equal(t, modes.DefaultTable(), info.ChannelModes())
	assert.Empty(t, info.ISupportParameters())
}

func TestSettersRejectAbsent(t *testing.T) {
	info := newServerInfo()
	assert.ErrorIs(t, info.setChannelPrefixes(nil), ErrArgument)
	assert.ErrorIs(t, info.setChannelPrefixes([]byte{}), ErrArgument)
	assert.ErrorIs(t, info.setChannelModes(nil), ErrArgument)
	assert.ErrorIs(t, info.setChannelUserModes(nil), ErrArgument)
	assert.ErrorIs(t, info.setChannelLimits(nil), ErrArgument)
	assert.ErrorIs(t, info.setMOTD(nil), ErrArgument)
	assert.Equal(t, []byte("#&!+"), info.ChannelPrefixes())
}

func TestGettersReturnSnapshots(t *testing.T) {
	info := newServerInfo()
	require.NoError(t, info.setMOTD([]string{"line one"}))
	require.NoError(t, info.setChannelLimits(map[byte]int{'#': 10}))
	applyToken(t, info, "NETWORK=KittehNet")

	prefixes := info.ChannelPrefixes()
	prefixes[0] = 'X'
	assert.Equal(t, byte('#'), info.ChannelPrefixes()[0])

	userModes := info.ChannelUserModes()
	userModes[0].Prefix = '!'
	assert.Equal(t, byte('@'), info.ChannelUserModes()[0].Prefix)

	table := info.ChannelModes()
	delete(table, 'b')
	table['Q'] = modes.List
	_, ok := info.ChannelModeType('b')
	assert.True(t, ok)
	_, ok = info.ChannelModeType('Q')
	assert.False(t, ok)

	limits := info.ChannelLimits()
	limits['#'] = 99
	assert.Equal(t, 10, info.ChannelLimits()['#'])

	motd := info.MOTD()
	motd[0] = "changed"
	assert.Equal(t, "line one", info.MOTD()[0])

	params := info.ISupportParameters()
	params["NETWORK"] = "Other"
	assert.Equal(t, "KittehNet", info.ISupportParameters()["NETWORK"])
}

func TestSettersCopyInput(t *testing.T) {
	info := newServerInfo()
	in := []byte("#&")
	require.NoError(t, info.setChannelPrefixes(in))
	in[0] = 'X'
	assert.Equal(t, []byte("#&"), info.ChannelPrefixes())
}
