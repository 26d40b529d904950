package irc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalnet/ircstate/internal/modes"
)

func TestIsValidChannel(t *testing.T) {
	info := newServerInfo()

	assert.True(t, info.IsValidChannel("#a"))
	assert.True(t, info.IsValidChannel("&local"))
	assert.True(t, info.IsValidChannel("#"+strings.Repeat("a", 500)), "no CHANLEN means no length bound")

	for _, bad := range []string{"", "#", "a", "ab", "#with space", "#a,b", "#bell\x07", "#cr\r", "#lf\n"} {
		assert.False(t, info.IsValidChannel(bad), "%q", bad)
	}
}

func TestIsValidChannelWithLength(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "CHANLEN=50")

	assert.True(t, info.IsValidChannel("#a"))
	assert.True(t, info.IsValidChannel("#"+strings.Repeat("a", 49)))
	assert.False(t, info.IsValidChannel("#"+strings.Repeat("a", 50)))
	assert.False(t, info.IsValidChannel("#"+strings.Repeat("a", 500)))
}

func TestIsValidChannelFollowsChanTypes(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "CHANTYPES=#")

	assert.True(t, info.IsValidChannel("#chan"))
	assert.False(t, info.IsValidChannel("&chan"))
}

func TestTargetedChannelInfo(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "PREFIX=(ov)@+")

	mode, ok := info.TargetedChannelInfo("+#test")
	require.True(t, ok)
	assert.Equal(t, modes.UserMode{Mode: 'v', Prefix: '+'}, mode)

	mode, ok = info.TargetedChannelInfo("@#test")
	require.True(t, ok)
	assert.Equal(t, byte('o'), mode.Mode)

	_, ok = info.TargetedChannelInfo("#test")
	assert.False(t, ok)
	_, ok = info.TargetedChannelInfo("%#test")
	assert.False(t, ok, "halfop is not advertised")
	_, ok = info.TargetedChannelInfo("@nick")
	assert.False(t, ok)
	_, ok = info.TargetedChannelInfo("@")
	assert.False(t, ok)
	_, ok = info.TargetedChannelInfo("")
	assert.False(t, ok)

	assert.True(t, info.IsTargetedChannel("@#test"))
	assert.False(t, info.IsTargetedChannel("#test"))
}

func TestTargetedChannelInfoExtendedPrefix(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "CHANTYPES=#")
	applyToken(t, info, "PREFIX=(qaohv)~&@%+")

	mode, ok := info.TargetedChannelInfo("%#ops")
	require.True(t, ok)
	assert.Equal(t, byte('h'), mode.Mode)

	mode, ok = info.TargetedChannelInfo("&#ops")
	require.True(t, ok)
	assert.Equal(t, byte('a'), mode.Mode)
}

func TestTargetedChannelInfoChannelPrefixes(t *testing.T) {
	info := newServerInfo()
	applyToken(t, info, "PREFIX=(qaohv)~&@%+")

	_, ok := info.TargetedChannelInfo("&#chan")
	assert.False(t, ok, "& is a local channel prefix")
	_, ok = info.TargetedChannelInfo("++chan")
	assert.False(t, ok, "++chan is a channel, not a voice target")

	mode, ok := info.TargetedChannelInfo("+#chan")
	require.True(t, ok)
	assert.Equal(t, byte('v'), mode.Mode)

	mode, ok = info.TargetedChannelInfo("@&chan")
	require.True(t, ok, "op-targeted local channel")
	assert.Equal(t, byte('o'), mode.Mode)
}
