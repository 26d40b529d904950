package irc

import (
	"strings"
	"testing"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalnet/ircstate/internal/config"
	"github.com/dalnet/ircstate/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Nick:     "kitteh",
		Username: "kitteh",
		IRCName:  "kitteh",
		Server:   "irc.example.net",
		Port:     6667,
		DataDir:  t.TempDir(),
	}
}

func TestNewSnapshot(t *testing.T) {
	s := NewSession()
	feed(t, s,
		":irc.example.net 001 kitteh :Welcome",
		":irc.example.net 004 kitteh irc.example.net ergo-2.11.0 BERTZios CEIMRUabefhiklmnoqstv",
		isupportLine("NICKLEN=30", "PREFIX=(qaohv)~&@%+", "CHANTYPES=#", "WHOX", "NETWORK=KittehNet"),
		":irc.example.net 375 kitteh :- MOTD -",
		":irc.example.net 372 kitteh :- hello",
		":irc.example.net 376 kitteh :End",
	)

	snap := NewSnapshot(s, "KittehNet")

	assert.Equal(t, "KittehNet", snap.Network)
	assert.Equal(t, "kitteh", snap.Nick)
	assert.Equal(t, "irc.example.net", snap.Address)
	assert.Equal(t, "ergo-2.11.0", snap.Version)
	assert.Equal(t, "rfc1459", snap.CaseMapping)
	assert.Equal(t, 30, snap.NickLengthLimit)
	assert.Equal(t, -1, snap.ChannelLengthLimit)
	assert.Equal(t, "#", snap.ChannelPrefixes)
	assert.Equal(t, "~&@%+", snap.StatusPrefixes)
	assert.True(t, snap.WhoX)
	assert.Len(t, snap.ISupport, 5)
	assert.Equal(t, []string{"- hello"}, snap.MOTD)
	assert.False(t, snap.SavedAt.IsZero())
}

func TestClientSavesSnapshotOnMOTD(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewClient(cfg)
	require.NoError(t, err)
	defer c.store.Close()

	for _, line := range []string{
		":irc.example.net 001 kitteh :Welcome",
		isupportLine("NETWORK=KittehNet", "NICKLEN=abc"),
		":irc.example.net 375 kitteh :- MOTD -",
		":irc.example.net 372 kitteh :- hello",
		":irc.example.net 376 kitteh :End",
	} {
		msg, err := ircmsg.ParseLine(line)
		require.NoError(t, err)
		c.onMessage(msg)
	}

	snap, err := c.store.Load("KittehNet")
	require.NoError(t, err)
	assert.Equal(t, "kitteh", snap.Nick)

	motd, err := storage.LoadMOTD(cfg.DataDir, "KittehNet")
	require.NoError(t, err)
	assert.Equal(t, []string{"- hello"}, motd)

	exceptions, err := storage.LoadExceptions(cfg.DataDir)
	require.NoError(t, err)
	require.Len(t, exceptions, 1)
	assert.Equal(t, "005", exceptions[0].Command)
	assert.Contains(t, exceptions[0].Error, "NICKLEN=abc")
}

func TestClientNetworkKey(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewClient(cfg)
	require.NoError(t, err)
	defer c.store.Close()

	assert.Equal(t, "irc.example.net", c.networkKey())

	c.session.Dispatch(ircmsg.MakeMessage(nil, "irc.example.net", "005", "kitteh", "NETWORK=KittehNet", "are supported by this server"))
	assert.Equal(t, "KittehNet", c.networkKey())

	cfg.Network = "Override"
	assert.Equal(t, "Override", c.networkKey())
}

func TestClientIgnore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ignore = []string{"*!*@spam.example", "badbot"}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	defer c.store.Close()

	spam := ircmsg.MakeMessage(nil, "anyone!u@spam.example", "PRIVMSG", "kitteh", "\x01VERSION\x01")
	bot := ircmsg.MakeMessage(nil, "badbot!u@host", "PRIVMSG", "kitteh", "\x01VERSION\x01")
	friend := ircmsg.MakeMessage(nil, "friend!u@host", "PRIVMSG", "kitteh", "\x01VERSION\x01")

	assert.True(t, c.ignored(&spam))
	assert.True(t, c.ignored(&bot))
	assert.False(t, c.ignored(&friend))
}

func TestClientRejectsEmptyIgnoreMask(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ignore = []string{""}
	_, err := NewClient(cfg)
	assert.Error(t, err)
}

func TestClientAnswersCtcpVersion(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ignore = []string{"*!*@spam.example"}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	defer c.store.Close()

	var sent []string
	c.send = func(line string) error {
		sent = append(sent, line)
		return nil
	}

	deliver := func(line string) {
		msg, err := ircmsg.ParseLine(line)
		require.NoError(t, err)
		c.conn.HandleMessage(msg)
	}

	deliver(":friend!u@host PRIVMSG kitteh :\x01VERSION\x01")
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0], "NOTICE friend :\x01VERSION ircstate "))

	deliver(":anyone!u@spam.example PRIVMSG kitteh :\x01VERSION\x01")
	deliver(":friend!u@host PRIVMSG kitteh :\x01PING 123\x01")
	deliver(":friend!u@host PRIVMSG kitteh :VERSION")
	assert.Len(t, sent, 1)
}

func TestCtcpCommand(t *testing.T) {
	for line, expected := range map[string]string{
		":a!b@c PRIVMSG kitteh :\x01VERSION\x01":   "VERSION",
		":a!b@c PRIVMSG kitteh :\x01version\x01":   "VERSION",
		":a!b@c PRIVMSG kitteh :\x01PING 42\x01":   "PING",
		":a!b@c PRIVMSG kitteh :\x01VERSION":        "VERSION",
		":a!b@c PRIVMSG kitteh :hello":              "",
		":a!b@c PRIVMSG kitteh :\x01\x01":           "",
	} {
		msg, err := ircmsg.ParseLine(line)
		require.NoError(t, err)
		assert.Equal(t, expected, ctcpCommand(&msg), line)
	}
}
