package irc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// feed dispatches raw wire lines in order and returns the last event.
func feed(t *testing.T, s *Session, lines ...string) *RawEvent {
	t.Helper()
	var e *RawEvent
	for _, line := range lines {
		var err error
		e, err = s.HandleLine(line)
		require.NoError(t, err, line)
	}
	return e
}

func isupportLine(tokens ...string) string {
	return ":irc.example.net 005 kitteh " + strings.Join(tokens, " ") + " :are supported by this server"
}
