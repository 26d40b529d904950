package irc

import (
	"github.com/ergochat/irc-go/ircmsg"

	"github.com/dalnet/ircstate/internal/isupport"
	"github.com/dalnet/ircstate/internal/mask"
)

// Event is implemented by every event a Session produces.
type Event interface {
	// Session is the session the event occurred on.
	Session() *Session
	event()
}

// ExceptionTracker is implemented by events that collect non-fatal
// processing errors.
type ExceptionTracker interface {
	Event
	TrackException(err error)
	Exceptions() []error
}

var _ ExceptionTracker = (*RawEvent)(nil)

type eventBase struct {
	session *Session
}

func (e eventBase) Session() *Session { return e.session }

func (eventBase) event() {}

// RawEvent is one inbound protocol message as handed to handlers.
type RawEvent struct {
	eventBase

	Message ircmsg.Message
	numeric int
	// false for named commands such as PRIVMSG
	isNumeric bool

	exceptions []error
}

func newRawEvent(s *Session, msg ircmsg.Message) *RawEvent {
	e := &RawEvent{eventBase: eventBase{session: s}, Message: msg}
	e.numeric, e.isNumeric = parseNumeric(msg.Command)
	return e
}

// parseNumeric accepts exactly three ASCII digits.
func parseNumeric(command string) (int, bool) {
	if len(command) != 3 {
		return 0, false
	}
	n := 0
	for i := 0; i < 3; i++ {
		c := command[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func (e *RawEvent) Command() string { return e.Message.Command }

// Numeric returns the reply code; ok is false for named commands.
func (e *RawEvent) Numeric() (code int, ok bool) { return e.numeric, e.isNumeric }

// Params returns a copy of the message parameters.
func (e *RawEvent) Params() []string { return append([]string{}, e.Message.Params...) }

// TrackException records a non-fatal error against this event.
func (e *RawEvent) TrackException(err error) {
	if err == nil {
		return
	}
	e.exceptions = append(e.exceptions, err)
}

func (e *RawEvent) Exceptions() []error { return append([]error(nil), e.exceptions...) }

// SourceMatches reports whether the message source matches m. Messages
// without a source never match.
func (e *RawEvent) SourceMatches(m mask.Mask) bool {
	return sourceMatches(&e.Message, m)
}

func sourceMatches(msg *ircmsg.Message, m mask.Mask) bool {
	if msg.Source == "" {
		return false
	}
	nuh, err := msg.NUH()
	if err != nil {
		return false
	}
	return m.TestUser(nuh)
}

// ConnectionEstablishedEvent fires once the transport is connected, before
// registration completes.
type ConnectionEstablishedEvent struct {
	eventBase
}

// WelcomeEvent fires when RPL_WELCOME confirms our nickname.
type WelcomeEvent struct {
	eventBase
	Nick string
}

// ISupportEvent carries the records from one RPL_ISUPPORT line that were
// parsed and applied.
type ISupportEvent struct {
	eventBase
	Parameters []isupport.Parameter
}

// MOTDEvent fires when a complete message of the day has been received.
// Lines is empty for ERR_NOMOTD.
type MOTDEvent struct {
	eventBase
	Lines []string
}
