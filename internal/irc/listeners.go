package irc

import (
	"fmt"
	"math"

	"github.com/dalnet/ircstate/internal/isupport"
)

// DefaultListenerPriority places the built-in listeners ahead of anything an
// application registers at ordinary priorities.
const DefaultListenerPriority = math.MaxInt32 - 1

func (s *Session) registerDefaultListeners() {
	listeners := []Handler{
		{Name: "welcome", Numerics: []int{RplWelcome}, Func: s.onWelcome},
		{Name: "myinfo", Numerics: []int{RplMyInfo}, Func: s.onMyInfo},
		{Name: "isupport", Numerics: []int{RplISupport}, Func: s.onISupport},
		{Name: "motd-start", Numerics: []int{RplMOTDStart}, Func: s.onMOTDStart},
		{Name: "motd", Numerics: []int{RplMOTD}, Func: s.onMOTD},
		{Name: "motd-end", Numerics: []int{RplEndOfMOTD, ErrNoMOTD}, Func: s.onMOTDEnd},
		{Name: "nick", Command: "NICK", Func: s.onNick},
	}
	for _, h := range listeners {
		h.Priority = DefaultListenerPriority
		// cannot fail: every Func is set
		_ = s.Register(h)
	}
}

// 001 <nick> :Welcome to the network
func (s *Session) onWelcome(e *RawEvent) {
	if len(e.Message.Params) == 0 {
		e.TrackException(fmt.Errorf("%w: nickname missing from welcome message; can't confirm", ErrProtocolAnomaly))
		return
	}
	nick := e.Message.Params[0]
	s.setNick(nick)
	s.emit(&WelcomeEvent{eventBase: eventBase{s}, Nick: nick})
}

// :old!user@host NICK new
func (s *Session) onNick(e *RawEvent) {
	current := s.Nick()
	if current == "" || !s.info.CaseMapping().Equal(e.Message.Nick(), current) {
		return
	}
	if len(e.Message.Params) == 0 {
		e.TrackException(fmt.Errorf("%w: new nickname missing from NICK", ErrProtocolAnomaly))
		return
	}
	s.setNick(e.Message.Params[0])
}

// 004 <nick> <servername> <version> <usermodes> <chanmodes>
func (s *Session) onMyInfo(e *RawEvent) {
	if len(e.Message.Params) < 3 {
		e.TrackException(fmt.Errorf("%w: server name or version missing from RPL_MYINFO", ErrProtocolAnomaly))
		return
	}
	s.info.setAddress(e.Message.Params[1])
	s.info.setVersion(e.Message.Params[2])
}

// 005 <nick> <token>... :are supported by this server
func (s *Session) onISupport(e *RawEvent) {
	params := e.Message.Params
	if len(params) < 2 {
		e.TrackException(fmt.Errorf("%w: no tokens in RPL_ISUPPORT", ErrProtocolAnomaly))
		return
	}
	tokens := params[1:]
	// the last parameter is the human-readable trailer once any token precedes it
	if len(tokens) > 1 {
		tokens = tokens[:len(tokens)-1]
	}

	applied := make([]isupport.Parameter, 0, len(tokens))
	for _, token := range tokens {
		param, err := isupport.Parse(token)
		if err == nil {
			err = s.info.apply(param)
		}
		s.metrics.observeToken(err)
		if err != nil {
			e.TrackException(err)
			continue
		}
		applied = append(applied, param)
	}
	s.emit(&ISupportEvent{eventBase: eventBase{s}, Parameters: applied})
}

func (s *Session) onMOTDStart(e *RawEvent) {
	s.motd = []string{}
}

// 372 <nick> :- <line>
func (s *Session) onMOTD(e *RawEvent) {
	params := e.Message.Params
	if len(params) < 2 {
		e.TrackException(fmt.Errorf("%w: text missing from RPL_MOTD", ErrProtocolAnomaly))
		return
	}
	s.motd = append(s.motd, params[len(params)-1])
}

// 376 ends a MOTD; 422 means there is none.
func (s *Session) onMOTDEnd(e *RawEvent) {
	lines := s.motd
	if code, _ := e.Numeric(); code == ErrNoMOTD || lines == nil {
		lines = []string{}
	}
	s.motd = nil
	if err := s.info.setMOTD(lines); err != nil {
		e.TrackException(err)
		return
	}
	s.emit(&MOTDEvent{eventBase: eventBase{s}, Lines: append([]string{}, lines...)})
}
