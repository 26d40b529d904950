package mask

import (
	"bytes"
	"regexp"
	"sync"

	"github.com/ergochat/irc-go/ircmsg"
)

// compiled patterns, shared by every mask using the same literal
var globCache sync.Map

func compileGlob(glob string) *regexp.Regexp {
	if re, ok := globCache.Load(glob); ok {
		return re.(*regexp.Regexp)
	}
	var buf bytes.Buffer
	buf.WriteString("^(?s)")
	for _, r := range glob {
		switch r {
		case '*':
			buf.WriteString(".*")
		case '?':
			buf.WriteString(".")
		default:
			buf.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	buf.WriteByte('$')
	// every non-wildcard rune is quoted, so this cannot fail
	re := regexp.MustCompile(buf.String())
	actual, _ := globCache.LoadOrStore(glob, re)
	return actual.(*regexp.Regexp)
}

func globMatch(glob, s string) bool {
	return compileGlob(glob).MatchString(s)
}

// NickMask matches the nickname segment with * and ? wildcards.
type NickMask struct {
	nick string
}

func NickMaskFromNick(nick string) (NickMask, error) {
	if nick == "" {
		return NickMask{}, ErrArgument
	}
	return NickMask{nick: nick}, nil
}

func (m NickMask) Nick() string { return m.nick }

func (m NickMask) Test(nick string) bool { return globMatch(m.nick, nick) }

func (m NickMask) TestUser(user ircmsg.NUH) bool { return globMatch(m.nick, user.Name) }

func (m NickMask) String() string { return render(m.nick, "", "") }

// UserMask matches the username segment with * and ? wildcards.
type UserMask struct {
	user string
}

func UserMaskFromUser(user string) (UserMask, error) {
	if user == "" {
		return UserMask{}, ErrArgument
	}
	return UserMask{user: user}, nil
}

func (m UserMask) User() string { return m.user }

func (m UserMask) Test(user string) bool { return globMatch(m.user, user) }

func (m UserMask) TestUser(user ircmsg.NUH) bool { return globMatch(m.user, user.User) }

func (m UserMask) String() string { return render("", m.user, "") }

// FullMask matches all three segments of nick!user@host with wildcards.
// Missing segments are stored as *.
type FullMask struct {
	nick, user, host string
}

// FullMaskFromString parses a nick!user@host pattern.
func FullMaskFromString(pattern string) (FullMask, error) {
	if pattern == "" {
		return FullMask{}, ErrArgument
	}
	nuh, err := ircmsg.ParseNUH(pattern)
	if err != nil {
		return FullMask{}, err
	}
	return FullMaskFromParts(nuh.Name, nuh.User, nuh.Host), nil
}

// FullMaskFromParts builds a mask from segments; empty segments match anything.
func FullMaskFromParts(nick, user, host string) FullMask {
	if nick == "" {
		nick = Wildcard
	}
	if user == "" {
		user = Wildcard
	}
	if host == "" {
		host = Wildcard
	}
	return FullMask{nick: nick, user: user, host: host}
}

// Test parses identity as nick!user@host and matches each segment.
func (m FullMask) Test(identity string) bool {
	nuh, err := ircmsg.ParseNUH(identity)
	if err != nil {
		return false
	}
	return m.TestUser(nuh)
}

func (m FullMask) TestUser(user ircmsg.NUH) bool {
	return globMatch(m.nick, user.Name) &&
		globMatch(m.user, user.User) &&
		globMatch(m.host, user.Host)
}

func (m FullMask) String() string { return render(m.nick, m.user, m.host) }
