package mask

import (
	"fmt"

	"github.com/ergochat/irc-go/ircmsg"
)

// HostMask matches a single host by exact equality. Unlike the other masks it
// does not expand wildcards; it exists for filtering one known host.
type HostMask struct {
	host string
}

// HostMaskFromHost returns a mask matching host.
func HostMaskFromHost(host string) (HostMask, error) {
	if host == "" {
		return HostMask{}, fmt.Errorf("%w: host", ErrArgument)
	}
	return HostMask{host: host}, nil
}

// HostMaskFromUser returns a mask matching the host of user.
func HostMaskFromUser(user ircmsg.NUH) (HostMask, error) {
	if user.Host == "" {
		return HostMask{}, fmt.Errorf("%w: user host", ErrArgument)
	}
	return HostMask{host: user.Host}, nil
}

// Host returns the host matched.
func (m HostMask) Host() string {
	return m.host
}

func (m HostMask) Test(host string) bool {
	return host == m.host
}

func (m HostMask) TestUser(user ircmsg.NUH) bool {
	return user.Host == m.host
}

func (m HostMask) String() string {
	return render("", "", m.host)
}
