package irc

import (
	"crypto/tls"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ergochat/irc-go/ircevent"
	"github.com/ergochat/irc-go/ircmsg"

	"github.com/dalnet/ircstate/internal/config"
	"github.com/dalnet/ircstate/internal/mask"
	"github.com/dalnet/ircstate/internal/storage"
)

// Version information (set at build time or here)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Client binds a live IRC connection to a Session and persists what the
// session learns.
type Client struct {
	conn    *ircevent.Connection
	cfg     *config.Config
	session *Session
	store   *storage.SnapshotStore
	ignore  []mask.Mask
	send    func(string) error

	mu         sync.Mutex
	exceptions []storage.ExceptionEntry
	closed     bool
}

// NewClient creates a new IRC client
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	c := &Client{
		cfg:     cfg,
		session: NewSession(opts...),
	}

	for _, pattern := range cfg.Ignore {
		m, err := mask.Parse(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore mask %q: %w", pattern, err)
		}
		c.ignore = append(c.ignore, m)
	}

	var err error
	c.exceptions, err = storage.LoadExceptions(cfg.DataDir)
	if err != nil {
		log.Printf("Warning: could not load exception log: %v", err)
	}

	c.store, err = storage.OpenSnapshotStore(filepath.Join(cfg.DataDir, "snapshots.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	c.conn = &ircevent.Connection{
		Server:      fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
		Nick:        cfg.Nick,
		User:        cfg.Username,
		RealName:    cfg.IRCName,
		Password:    cfg.ServerPass,
		QuitMessage: "Shutting down",
		UseTLS:      cfg.UseTLS,
		TLSConfig:   &tls.Config{ServerName: cfg.Server},
	}
	c.send = c.conn.SendRaw

	if err := c.session.Register(Handler{Name: "ctcp-version", Command: "PRIVMSG", Func: c.onCtcpVersion}); err != nil {
		return nil, err
	}

	c.session.Subscribe(c.onEvent)
	c.session.OnException(c.onException)

	c.registerHandlers()

	return c, nil
}

// registerHandlers asks the connection for every command the session's
// dispatch table consumes. EnableCTCP stays off, so CTCP requests reach the
// session as plain PRIVMSGs.
func (c *Client) registerHandlers() {
	for _, cmd := range c.session.Commands() {
		c.conn.AddCallback(cmd, c.onMessage)
	}
}

// Session returns the session this client feeds.
func (c *Client) Session() *Session {
	return c.session
}

// Connect initiates the IRC connection
func (c *Client) Connect() error {
	if err := c.conn.Connect(); err != nil {
		return err
	}
	c.session.Connected()
	return nil
}

// Loop runs the IRC event loop (blocking)
func (c *Client) Loop() {
	c.conn.Loop()
}

// Quit disconnects from IRC and closes the snapshot store.
func (c *Client) Quit(message string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.conn.QuitMessage = message
	c.conn.Quit()
	if err := c.store.Close(); err != nil {
		log.Printf("Error closing snapshot store: %v", err)
	}
}

func (c *Client) onMessage(e ircmsg.Message) {
	c.session.Dispatch(e)
}

func (c *Client) onEvent(e Event) {
	switch ev := e.(type) {
	case *ConnectionEstablishedEvent:
		log.Println("Connected to IRC server")
	case *WelcomeEvent:
		log.Printf("Registered as %s", ev.Nick)
	case *ISupportEvent:
		log.Printf("Applied %d ISUPPORT parameters", len(ev.Parameters))
	case *MOTDEvent:
		c.saveSnapshot()
	}
}

func (c *Client) onException(e *RawEvent, err error) {
	entry := storage.ExceptionEntry{
		Time:    time.Now().UTC(),
		Command: e.Command(),
		Error:   err.Error(),
	}

	c.mu.Lock()
	c.exceptions = storage.AddException(c.exceptions, entry)
	exceptions := c.exceptions
	c.mu.Unlock()

	if err := storage.SaveExceptions(c.cfg.DataDir, exceptions); err != nil {
		log.Printf("Error saving exception log: %v", err)
	}
}

// ignored reports whether msg comes from a sender on the ignore list.
func (c *Client) ignored(msg *ircmsg.Message) bool {
	for _, m := range c.ignore {
		if sourceMatches(msg, m) {
			return true
		}
	}
	return false
}

func (c *Client) onCtcpVersion(e *RawEvent) {
	if ctcpCommand(&e.Message) != "VERSION" || c.ignored(&e.Message) {
		return
	}
	nick := e.Message.Nick()
	reply := fmt.Sprintf("ircstate %s (built %s, commit %s)", Version, BuildDate, GitCommit)
	if err := c.send(fmt.Sprintf("NOTICE %s :\x01VERSION %s\x01", nick, reply)); err != nil {
		log.Printf("Error answering CTCP VERSION from %s: %v", nick, err)
	}
}

// ctcpCommand returns the upper-cased CTCP command carried by a PRIVMSG, or
// "" when the message is not a CTCP request.
func ctcpCommand(msg *ircmsg.Message) string {
	if len(msg.Params) != 2 || !strings.HasPrefix(msg.Params[1], "\x01") {
		return ""
	}
	body := strings.TrimSuffix(msg.Params[1][1:], "\x01")
	cmd, _, _ := strings.Cut(body, " ")
	return strings.ToUpper(cmd)
}

// networkKey names the snapshot: the configured network, else NETWORK,
// else the server we dialed.
func (c *Client) networkKey() string {
	if c.cfg.Network != "" {
		return c.cfg.Network
	}
	if name, ok := c.session.ServerInfo().NetworkName(); ok {
		return name
	}
	return c.cfg.Server
}

func (c *Client) saveSnapshot() {
	network := c.networkKey()
	snap := NewSnapshot(c.session, network)
	if err := c.store.Save(snap); err != nil {
		log.Printf("Error saving snapshot for %s: %v", network, err)
		return
	}
	if err := storage.SaveMOTD(c.cfg.DataDir, network, snap.MOTD); err != nil {
		log.Printf("Error saving MOTD for %s: %v", network, err)
	}
	log.Printf("Saved capability snapshot for %s (%d ISUPPORT parameters)", network, len(snap.ISupport))
}

// NewSnapshot copies the session's current state into a storable record.
func NewSnapshot(s *Session, network string) storage.Snapshot {
	info := s.ServerInfo()
	address, _ := info.Address()
	version, _ := info.Version()

	var userModes strings.Builder
	for _, m := range info.ChannelUserModes() {
		userModes.WriteByte(m.Prefix)
	}

	return storage.Snapshot{
		Network:            network,
		Nick:               s.Nick(),
		Address:            address,
		Version:            version,
		CaseMapping:        info.CaseMapping().String(),
		NickLengthLimit:    info.NickLengthLimit(),
		ChannelLengthLimit: info.ChannelLengthLimit(),
		ChannelPrefixes:    string(info.ChannelPrefixes()),
		StatusPrefixes:     userModes.String(),
		WhoX:               info.HasWhoXSupport(),
		ISupport:           info.ISupportParameters(),
		MOTD:               info.MOTD(),
		SavedAt:            time.Now().UTC(),
	}
}
