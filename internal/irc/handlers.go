package irc

// This file documents the built-in listeners. The implementations live in:
// - listeners.go: numeric handlers that keep ServerInfo and the nickname current
// - client.go: transport callbacks, snapshot persistence, CTCP

/*
Handler Summary:

All built-in listeners run at DefaultListenerPriority, ahead of handlers an
application registers at ordinary priorities.

Registration:
- 001 (onWelcome): RPL_WELCOME
  - First parameter becomes the confirmed nickname
  - Missing nickname is tracked as a protocol anomaly; the old nick is kept
- 004 (onMyInfo): RPL_MYINFO
  - Records server name (address) and version
- NICK (onNick): Our own nick change
  - Moves the confirmed nickname, compared under the session case mapping

Negotiation:
- 005 (onISupport): RPL_ISUPPORT
  - Parses each token on its own; a bad token is tracked and skipped
  - Applies parsed records to ServerInfo; -KEY restores the default
  - Emits ISupportEvent with the records that were applied

Message of the Day:
- 375 (onMOTDStart): RPL_MOTDSTART - resets the accumulator
- 372 (onMOTD): RPL_MOTD - appends the line verbatim
- 376/422 (onMOTDEnd): RPL_ENDOFMOTD / ERR_NOMOTD
  - Stores the MOTD on ServerInfo, emits MOTDEvent
  - Client saves a capability snapshot

CTCP:
- CTCP_VERSION: Responds with version information
*/
