package irc

// Numerics the default listeners consume.
const (
	RplWelcome   = 1
	RplMyInfo    = 4
	RplISupport  = 5
	RplMOTD      = 372
	RplMOTDStart = 375
	RplEndOfMOTD = 376
	ErrNoMOTD    = 422
)
