package exception

import "github.com/yanun0323/errors"

var (
	ErrEmptyBook         = errors.New("order book: empty side")
	ErrInvalidTransition = errors.New("inquiry: invalid state transition")
	ErrUnknownBackend    = errors.New("historical: unknown backend")
)

// Journal errors
var (
	ErrJournalChecksum     = errors.New("journal: checksum mismatch")
	ErrJournalMagic        = errors.New("journal: invalid magic")
	ErrJournalVersion      = errors.New("journal: unsupported record version")
	ErrJournalHeaderSize   = errors.New("journal: invalid header size")
	ErrJournalPayloadLarge = errors.New("journal: payload too large")
	ErrJournalClosed       = errors.New("journal: writer closed")
)
