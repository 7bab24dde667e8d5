package exception

import "github.com/yanun0323/errors"

// General errors
var (
	ErrNotFound          = errors.New("not found")
	ErrFormat            = errors.New("malformed input")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInvalidArgument   = errors.New("invalid argument")
)
