package host

import "errors"

var (
	ErrNilEngine        = errors.New("host: nil engine")
	ErrUnknownCommand   = errors.New("host: unknown command")
	ErrCommandQueueFull = errors.New("host: command queue full")
	ErrInvalidTickRate  = errors.New("host: tick rate must be positive")
)
