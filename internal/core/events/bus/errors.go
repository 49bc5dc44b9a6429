package bus

import "errors"

var (
	ErrNilHandler   = errors.New("bus: nil handler")
	ErrEmptyType    = errors.New("bus: empty event type")
	ErrUnknownEvent = errors.New("bus: nil event")
)
