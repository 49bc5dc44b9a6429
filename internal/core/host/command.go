package host

import "github.com/zeusync/bumparena/internal/core/arena"

type CommandKind string

const (
	CommandInput   CommandKind = "input"
	CommandPause   CommandKind = "pause"
	CommandRestart CommandKind = "restart"
)

// Command is a request from a controller, applied at the start of the next step.
type Command struct {
	Kind  CommandKind `json:"type"`
	Input arena.Input `json:"input"`
}

func (c Command) Validate() error {
	switch c.Kind {
	case CommandInput, CommandPause, CommandRestart:
		return nil
	default:
		return ErrUnknownCommand
	}
}

// Frame is what the host emits after each step.
type Frame struct {
	Tick    uint64         `json:"tick"`
	At      int64          `json:"at"`
	State   arena.Snapshot `json:"state"`
	Effects []arena.Effect `json:"effects,omitempty"`
}
