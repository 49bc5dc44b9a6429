package host

import "time"

// Clock supplies monotonic engine time in milliseconds.
type Clock interface {
	NowMs() int64
}

type wallClock struct {
	start time.Time
}

// NewWallClock counts milliseconds from its creation.
func NewWallClock() Clock {
	return &wallClock{start: time.Now()}
}

func (c *wallClock) NowMs() int64 {
	return time.Since(c.start).Milliseconds()
}
