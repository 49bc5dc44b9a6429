package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// seqRand replays a fixed sequence of values, cycling when exhausted.
type seqRand struct {
	vals  []float64
	draws int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.draws%len(s.vals)]
	s.draws++
	return v
}

func newTestEngine(t *testing.T, r Rand, mutate func(*Tuning)) *Engine {
	t.Helper()
	tuning := DefaultTuning()
	if mutate != nil {
		mutate(&tuning)
	}
	if r == nil {
		r = NewRand(1)
	}
	e, err := NewEngine(tuning, 0, WithRand(r))
	require.NoError(t, err)
	e.DrainEffects()
	return e
}

func countEffects(effects []Effect, kind EffectKind) int {
	n := 0
	for _, e := range effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
