package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/zeusync/bumparena/internal/core/arena"

// Collision kinds reported on arena.collisions.
const (
	CollisionWall     = "wall"
	CollisionPlayerAI = "player_ai"
	CollisionAIAI     = "ai_ai"
)

// Respawn reasons reported on arena.respawns.
const (
	RespawnStuck  = "stuck"
	RespawnReseed = "reseed"
)

// Instruments groups the engine counters. A nil *Instruments is valid and
// records nothing.
type Instruments struct {
	score      metric.Int64Counter
	collisions metric.Int64Counter
	respawns   metric.Int64Counter
}

// New creates the counters from the global meter provider.
func New() (*Instruments, error) {
	return NewFromMeter(otel.Meter(instrumentationName))
}

func NewFromMeter(m metric.Meter) (*Instruments, error) {
	var (
		in  Instruments
		err error
	)

	in.score, err = m.Int64Counter(
		"arena.score",
		metric.WithDescription("Points awarded for ramming AI vehicles"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating score counter: %w", err)
	}

	in.collisions, err = m.Int64Counter(
		"arena.collisions",
		metric.WithDescription("Resolved collisions by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collisions counter: %w", err)
	}

	in.respawns, err = m.Int64Counter(
		"arena.respawns",
		metric.WithDescription("AI vehicle respawns by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating respawns counter: %w", err)
	}

	return &in, nil
}

func (in *Instruments) Scored() {
	if in == nil {
		return
	}
	in.score.Add(context.Background(), 1)
}

func (in *Instruments) Collision(kind string) {
	if in == nil {
		return
	}
	in.collisions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (in *Instruments) Respawn(reason string) {
	if in == nil {
		return
	}
	in.respawns.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}
