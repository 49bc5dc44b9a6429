package injector

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/bumparena/internal/config"
	"github.com/zeusync/bumparena/internal/core/arena"
	"github.com/zeusync/bumparena/internal/core/events/bus"
	"github.com/zeusync/bumparena/internal/core/host"
)

func testSettings() config.Settings {
	return config.Settings{
		ListenAddr: "127.0.0.1:0",
		MaxClients: 4,
		LogLevel:   "error",
		TickRate:   100,
		MatchID:    "injector-test",
		Autopilot:  true,
	}
}

func TestInitializeAppWiresEverything(t *testing.T) {
	app, err := InitializeApp(testSettings())
	require.NoError(t, err)
	require.NotNil(t, app.Host())
	require.NotNil(t, app.Server())

	engine := app.Host().Engine()
	assert.Len(t, engine.AIVehicles(), arena.DefaultTuning().AICount)
	assert.Equal(t, arena.DefaultTuning().GameDurationSeconds, engine.Match().TimeLeftSeconds)
}

func TestInitializeAppRejectsBadTuningFile(t *testing.T) {
	s := testSettings()
	s.TuningFile = "/nonexistent/tuning.yaml"
	_, err := InitializeApp(s)
	assert.Error(t, err)
}

func TestSameMatchIDReplaysSpawns(t *testing.T) {
	a, err := InitializeApp(testSettings())
	require.NoError(t, err)
	b, err := InitializeApp(testSettings())
	require.NoError(t, err)

	av, bv := a.Host().Engine().AIVehicles(), b.Host().Engine().AIVehicles()
	require.Equal(t, len(av), len(bv))
	for i := range av {
		assert.Equal(t, av[i].Pos, bv[i].Pos)
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	app, err := InitializeApp(testSettings())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return app.Server().Addr() != nil }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + app.Server().Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.Host().Submit(host.Command{Kind: host.CommandPause}))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, app.Server().IsRunning())
}

func TestGameOverHandlerIgnoresForeignPayloads(t *testing.T) {
	app, err := InitializeApp(testSettings())
	require.NoError(t, err)

	assert.NoError(t, app.onGameOver(bus.NewEvent(string(arena.EffectGameOver), "test", "not an effect")))
	assert.NoError(t, app.onGameOver(bus.NewEvent(string(arena.EffectGameOver), "test", arena.Effect{Kind: arena.EffectGameOver, Value: 4})))
}
