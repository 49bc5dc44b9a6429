package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/bumparena/internal/config"
	"github.com/zeusync/bumparena/internal/core/arena"
	"github.com/zeusync/bumparena/internal/core/events/bus"
	"github.com/zeusync/bumparena/internal/core/host"
	"github.com/zeusync/bumparena/internal/core/observability/log"
	"github.com/zeusync/bumparena/internal/core/observability/metrics"
	"github.com/zeusync/bumparena/internal/server"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideMetrics,
	ProvideTuning,
	ProvideClock,
	ProvideEngine,
	ProvideBus,
	ProvideHost,
	wire.Bind(new(server.Controller), new(*host.Host)),
	ProvideServerConfig,
	ProvideServer,
	NewApp,
)

func ProvideLogger(settings config.Settings) *log.Logger {
	return log.New(settings.Level())
}

func ProvideMetrics() (*metrics.Instruments, error) {
	return metrics.New()
}

func ProvideTuning(settings config.Settings) (arena.Tuning, error) {
	return settings.Tuning()
}

func ProvideClock() host.Clock {
	return host.NewWallClock()
}

func ProvideEngine(
	tuning arena.Tuning,
	settings config.Settings,
	clock host.Clock,
	logger log.Log,
	instruments *metrics.Instruments,
) (*arena.Engine, error) {
	return arena.NewEngine(tuning, clock.NowMs(),
		arena.WithRand(arena.NewRand(settings.RandSeed())),
		arena.WithLogger(logger.With(log.String("match_id", settings.MatchID))),
		arena.WithMetrics(instruments),
	)
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideHost(
	engine *arena.Engine,
	settings config.Settings,
	clock host.Clock,
	logger log.Log,
	eventBus bus.EventBus,
) (*host.Host, error) {
	return host.New(engine,
		host.WithClock(clock),
		host.WithLogger(logger),
		host.WithBus(eventBus),
		host.WithAutopilot(settings.Autopilot),
	)
}

func ProvideServerConfig(settings config.Settings) server.Config {
	cfg := server.DefaultServerConfig()
	cfg.ListenAddr = settings.ListenAddr
	cfg.MaxClients = settings.MaxClients
	return cfg
}

func ProvideServer(cfg server.Config, controller server.Controller, logger log.Log) (*server.Server, error) {
	return server.NewServer(cfg, controller, logger)
}
