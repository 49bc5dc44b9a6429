package injector

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/bumparena/internal/config"
	"github.com/zeusync/bumparena/internal/core/arena"
	"github.com/zeusync/bumparena/internal/core/events/bus"
	"github.com/zeusync/bumparena/internal/core/host"
	"github.com/zeusync/bumparena/internal/core/observability/log"
	"github.com/zeusync/bumparena/internal/server"
)

const shutdownTimeout = 5 * time.Second

// App runs the simulation loop and the websocket server under one context.
type App struct {
	settings config.Settings
	logger   *log.Logger
	host     *host.Host
	server   *server.Server
	bus      bus.EventBus
}

func NewApp(settings config.Settings, logger *log.Logger, h *host.Host, srv *server.Server, eventBus bus.EventBus) *App {
	return &App{
		settings: settings,
		logger:   logger,
		host:     h,
		server:   srv,
		bus:      eventBus,
	}
}

func (a *App) Host() *host.Host { return a.host }

func (a *App) Server() *server.Server { return a.server }

// Run blocks until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	sub, err := a.bus.Subscribe(string(arena.EffectGameOver), a.onGameOver)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Cancel() }()

	if err := a.server.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = a.server.Close() }()

	a.logger.Info("Arena running",
		log.String("match_id", a.settings.MatchID),
		log.String("listen_addr", a.settings.ListenAddr),
		log.Int("tick_rate", a.settings.TickRate))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.host.Run(gctx, a.settings.TickRate)
	})

	g.Go(func() error {
		return a.server.Pump(gctx, a.host.Frames())
	})

	g.Go(func() error {
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Stop(stopCtx); err != nil && !errors.Is(err, server.ErrServerNotRunning) {
			return err
		}
		return nil
	})

	err = g.Wait()
	_ = a.logger.Sync()
	return err
}

func (a *App) onGameOver(event bus.Event) error {
	effect, ok := event.Data().(arena.Effect)
	if !ok {
		return nil
	}
	a.logger.Info("Match over",
		log.String("match_id", a.settings.MatchID),
		log.Int("score", int(effect.Value)))
	return nil
}
