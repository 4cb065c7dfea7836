// Package injector assembles the server from its configuration.
package injector

import (
	"errors"

	"github.com/google/wire"

	"github.com/zeusync/voxelphys/internal/config"
	"github.com/zeusync/voxelphys/internal/core/events/bus"
	"github.com/zeusync/voxelphys/internal/core/level"
	"github.com/zeusync/voxelphys/internal/core/observability/log"
	"github.com/zeusync/voxelphys/internal/core/scene"
	"github.com/zeusync/voxelphys/internal/core/systems/physics"
	"github.com/zeusync/voxelphys/internal/server"
)

var ErrNoLevel = errors.New("no level file configured")

// App holds every long-lived component.
type App struct {
	Config config.Config
	Logger *log.Logger
	Events bus.EventBus
	Level  *level.Level
	System *physics.System
	Scene  *scene.Scene
	Server *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideEventBus,
	ProvideLevel,
	ProvideSystem,
	ProvideScene,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) *log.Logger {
	return log.New(cfg.LogLevel())
}

func ProvideEventBus() bus.EventBus {
	return bus.New()
}

func ProvideLevel(cfg config.Config) (*level.Level, error) {
	if cfg.Scene.Level == "" {
		return nil, ErrNoLevel
	}
	return level.LoadFile(cfg.Scene.Level)
}

// ProvideSystem registers every body of lvl in a new System.
func ProvideSystem(lvl *level.Level, logger log.Log, events bus.EventBus) (*physics.System, error) {
	sys := physics.NewSystem(physics.WithLogger(logger), physics.WithEventBus(events))
	if err := lvl.Populate(sys); err != nil {
		return nil, err
	}
	logger.Info("Level loaded",
		log.String("level", lvl.Name),
		log.Int("bodies", sys.Len()))
	return sys, nil
}

func ProvideScene(sys *physics.System, logger log.Log, events bus.EventBus) (*scene.Scene, func(), error) {
	sc, err := scene.New(sys, scene.WithLogger(logger), scene.WithEventBus(events))
	if err != nil {
		return nil, nil, err
	}
	return sc, func() { _ = sc.Close() }, nil
}

// ProvideServer builds the transport and subscribes it to sc's frames.
func ProvideServer(cfg config.Config, sc *scene.Scene, lvl *level.Level, logger log.Log) *server.Server {
	srv := server.NewServer(cfg.Server, sc, server.HelloFromLevel(lvl), logger)
	sc.AddSink(srv)
	return srv
}
