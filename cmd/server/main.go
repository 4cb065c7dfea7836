package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/voxelphys/internal/config"
	"github.com/zeusync/voxelphys/internal/core/observability/log"
	"github.com/zeusync/voxelphys/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	levelPath := flag.String("level", "", "path to a level file, overrides scene.level")
	flag.Parse()

	if err := run(*configPath, *levelPath); err != nil {
		fmt.Fprintln(os.Stderr, "voxel server:", err)
		os.Exit(1)
	}
}

func run(configPath, levelPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if levelPath != "" {
		cfg.Scene.Level = levelPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() { _ = app.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Scene.Run(ctx, cfg.Scene.TickRate.Duration)
	})
	g.Go(func() error {
		return app.Server.Run(ctx)
	})

	app.Logger.Info("Voxel server running",
		log.String("level", app.Level.Name),
		log.String("listen_addr", cfg.Server.ListenAddr),
		log.Duration("tick_rate", cfg.Scene.TickRate.Duration))

	err = g.Wait()
	app.Logger.Info("Voxel server stopped")
	return err
}
