package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/milk9111/gecore/game"
	"github.com/milk9111/gecore/log"
)

func main() {
	cfg, err := game.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sceneFile := flag.String("scene", cfg.Scene, "scene file to load (.json or .yaml)")
	levelName := flag.String("level", cfg.Level, "embedded level name in levels/ (basename, extension optional)")
	frames := flag.Int("frames", cfg.Frames, "frames to run before exiting, 0 runs until interrupted")
	hotReload := flag.Bool("hot", cfg.HotReload, "reload prefabs, scripts and the scene file when they change on disk")
	savePath := flag.String("save", cfg.SavePath, "write the final world to this scene file on exit")
	logLevel := flag.String("log", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	pretty := flag.Bool("pretty", cfg.LogPretty, "human readable logs instead of JSON lines")
	flag.Parse()

	cfg.Scene = *sceneFile
	cfg.Level = *levelName
	cfg.Frames = *frames
	cfg.HotReload = *hotReload
	cfg.SavePath = *savePath
	cfg.LogLevel = *logLevel
	cfg.LogPretty = *pretty

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(cfg game.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, lvl, cfg.LogPretty)

	g, err := game.New(cfg, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := g.Run(ctx, cfg.Frames); err != nil && ctx.Err() == nil {
		return err
	}
	if cfg.SavePath != "" {
		if err := g.Save(cfg.SavePath); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.SavePath).Int("frames", g.Frame()).Msg("world saved")
	}
	return nil
}
