package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/config"
	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/profile"
	"github.com/matheus3301/wppview/internal/tui"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	chatFlag := flag.String("chat", "", "exported chat .txt to open")
	mediaFlag := flag.String("media", "", "folder holding the exported media files")
	remoteFlag := flag.String("remote", "", "media proxy URL to load from")
	cachedFlag := flag.Bool("cached", false, "open the chat installed in the cache")
	watchFlag := flag.Bool("watch", false, "reload the local export when it changes")
	flag.Parse()

	if *chatFlag == "" && flag.NArg() > 0 {
		*chatFlag = flag.Arg(0)
	}

	config.LoadDotEnv(".env", profile.EnvPath())
	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(cfg)
	if *remoteFlag != "" {
		cfg.Remote.URL = *remoteFlag
	}

	profileName, err := profile.Select(*profileFlag, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := profile.EnsureDir(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(profile.LogPath(profileName, "wppview"), profileName, logging.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	guard := cache.OpenGuard(profile.CachePath(profileName), logger)
	defer func() { _ = guard.Close() }()

	b := bus.New()
	defer b.Close()

	app := tui.NewApp(tui.Options{
		Profile:  profileName,
		Config:   cfg,
		Guard:    guard,
		Bus:      b,
		Logger:   logger,
		ChatPath: *chatFlag,
		MediaDir: *mediaFlag,
		Remote:   *remoteFlag != "",
		Cached:   *cachedFlag,
		Watch:    *watchFlag,
	})
	logger.Info("viewer starting", zap.String("chat", *chatFlag), zap.Bool("remote", *remoteFlag != ""))
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
