package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/matheus3301/wppview/internal/config"
	"github.com/matheus3301/wppview/internal/daemon"
	"github.com/matheus3301/wppview/internal/profile"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	dirFlag := flag.String("dir", "", "local export folder to serve")
	listenFlag := flag.String("listen", "", "listen address (default from config)")
	verbose := flag.Bool("v", false, "also log to stderr")
	flag.Parse()

	config.LoadDotEnv(".env", profile.EnvPath())
	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(cfg)
	if *dirFlag != "" {
		cfg.Proxy.Dir = *dirFlag
	}
	if *listenFlag != "" {
		cfg.Proxy.Listen = *listenFlag
	}

	profileName, err := profile.Select(*profileFlag, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		daemon.Module(daemon.Params{ProfileName: profileName, Config: cfg, Console: *verbose}),
		fx.NopLogger,
	)

	app.Run()
}
