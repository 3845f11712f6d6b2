package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/config"
	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/profile"
)

// env is what every subcommand shares once flags are parsed.
type env struct {
	profileFlag string
	verbose     bool

	profile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "wppviewctl",
		Short:         "Inspect WhatsApp exports and manage the wppview cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init()
		},
	}
	root.PersistentFlags().StringVar(&e.profileFlag, "profile", "", "profile name (overrides config default)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newParseCmd(e),
		newSearchCmd(e),
		newMediaDebugCmd(e),
		newInstallCmd(e),
		newCacheCmd(e),
		newShareCmd(e),
	)
	return root
}

func (e *env) init() error {
	config.LoadDotEnv(".env", profile.EnvPath())
	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		return err
	}
	config.ApplyEnv(cfg)
	e.cfg = cfg

	if e.profile, err = profile.Select(e.profileFlag, cfg); err != nil {
		return err
	}
	if !e.verbose {
		e.log = zap.NewNop()
		return nil
	}
	if err := profile.EnsureDir(e.profile); err != nil {
		return err
	}
	e.log, err = logging.New(profile.LogPath(e.profile, "wppviewctl"), e.profile, logging.Options{Console: true})
	return err
}
