package daemon

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/config"
	"github.com/matheus3301/wppview/internal/lock"
	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/profile"
	"github.com/matheus3301/wppview/internal/proxy"
	"github.com/matheus3301/wppview/internal/watch"
)

// Params holds the resolved settings passed to the fx module.
type Params struct {
	ProfileName string
	Config      *config.Config
	// Logger overrides the profile log file, for tests.
	Logger *zap.Logger
	// Console also logs to stderr.
	Console bool
}

// Module returns the fx module for wppviewd, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideLock,
			provideBackend,
			provideServer,
			provideWatcher,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if p.Logger != nil {
		return p.Logger, nil
	}
	return logging.New(profile.LogPath(p.ProfileName, "wppviewd"), p.ProfileName, logging.Options{Console: p.Console})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring proxy lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName), lock.Proxy, "wppviewd")
	if err != nil {
		return nil, err
	}
	logger.Info("proxy lock acquired", zap.String("path", l.Path()))
	return l, nil
}

// ErrNoBackend means neither a local folder nor a Drive folder is configured.
var ErrNoBackend = errors.New("no export folder configured: set proxy.dir or proxy.drive_folder_id")

func provideBackend(p Params, logger *zap.Logger) (proxy.Backend, error) {
	pc := p.Config.Proxy
	switch {
	case pc.Dir != "":
		logger.Info("serving local folder", zap.String("dir", pc.Dir))
		return &proxy.DirBackend{Root: pc.Dir}, nil
	case pc.DriveFolderID != "":
		logger.Info("serving drive folder", zap.String("folder_id", pc.DriveFolderID))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return proxy.NewDriveBackend(ctx, proxy.DriveConfig{
			FolderID:        pc.DriveFolderID,
			APIKey:          pc.APIKey,
			CredentialsFile: pc.CredentialsFile,
		})
	default:
		return nil, ErrNoBackend
	}
}

func provideServer(backend proxy.Backend, logger *zap.Logger) *proxy.Server {
	return proxy.NewServer(backend, logger)
}

// provideWatcher watches a local export folder so new files show up without
// restarting. Drive folders are relisted on every list request instead.
func provideWatcher(p Params, b *bus.Bus, logger *zap.Logger) (*watch.Watcher, error) {
	if p.Config.Proxy.Dir == "" {
		return nil, nil
	}
	return watch.New([]string{p.Config.Proxy.Dir}, watch.DefaultSettle, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, p Params, srv *proxy.Server, w *watch.Watcher, lk *lock.Lock, b *bus.Bus, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if w != nil {
				w.OnChange(func(c watch.Change) {
					logger.Info("export folder changed", zap.Int("files", len(c.Paths)))
					srv.Invalidate()
				})
				go w.Run(ctx)
			}
			if _, err := srv.Start(p.Config.Proxy.Listen); err != nil {
				return err
			}
			logger.Info("daemon started", zap.String("url", srv.URL()))
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if err := srv.Stop(stopCtx); err != nil {
				logger.Warn("error stopping proxy", zap.Error(err))
			}
			b.Close()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
