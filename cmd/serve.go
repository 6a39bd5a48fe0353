package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-ui/lumen/internal/runtime"
	"github.com/lumen-ui/lumen/internal/server"
	"github.com/lumen-ui/lumen/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the component preview server",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		engine := runtime.NewRenderingEngine(nil, nil, logger)
		srv := server.New(cfg, engine, reg, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Development.HotReload && len(cfg.Manifests.Paths) > 0 {
			debounce := time.Duration(cfg.Development.DebounceMS) * time.Millisecond
			fw, err := watcher.NewFileWatcher(debounce, logger)
			if err != nil {
				return err
			}
			defer fw.Stop()

			fw.AddFilter(watcher.ManifestFilter)
			fw.AddFilter(watcher.NoHiddenFilter)
			fw.AddHandler(func(events []watcher.ChangeEvent) error {
				logger.Info(ctx, "manifests changed, reloading", "count", len(events))
				// Re-registration notifies the registry's watchers, which
				// the server forwards to connected browsers.
				return reloadManifests(cfg, reg)
			})
			for _, path := range cfg.Manifests.Paths {
				if err := fw.AddPath(path); err != nil {
					logger.Warn(ctx, err, "cannot watch manifest", "path", path)
				}
			}
			if err := fw.Start(ctx); err != nil {
				return err
			}
		}

		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "preview server port")
	serveCmd.Flags().String("host", "", "preview server host")
	rootCmd.AddCommand(serveCmd)
}
