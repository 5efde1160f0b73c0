package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kidpech/runtime_logviewer/internal/app"
	"github.com/kidpech/runtime_logviewer/internal/app/console"
	"github.com/kidpech/runtime_logviewer/internal/app/diagnostics"
	"github.com/kidpech/runtime_logviewer/internal/config"
	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
	"github.com/kidpech/runtime_logviewer/internal/domain/logview"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/auth"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/logging"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/monitoring"
	"github.com/kidpech/runtime_logviewer/internal/infrastructure/ratelimit"
)

type flags struct {
	configPath string
	port       string
	env        string
	maxLogs    int
	exportDir  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "logviewer",
		Short:        "Serve the runtime log capture and viewer API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "YAML config file (defaults to $LOGVIEWER_CONFIG)")
	root.Flags().StringVar(&f.port, "port", "", "HTTP port")
	root.Flags().StringVar(&f.env, "env", "", "runtime environment (development|production)")
	root.Flags().IntVar(&f.maxLogs, "max-logs", 0, "number of log entries kept in memory")
	root.Flags().StringVar(&f.exportDir, "export-dir", "", "directory receiving exported log files")

	root.AddCommand(newTokenCmd(f), newVersionCmd(f))
	return root
}

func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.App.Port = f.port
	}
	if cmd.Flags().Changed("env") {
		cfg.App.Env = f.env
	}
	if cmd.Flags().Changed("max-logs") {
		if f.maxLogs <= 0 {
			return nil, fmt.Errorf("--max-logs must be positive")
		}
		cfg.Capture.MaxCount = f.maxLogs
	}
	if cmd.Flags().Changed("export-dir") {
		cfg.Capture.ExportDir = f.exportDir
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	hub := logging.NewHub()
	logger, err := logging.New(cfg.App.Env, hub)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logging.Sync(logger)
	logging.ReplaceGlobals(logger)

	if err := monitoring.InitSentry(cfg.Monitoring, cfg.App); err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	monitoring.Init()
	defer monitoring.Flush()

	exportDir := cfg.Capture.ExportDir
	if exportDir == "" {
		exportDir = logcapture.DefaultDir(cfg.App.Name)
	}
	exporter := logcapture.NewExporter(exportDir, cfg.App.Name, logger.Named("logcapture"))
	store := logcapture.NewStore(cfg.Capture.MaxCount, exporter, monitoring.NewCaptureRecorder())
	capture := logcapture.NewService(store, hub, logger.Named("logcapture"), cfg.Capture.ExportOnShutdown)
	if err := capture.Start(); err != nil {
		return err
	}
	if cfg.Capture.CaptureStdLog {
		restore := logging.CaptureStdLog(logger)
		defer restore()
	}

	registry := console.NewRegistry()
	if err := registry.Register(console.Command{
		Name: console.ExportCommand,
		Help: "Write the captured log history to a file in the logs directory",
		Run: func() error {
			err := capture.Export()
			monitoring.ReportExportFailure(err)
			return err
		},
	}); err != nil {
		return err
	}

	router := app.NewRouter(app.RouterDeps{
		Config:         cfg,
		Diagnostics:    diagnostics.NewHandler(logview.NewService(store), registry, cfg.Capture.DisplayUTCOffset),
		Verifier:       auth.NewVerifier(cfg.Operator),
		Logger:         logger,
		ConsoleLimiter: ratelimit.NewMemoryLimiter(cfg.Operator.RequestsPerMinute, cfg.Operator.Burst),
	})

	server := &app.Server{
		Engine:     router,
		Addr:       ":" + cfg.App.Port,
		Logger:     logger,
		OnShutdown: capture.Shutdown,
	}
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	return nil
}
