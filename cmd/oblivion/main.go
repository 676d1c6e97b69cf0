package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jcdorr003/oblivion-desktop/internal/config"
	"github.com/jcdorr003/oblivion-desktop/internal/desktop"
	"github.com/jcdorr003/oblivion-desktop/internal/devtools"
	"github.com/jcdorr003/oblivion-desktop/internal/prefs"
	"github.com/jcdorr003/oblivion-desktop/internal/proxy"
	"github.com/jcdorr003/oblivion-desktop/internal/shell"
	"github.com/jcdorr003/oblivion-desktop/internal/tray"
	"github.com/jcdorr003/oblivion-desktop/internal/window"
	"github.com/jcdorr003/oblivion-desktop/pkg/log"
)

var (
	// Build-time variables (set via ldflags)
	version   = "dev"
	buildTime = "unknown"
	goVersion = "unknown"
)

//go:embed all:assets
var assets embed.FS

//go:embed assets/oblivion.png
var icon []byte

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	// Show version and exit
	if *versionFlag {
		fmt.Printf("Oblivion Desktop %s\n", version)
		fmt.Printf("Built: %s\n", buildTime)
		fmt.Printf("Go: %s\n", goVersion)
		os.Exit(0)
	}

	// Initialize logger
	logger := log.New(log.Options{Debug: *debugFlag, Dir: config.GetLogDir()})
	defer logger.Sync()

	logger.Infow("🚀 Oblivion Desktop starting", "version", version)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("Failed to load config", "error", err)
	}

	logger.Infow("📁 Configuration loaded",
		"configDir", cfg.ConfigDir,
		"logDir", cfg.LogDir,
		"env", cfg.Env,
		"startMinimized", cfg.StartMinimized,
	)

	ui, err := fs.Sub(assets, "assets")
	if err != nil {
		logger.Fatalw("Failed to load UI assets", "error", err)
	}

	// Lifecycle goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := shell.NewLoop()
	go loop.Run(ctx)

	app := desktop.New(logger.Named("desktop"), config.AppName, ui, icon)

	settings := prefs.NewFileStore(logger.Named("prefs"), config.GetSettingsFile())
	if err := settings.Watch(nil); err != nil {
		logger.Debugw("Settings watch disabled", "error", err)
	}

	windows := window.NewManager(logger.Named("window"), window.Config{
		Backend:    app,
		Screen:     app,
		Prefs:      settings,
		Menus:      app,
		Dispatcher: loop,
		Profile: window.Profile{
			Title:          config.AppName,
			Development:    cfg.IsDev(),
			CustomPosition: cfg.CustomWindowXY,
		},
		StartMinimized: cfg.StartMinimized,
	})

	trayIcon := tray.NewManager(logger.Named("tray"), app, loop, windows, icon)

	coordinator := shell.New(
		logger.Named("shell"),
		loop,
		windows,
		trayIcon,
		proxy.NewSystemController(logger.Named("proxy"), cfg.EngineProcess),
		app,
		devtools.NewProvisioner(logger.Named("devtools"), filepath.Join(cfg.ConfigDir, "devtools")),
		shell.Options{
			Debug:        cfg.IsDebug(),
			ForceTooling: cfg.UpgradeExtensions,
			OpenDevTools: cfg.IsDebug() && cfg.OpenDevTools,
			StaleLog:     config.GetStaleLogFile(),
		},
	)
	app.Attach(coordinator)
	coordinator.Start()

	if err := app.Run(); err != nil {
		logger.Errorw("Application exited with error", "error", err)
	}

	// The toolkit can return without running its shutdown hook
	if coordinator.State() != shell.StateTerminated {
		coordinator.WillQuit()
	}
	coordinator.Wait()

	logger.Info("👋 Goodbye!")
}
