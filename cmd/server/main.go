package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/playdrawer/backend/internal/api"
	"github.com/playdrawer/backend/internal/config"
	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/logging"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/playdrawer/backend/internal/session"
	"github.com/playdrawer/backend/internal/storage"
	"github.com/playdrawer/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "PlayDrawer.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Configure(cfg.Advanced.LogLevel, nil)
	logger := logging.New("server")

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatalf("failed to create directories: %v", err)
	}

	// Check if running in embedded mode (frontend built into binary)
	embeddedMode := web.HasEmbeddedFiles()

	catalog, err := routes.LoadCatalog(cfg.Rendering.PresetsFile)
	if err != nil {
		logger.Fatalf("failed to load route presets: %v", err)
	}

	layout, err := field.NewLayout(cfg.Field.FieldWidth, cfg.Field.FieldHeight, cfg.Field.SpotsPerRow, cfg.Field.YardsWide)
	if err != nil {
		logger.Fatalf("invalid field configuration: %v", err)
	}

	style := render.Style{Width: cfg.Rendering.StrokeWidth, Color: cfg.Rendering.StrokeColor}
	style = style.Resolve()

	// Initialize storage
	var backend storage.Store
	switch cfg.Storage.Backend {
	case config.BackendDuckDB:
		backend, err = storage.NewDuckStore(cfg.Storage.DuckDBPath, cfg.Storage.DuckDBThreads, cfg.Storage.DuckDBMemoryLimit)
	default:
		backend, err = storage.NewLocalStore(cfg.Storage.PlaysDirectory)
	}
	if err != nil {
		logger.Fatalf("failed to initialize %s storage: %v", cfg.Storage.Backend, err)
	}
	playStore := storage.NewObserved(backend)
	defer playStore.Close()

	// Initialize session manager
	sessionMgr := session.NewManager(catalog, style)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start background session cleanup
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessionMgr.CleanupOldSessions(cfg.SessionTimeout())
			case <-ctx.Done():
				return
			}
		}
	}()

	handlers := api.NewHandlers(&api.Dependencies{
		Store:             playStore,
		SessionMgr:        sessionMgr,
		Catalog:           catalog,
		Layout:            layout,
		Style:             style,
		AllowPlayDeletion: cfg.Security.AllowPlayDeletion,
		WSMaxMessageKB:    cfg.Advanced.WebSocketMaxMessageSize,
		Version:           Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.Logger = logging.New("echo")
	api.SetupMiddleware(e)

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging if disabled in config
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/keepalive") ||
				path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
		},
		ErrorMessage: "Request timeout",
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
		},
	}))

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, handlers)
	api.RegisterWebSocketRoutes(e, handlers)

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			logger.Warnf("failed to register static routes: %v", err)
		} else {
			logger.Info("serving embedded frontend from binary")
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Play Drawer Server                              ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Storage:    %-45s║\n", cfg.Storage.Backend)
	fmt.Printf("║  Routes:     %-45d║\n", catalog.Size())
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}
