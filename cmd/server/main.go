package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/1shevadin1/NACHA-converter/internal/actionlog"
	"github.com/1shevadin1/NACHA-converter/internal/api"
	"github.com/1shevadin1/NACHA-converter/internal/config"
	"github.com/1shevadin1/NACHA-converter/internal/logger"
	"github.com/1shevadin1/NACHA-converter/internal/session"
	"github.com/1shevadin1/NACHA-converter/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default: next to the executable)")
	flag.Parse()

	if *configPath == "" {
		exePath, err := os.Executable()
		if err != nil {
			fmt.Printf("Failed to get executable path: %v\n", err)
			os.Exit(1)
		}
		*configPath = filepath.Join(filepath.Dir(exePath), "transmittal.yaml")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg.Advanced.LogLevel)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.L.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		logger.L.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	actions, err := actionlog.Open(cfg.Advanced.ActionLogThreads)
	if err != nil {
		logger.L.Error("Failed to open action log", "error", err)
		os.Exit(1)
	}
	defer actions.Close()

	sessionMgr := session.NewManager(actions, fileStore, cfg.Session.MaxSessions)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background session cleanup
	cleanupInterval := time.Duration(cfg.Session.CleanupIntervalMinutes) * time.Minute
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessionMgr.CleanupOldSessions(time.Duration(cfg.Session.TimeoutMinutes) * time.Minute)
			}
		}
	}()

	maxUpload, err := cfg.GetBodyLimitBytes()
	if err != nil {
		logger.L.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	h := api.NewHandler(fileStore, sessionMgr, cfg.GetAllowedExtensions(), maxUpload, Version)

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e)

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			return strings.Contains(c.Request().URL.Path, "/files")
		},
		ErrorMessage: "Request timeout",
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/xlsx")
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 1 && origins[0] == "" {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	var uploadMW []echo.MiddlewareFunc
	if limiter := api.NewUploadRateLimiter(cfg.Server.UploadRateLimit); limiter != nil {
		uploadMW = append(uploadMW, limiter)
	}
	api.RegisterRoutes(e, h, uploadMW...)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           NACHA Transmittal Server                        ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", *configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.L.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Shutdown failed", "error", err)
	}
}
