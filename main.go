package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonpro-crm/config"
	"salonpro-crm/routes"
	"salonpro-crm/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	defaults := config.Default()
	return &cli.App{
		Name:  "salonpro-crm",
		Usage: "Salon customer records over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: defaults.Port, EnvVars: []string{"PORT"}, Usage: "HTTP listen port"},
			&cli.StringFlag{Name: "database-url", EnvVars: []string{"DATABASE_URL"}, Usage: "database connection string; empty selects the JSON file store"},
			&cli.StringFlag{Name: "db-driver", Value: defaults.DBDriver, EnvVars: []string{"DB_DRIVER"}, Usage: "postgres or sqlite"},
			&cli.StringFlag{Name: "data-file", Value: defaults.DataFile, EnvVars: []string{"DATA_FILE"}, Usage: "JSON file used when no database is available"},
			&cli.StringFlag{Name: "public-dir", Value: defaults.PublicDir, EnvVars: []string{"PUBLIC_DIR"}, Usage: "directory with the browser UI"},
			&cli.StringFlag{Name: "log-level", Value: defaults.LogLevel, EnvVars: []string{"LOG_LEVEL"}, Usage: "debug, info, warn or error"},
			&cli.StringSliceFlag{Name: "cors-origin", Value: cli.NewStringSlice(defaults.CORSOrigins...), EnvVars: []string{"CORS_ORIGINS"}, Usage: "allowed CORS origin, repeatable"},
		},
		Action: serve,
	}
}

func configFromContext(c *cli.Context) config.Config {
	return config.Config{
		Port:        c.String("port"),
		DatabaseURL: c.String("database-url"),
		DBDriver:    c.String("db-driver"),
		DataFile:    c.String("data-file"),
		PublicDir:   c.String("public-dir"),
		LogLevel:    c.String("log-level"),
		CORSOrigins: c.StringSlice("cors-origin"),
	}
}

func serve(c *cli.Context) error {
	cfg := configFromContext(c)
	logger := config.NewLogger(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := services.SelectBackend(ctx, cfg, logger)
	defer svc.Close()

	r := routes.SetupRouter(cfg, svc, logger)
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port, "backend", svc.Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printRoutes(r *gin.Engine, logger *slog.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", "method", route.Method, "path", route.Path)
	}
}
