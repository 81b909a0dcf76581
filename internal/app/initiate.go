package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkglog"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	pkglog.SetLevel(cfg.GetString("log.level"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("goroutine.max")))
	a.uuid = pkguid.NewUUID()

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.cid = sf.Strings()
}

func (a *App) initHTTPServer() {
	secret := strings.TrimSpace(a.config.GetString("security.api_key"))
	if secret == "" {
		slog.Error("failed to init http server", "error", "security.api_key is empty")
		os.Exit(1)
	}

	a.router = pkgrouter.NewRouter(a.cid)
	a.router.Use(pkgrouter.MiddlewareAPIKey(secret, pkgrouter.PublicPaths...))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
