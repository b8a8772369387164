package app

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/despacholink/expediente/internal/expediente/feed"
	httpapi "github.com/despacholink/expediente/internal/expediente/http"
	"github.com/despacholink/expediente/internal/expediente/paypal"
	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/despacholink/expediente/internal/expediente/store/drivers/sqlite"
	"github.com/despacholink/expediente/pkg/blob"
	"github.com/despacholink/expediente/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the expediente service together: store, blob storage,
// services, feed bus and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	blobs *blob.FSStore
	feed  *feed.Bus

	sessionService      *service.SessionService
	mfaService          *service.MFAService
	clientService       *service.ClientService
	templateService     *service.TemplateService
	profileService      *service.ProfileService
	portalService       *service.PortalService
	housekeepingService *service.HousekeepingService
	payments            *paypal.Client

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "expediente",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	blobs, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}
	app.blobs = blobs
	app.feed = feed.NewBus()

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("expediente service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down expediente service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("expediente service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	priv, pub, err := loadSessionKey(app.cfg.SessionKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load session signing key: %w", err)
	}
	if app.cfg.SessionKeyFile == "" {
		app.logger.Warn("session signing key is ephemeral, sessions will not survive restarts")
	}

	app.sessionService = &service.SessionService{
		Store:      app.db,
		Issuer:     app.cfg.SessionIssuer,
		SigningKey: priv,
		VerifyKey:  pub,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: app.cfg.MFAIssuer,
	}
	app.clientService = &service.ClientService{
		Store:        app.db,
		Blob:         app.blobs,
		Feed:         app.feed,
		PortalOrigin: strings.TrimRight(app.cfg.PortalOrigin, "/"),
	}
	app.templateService = &service.TemplateService{Store: app.db, Blob: app.blobs}
	app.profileService = &service.ProfileService{Store: app.db, Blob: app.blobs}
	app.portalService = &service.PortalService{
		Store: app.db,
		Blob:  app.blobs,
		Feed:  app.feed,
	}
	app.payments = paypal.New(app.cfg.PayPalBaseURL(), app.cfg.PayPalClientID, app.cfg.PayPalClientSecret)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.CookieSecure = app.cfg.Env == "prod"

	router.SessionService = app.sessionService
	router.MFAService = app.mfaService
	router.ClientService = app.clientService
	router.TemplateSvc = app.templateService
	router.ProfileService = app.profileService
	router.PortalService = app.portalService
	router.Payments = app.payments
	router.Feed = app.feed
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// loadSessionKey reads a hex-encoded Ed25519 seed from path, creating one on
// first run. An empty path yields an ephemeral key.
func loadSessionKey(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	if path == "" {
		pub, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, nil, err
		}
		return priv, pub, nil
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, nil, fmt.Errorf("decode seed from %s: %w", path, err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, nil, fmt.Errorf("seed in %s must be %d bytes, got %d", path, ed25519.SeedSize, len(seed))
		}
		priv := ed25519.NewKeyFromSeed(seed)
		return priv, priv.Public().(ed25519.PublicKey), nil

	case os.IsNotExist(err):
		pub, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, nil, err
		}
		encoded := hex.EncodeToString(priv.Seed())
		if err := os.WriteFile(path, []byte(encoded+"\n"), 0o600); err != nil {
			return nil, nil, fmt.Errorf("persist seed to %s: %w", path, err)
		}
		return priv, pub, nil

	default:
		return nil, nil, err
	}
}
