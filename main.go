// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/ariebrainware/patient-registry/config"
	"github.com/ariebrainware/patient-registry/endpoint"
	"github.com/ariebrainware/patient-registry/model"
	"github.com/ariebrainware/patient-registry/registry"
	"github.com/ariebrainware/patient-registry/store"
	"github.com/ariebrainware/patient-registry/util"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// @title           Patient Registry API
// @version         1.0
// @description     Register patients and manage them per signed-in account.
// @BasePath        /
// @securityDefinitions.apikey SessionToken
// @in              header
// @name            session-token
func main() {
	rootCmd := &cobra.Command{
		Use:   "patient-registry",
		Short: "Patient registration service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectMySQL()
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			if err := migrate(db); err != nil {
				return err
			}
			log.Println("Migrations applied")
			return nil
		},
	}
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.PatientRecord{}, &model.User{}, &model.Session{}, &model.SecurityLog{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func recordStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (store.RecordStore, func(), error) {
	if cfg.RecordBackend == config.BackendFirestore {
		client, err := config.ConnectFirestore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return store.NewFirestoreStore(client), func() { _ = client.Close() }, nil
	}
	return store.NewSQLStore(db), func() {}, nil
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.LoadConfig()

	secret := os.Getenv("JWTSECRET")
	if secret == "" {
		return errors.New("JWTSECRET must be set")
	}
	util.SetJWTSecret(secret)

	db, err := config.ConnectMySQL()
	if err != nil {
		return fmt.Errorf("error connecting to MySQL: %w", err)
	}
	if err := migrate(db); err != nil {
		return err
	}

	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, session cache and rate limiting disabled: %v", err)
	}

	if cfg.GeoIPPath != "" {
		if err := util.InitGeoIP(cfg.GeoIPPath); err != nil {
			log.Printf("GeoIP disabled: %v", err)
		}
		defer util.CloseGeoIP()
	}
	util.SetSecurityLoggerDB(db)

	records, closeRecords, err := recordStore(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer closeRecords()

	creds := auth.NewLocalStore(db, cfg.SessionTTL)
	ws := registry.NewWorkspace(creds, records, registry.Options{
		Collection: cfg.RecordCollection,
		SessionTTL: cfg.SessionTTL,
		MessageTTL: cfg.MessageTTL,
	})
	defer ws.Close()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := endpoint.NewRouter(ws, endpoint.RouterOptions{
		AppName:     cfg.AppName,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting %s on %s (records: %s/%s)", cfg.AppName, srv.Addr, cfg.RecordBackend, cfg.RecordCollection)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
